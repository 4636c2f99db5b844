// Package spectral holds fields sampled on a periodic grid, either as real
// space values or as centered Fourier coefficients, together with the linear
// operators acting on them: pointwise tensor multiplication, the centered
// discrete Fourier transform and ordered compositions of both.
//
// Both representations keep the origin at the center of the array. Index i on
// an axis with n points is the real space point (i - n/2)*Y/n, or the
// frequency i - n/2.
package spectral

import "github.com/pkg/errors"

var (
	ErrShapeMismatch = errors.New("grid shape mismatch")
	ErrModeMismatch  = errors.New("representation mismatch")
	ErrNotSquare     = errors.New("non-square matrix")
	ErrDimMismatch   = errors.New("component count mismatch")
)

type Mode uint8

const (
	Real Mode = iota
	Fourier
)

func (m Mode) String() string {
	switch m {
	case Real:
		return "real"
	case Fourier:
		return "Fourier"
	}
	return "unknown"
}
