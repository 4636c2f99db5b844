package homogenize

import (
	"github.com/pkg/errors"

	"github.com/notargets/gohomog/spectral"
)

// callback collects per iteration diagnostics of the linear solver
type callback struct {
	Kind      CallbackKind
	Residuals []float64
	Energies  []float64

	A, Afun spectral.Operator
	B, EN   *spectral.VecField
	err     error
}

func newCallback(kind CallbackKind, Afun spectral.Operator, B, EN *spectral.VecField, A spectral.Operator) (cb *callback, err error) {
	switch kind {
	case Basic, Detailed:
	default:
		err = errors.Wrapf(ErrUnsupportedCallback, "callback %s", kind)
		return
	}
	cb = &callback{Kind: kind, Afun: Afun, B: B, EN: EN, A: A}
	return
}

// record stores the residual norm |B - Afun(x)| and, for detailed
// callbacks, the energy (A(x+E)).(x+E) of the current iterate
func (cb *callback) record(_ int, x *spectral.VecField) {
	if cb.err != nil {
		return
	}
	var r, xE *spectral.VecField
	if r, cb.err = cb.Afun.Apply(x); cb.err != nil {
		return
	}
	if r, cb.err = cb.B.Sub(r); cb.err != nil {
		return
	}
	cb.Residuals = append(cb.Residuals, r.Norm())
	if cb.Kind != Detailed {
		return
	}
	if xE, cb.err = x.Add(cb.EN); cb.err != nil {
		return
	}
	var energy float64
	if energy, cb.err = spectral.Bilinear(cb.A, xE, xE); cb.err != nil {
		return
	}
	cb.Energies = append(cb.Energies, energy)
}
