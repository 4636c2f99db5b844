package utils

import (
	"fmt"
	"math"
)

type Index []int

func NewIndex(N int) (I Index) {
	return make(Index, N)
}

func (I Index) Add(val int) (r Index) {
	r = make(Index, len(I))
	for i, ival := range I {
		r[i] = val + ival
	}
	return r
}

// Shape is the number of grid points per axis, 2D or 3D.
// Grid data is stored row major, the last axis varies fastest.
type Shape []int

func NewShape(n ...int) (s Shape) {
	s = make(Shape, len(n))
	copy(s, n)
	return
}

// NewShapeConst returns a shape of dimension dim with n points per axis
func NewShapeConst(dim, n int) (s Shape) {
	s = make(Shape, dim)
	for i := range s {
		s[i] = n
	}
	return
}

func (s Shape) Dim() int { return len(s) }

func (s Shape) Size() (P int) {
	P = 1
	for _, n := range s {
		P *= n
	}
	return
}

func (s Shape) Copy() Shape { return NewShape(s...) }

func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Compare reports whether (s[i] op o[i]) holds on every axis
func (s Shape) Compare(op EvalOp, o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if !Compare(op, s[i], o[i]) {
			return false
		}
	}
	return true
}

func (s Shape) Apply(f func(n int) int) (r Shape) {
	r = make(Shape, len(s))
	for i, n := range s {
		r[i] = f(n)
	}
	return
}

// Odd returns 2N-1 on every axis, the grid carrying products of two
// trigonometric polynomials of size N.
func (s Shape) Odd() Shape {
	return s.Apply(func(n int) int { return 2*n - 1 })
}

// Half returns N/2 (floor) on every axis
func (s Shape) Half() Shape {
	return s.Apply(func(n int) int { return n / 2 })
}

func (s Shape) Mean() float64 {
	var sum float64
	for _, n := range s {
		sum += float64(n)
	}
	return sum / float64(len(s))
}

// Center is the index of the zero frequency (and of the origin in real space)
func (s Shape) Center() (c Index) {
	c = make(Index, len(s))
	for i, n := range s {
		c[i] = n / 2
	}
	return
}

func (s Shape) Strides() (st Index) {
	st = make(Index, len(s))
	stride := 1
	for i := len(s) - 1; i >= 0; i-- {
		st[i] = stride
		stride *= s[i]
	}
	return
}

// Unravel converts a linear index into per axis subscripts, written to sub
func (s Shape) Unravel(ind int, sub Index) {
	for i := len(s) - 1; i >= 0; i-- {
		sub[i] = ind % s[i]
		ind /= s[i]
	}
}

func (s Shape) Ravel(sub Index) (ind int) {
	for i, n := range s {
		ind = ind*n + sub[i]
	}
	return
}

func (s Shape) Validate() (err error) {
	if len(s) != 2 && len(s) != 3 {
		err = fmt.Errorf("grid must be 2D or 3D, have dimension %d", len(s))
		return
	}
	for i, n := range s {
		if n < 1 {
			err = fmt.Errorf("grid axis %d must have a positive number of points, have %d", i, n)
			return
		}
	}
	return
}

func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// Coordinates returns the collocation points of the periodic cell Y on grid s,
// coord[axis][point], centered on the origin: x_i = (i - n/2) * Y/n
func (s Shape) Coordinates(Y []float64) (coord [][]float64) {
	var (
		P   = s.Size()
		sub = NewIndex(len(s))
	)
	coord = make([][]float64, len(s))
	for d := range coord {
		coord[d] = make([]float64, P)
	}
	for ind := 0; ind < P; ind++ {
		s.Unravel(ind, sub)
		for d, n := range s {
			coord[d][ind] = float64(sub[d]-n/2) * Y[d] / float64(n)
		}
	}
	return
}

// CeilDiv returns ceil(a/b) per axis
func CeilDiv(a, b Shape) (r Shape) {
	r = make(Shape, len(a))
	for i := range a {
		r[i] = int(math.Ceil(float64(a[i]) / float64(b[i])))
	}
	return
}
