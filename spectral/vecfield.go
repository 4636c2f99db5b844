package spectral

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/cmplxs"

	"github.com/notargets/gohomog/utils"
)

// VecField is a vector valued field on grid N, Val[component][point]
type VecField struct {
	Name string
	N    utils.Shape
	Mode Mode
	Val  [][]complex128
}

func NewVecField(name string, d int, N utils.Shape, mode Mode) (x *VecField) {
	x = &VecField{
		Name: name,
		N:    N.Copy(),
		Mode: mode,
		Val:  make([][]complex128, d),
	}
	for c := range x.Val {
		x.Val[c] = make([]complex128, N.Size())
	}
	return
}

// NewMacroField is the constant field E. In Fourier mode only the zero
// frequency coefficient is set.
func NewMacroField(name string, E []float64, N utils.Shape, mode Mode) (x *VecField) {
	x = NewVecField(name, len(E), N, mode)
	switch mode {
	case Real:
		for c, e := range E {
			for i := range x.Val[c] {
				x.Val[c][i] = complex(e, 0)
			}
		}
	case Fourier:
		dc := N.Ravel(N.Center())
		for c, e := range E {
			x.Val[c][dc] = complex(e, 0)
		}
	}
	return
}

func (x *VecField) D() int { return len(x.Val) }

func (x *VecField) Copy() (y *VecField) {
	y = NewVecField(x.Name, x.D(), x.N, x.Mode)
	for c := range x.Val {
		copy(y.Val[c], x.Val[c])
	}
	return
}

func (x *VecField) String() string {
	return fmt.Sprintf("VecField(%s, d=%d, N=%v, %s)", x.Name, x.D(), x.N, x.Mode)
}

func wrapShape(N, M utils.Shape, context string) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: %v vs %v", context, N, M)
}

func (x *VecField) compatible(y *VecField) (err error) {
	switch {
	case !x.N.Equal(y.N):
		err = wrapShape(x.N, y.N, x.Name+" and "+y.Name)
	case x.Mode != y.Mode:
		err = errors.Wrapf(ErrModeMismatch, "%s is %s, %s is %s", x.Name, x.Mode, y.Name, y.Mode)
	case x.D() != y.D():
		err = errors.Wrapf(ErrDimMismatch, "%s has %d components, %s has %d", x.Name, x.D(), y.Name, y.D())
	}
	return
}

func (x *VecField) Add(y *VecField) (z *VecField, err error) {
	if err = x.compatible(y); err != nil {
		return
	}
	z = x.Copy()
	for c := range z.Val {
		cmplxs.Add(z.Val[c], y.Val[c])
	}
	return
}

func (x *VecField) Sub(y *VecField) (z *VecField, err error) {
	if err = x.compatible(y); err != nil {
		return
	}
	z = x.Copy()
	for c := range z.Val {
		cmplxs.Sub(z.Val[c], y.Val[c])
	}
	return
}

// Axpy updates x in place, x += a*y
func (x *VecField) Axpy(a float64, y *VecField) (err error) {
	if err = x.compatible(y); err != nil {
		return
	}
	for c := range x.Val {
		cmplxs.AddScaled(x.Val[c], complex(a, 0), y.Val[c])
	}
	return
}

func (x *VecField) Scale(a float64) (z *VecField) {
	z = x.Copy()
	for c := range z.Val {
		cmplxs.Scale(complex(a, 0), z.Val[c])
	}
	return
}

func (x *VecField) Neg() *VecField { return x.Scale(-1) }

// Dot is the L2 pairing of the cell. In real space it is the grid mean of
// x.y, in Fourier space the sum of the coefficient products; both agree
// through Parseval.
func (x *VecField) Dot(y *VecField) (s float64, err error) {
	if err = x.compatible(y); err != nil {
		return
	}
	for c := range x.Val {
		s += real(cmplxs.Dot(x.Val[c], y.Val[c]))
	}
	if x.Mode == Real {
		s /= float64(x.N.Size())
	}
	return
}

// Norm is sqrt(x.x). In Fourier mode this is the Euclidean norm of the coefficients.
func (x *VecField) Norm() float64 {
	s, _ := x.Dot(x)
	return math.Sqrt(s)
}

// Mean returns the cell average of every component
func (x *VecField) Mean() (m []float64) {
	m = make([]float64, x.D())
	switch x.Mode {
	case Real:
		for c := range x.Val {
			m[c] = real(cmplxs.Sum(x.Val[c])) / float64(x.N.Size())
		}
	case Fourier:
		dc := x.N.Ravel(x.N.Center())
		for c := range x.Val {
			m[c] = real(x.Val[c][dc])
		}
	}
	return
}

// RealPart returns the real part of every component
func (x *VecField) RealPart() (v [][]float64) {
	v = make([][]float64, x.D())
	for c := range x.Val {
		v[c] = make([]float64, len(x.Val[c]))
		for i, z := range x.Val[c] {
			v[c][i] = real(z)
		}
	}
	return
}

// Resize moves x to grid M by padding or truncating its Fourier coefficients.
// A real space field is transformed, resized and transformed back.
func (x *VecField) Resize(M utils.Shape) (y *VecField, err error) {
	if x.N.Dim() != M.Dim() {
		err = wrapShape(x.N, M, "resize "+x.Name)
		return
	}
	var (
		xh = x
		FM = NewDFT("FiM", M, true)
	)
	if x.Mode == Real {
		if xh, err = NewDFT("FN", x.N, false).Apply(x); err != nil {
			return
		}
	}
	y = &VecField{Name: x.Name, N: M.Copy(), Mode: Fourier, Val: make([][]complex128, x.D())}
	for c := range xh.Val {
		y.Val[c] = Resize(xh.Val[c], x.N, M)
	}
	if x.Mode == Real {
		y, err = FM.Apply(y)
	}
	return
}

// Enlarge is Resize onto a grid that is at least as large on every axis
func (x *VecField) Enlarge(M utils.Shape) (y *VecField, err error) {
	if !M.Compare(utils.GreaterOrEqual, x.N) {
		err = wrapShape(x.N, M, "enlarge "+x.Name)
		return
	}
	return x.Resize(M)
}

// Restrict is Resize onto a grid that is at most as large on every axis
func (x *VecField) Restrict(M utils.Shape) (y *VecField, err error) {
	if !M.Compare(utils.LessOrEqual, x.N) {
		err = wrapShape(x.N, M, "restrict "+x.Name)
		return
	}
	return x.Resize(M)
}
