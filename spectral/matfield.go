package spectral

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/utils"
)

// MatField is a matrix valued field on grid N, Val[row][col][point]. It
// acts on a VecField by pointwise matrix-vector multiplication, in whichever
// representation both share.
type MatField struct {
	Name string
	N    utils.Shape
	Mode Mode
	Val  [][][]complex128
}

func NewMatField(name string, nr, nc int, N utils.Shape, mode Mode) (A *MatField) {
	A = &MatField{
		Name: name,
		N:    N.Copy(),
		Mode: mode,
		Val:  make([][][]complex128, nr),
	}
	for i := range A.Val {
		A.Val[i] = make([][]complex128, nc)
		for j := range A.Val[i] {
			A.Val[i][j] = make([]complex128, N.Size())
		}
	}
	return
}

// NewMatFieldConst is the field equal to the tensor T everywhere. In Fourier
// mode T sits on the zero frequency only.
func NewMatFieldConst(name string, T mat.Matrix, N utils.Shape, mode Mode) (A *MatField) {
	nr, nc := T.Dims()
	A = NewMatField(name, nr, nc, N, mode)
	dc := N.Ravel(N.Center())
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			t := complex(T.At(i, j), 0)
			switch mode {
			case Real:
				for p := range A.Val[i][j] {
					A.Val[i][j][p] = t
				}
			case Fourier:
				A.Val[i][j][dc] = t
			}
		}
	}
	return
}

func (A *MatField) Dims() (nr, nc int) {
	nr = len(A.Val)
	if nr != 0 {
		nc = len(A.Val[0])
	}
	return
}

func (A *MatField) String() string {
	nr, nc := A.Dims()
	return fmt.Sprintf("MatField(%s, %dx%d, N=%v, %s)", A.Name, nr, nc, A.N, A.Mode)
}

func (A *MatField) Copy() (B *MatField) {
	nr, nc := A.Dims()
	B = NewMatField(A.Name, nr, nc, A.N, A.Mode)
	for i := range A.Val {
		for j := range A.Val[i] {
			copy(B.Val[i][j], A.Val[i][j])
		}
	}
	return
}

// Apply computes y = A x pointwise
func (A *MatField) Apply(x *VecField) (y *VecField, err error) {
	nr, nc := A.Dims()
	switch {
	case !A.N.Equal(x.N):
		err = wrapShape(A.N, x.N, A.Name+" applied to "+x.Name)
		return
	case A.Mode != x.Mode:
		err = errors.Wrapf(ErrModeMismatch, "%s is %s, %s is %s", A.Name, A.Mode, x.Name, x.Mode)
		return
	case nc != x.D():
		err = errors.Wrapf(ErrDimMismatch, "%s has %d columns, %s has %d components", A.Name, nc, x.Name, x.D())
		return
	}
	y = NewVecField(x.Name, nr, x.N, x.Mode)
	tmp := make([]complex128, x.N.Size())
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			cmplxs.MulTo(tmp, A.Val[i][j], x.Val[j])
			cmplxs.Add(y.Val[i], tmp)
		}
	}
	return
}

func (A *MatField) Add(B *MatField) (C *MatField, err error) {
	anr, anc := A.Dims()
	bnr, bnc := B.Dims()
	switch {
	case !A.N.Equal(B.N):
		err = wrapShape(A.N, B.N, A.Name+" + "+B.Name)
		return
	case A.Mode != B.Mode:
		err = errors.Wrapf(ErrModeMismatch, "%s is %s, %s is %s", A.Name, A.Mode, B.Name, B.Mode)
		return
	case anr != bnr || anc != bnc:
		err = errors.Wrapf(ErrDimMismatch, "%dx%d + %dx%d", anr, anc, bnr, bnc)
		return
	}
	C = A.Copy()
	for i := range C.Val {
		for j := range C.Val[i] {
			cmplxs.Add(C.Val[i][j], B.Val[i][j])
		}
	}
	return
}

func (A *MatField) Scale(a float64) (B *MatField) {
	B = A.Copy()
	for i := range B.Val {
		for j := range B.Val[i] {
			cmplxs.Scale(complex(a, 0), B.Val[i][j])
		}
	}
	return
}

// Resize applies the Fourier resize to every (row, col) entry independently
func (A *MatField) Resize(M utils.Shape) (B *MatField, err error) {
	if A.N.Dim() != M.Dim() {
		err = wrapShape(A.N, M, "resize "+A.Name)
		return
	}
	Ah := A
	if A.Mode == Real {
		if Ah, err = NewDFT("FN", A.N, false).ApplyMat(A); err != nil {
			return
		}
	}
	nr, nc := A.Dims()
	B = NewMatField(A.Name, nr, nc, M, Fourier)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			B.Val[i][j] = Resize(Ah.Val[i][j], A.N, M)
		}
	}
	if A.Mode == Real {
		B, err = NewDFT("FiM", M, true).ApplyMat(B)
	}
	return
}

func (A *MatField) Enlarge(M utils.Shape) (B *MatField, err error) {
	if !M.Compare(utils.GreaterOrEqual, A.N) {
		err = wrapShape(A.N, M, "enlarge "+A.Name)
		return
	}
	return A.Resize(M)
}

func (A *MatField) Decrease(M utils.Shape) (B *MatField, err error) {
	if !M.Compare(utils.LessOrEqual, A.N) {
		err = wrapShape(A.N, M, "decrease "+A.Name)
		return
	}
	return A.Resize(M)
}

// Mean returns the real part of the cell average of the tensor
func (A *MatField) Mean() (T *mat.Dense) {
	nr, nc := A.Dims()
	T = mat.NewDense(nr, nc, nil)
	dc := A.N.Ravel(A.N.Center())
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			switch A.Mode {
			case Real:
				T.Set(i, j, real(cmplxs.Sum(A.Val[i][j]))/float64(A.N.Size()))
			case Fourier:
				T.Set(i, j, real(A.Val[i][j][dc]))
			}
		}
	}
	return
}

// At returns the real part of the tensor at grid point p
func (A *MatField) At(p int) (T *mat.Dense) {
	nr, nc := A.Dims()
	T = mat.NewDense(nr, nc, nil)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			T.Set(i, j, real(A.Val[i][j][p]))
		}
	}
	return
}

// DropImag zeroes the imaginary part of every entry, used after transforms
// of real data where only round-off is left there
func (A *MatField) DropImag() *MatField {
	for i := range A.Val {
		for j := range A.Val[i] {
			for p, z := range A.Val[i][j] {
				A.Val[i][j][p] = complex(real(z), 0)
			}
		}
	}
	return A
}
