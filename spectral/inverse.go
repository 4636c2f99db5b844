package spectral

import (
	"github.com/pkg/errors"
)

// Inv inverts the tensor at every grid point. 1x1, 2x2 and 3x3 tensors use
// the closed form adjugate; larger ones (3D elasticity) use Gauss-Jordan
// elimination carried out on the whole grid at once.
func (A *MatField) Inv() (B *MatField, err error) {
	nr, nc := A.Dims()
	if nr != nc {
		err = errors.Wrapf(ErrNotSquare, "%s is %dx%d", A.Name, nr, nc)
		return
	}
	B = NewMatField(A.Name+"_inv", nr, nc, A.N, A.Mode)
	a, b := A.Val, B.Val
	switch nr {
	case 1:
		for p := range a[0][0] {
			b[0][0][p] = 1 / a[0][0][p]
		}
	case 2:
		for p := range a[0][0] {
			det := a[0][0][p]*a[1][1][p] - a[0][1][p]*a[1][0][p]
			b[0][0][p] = a[1][1][p] / det
			b[0][1][p] = -a[0][1][p] / det
			b[1][0][p] = -a[1][0][p] / det
			b[1][1][p] = a[0][0][p] / det
		}
	case 3:
		for p := range a[0][0] {
			c00 := a[1][1][p]*a[2][2][p] - a[1][2][p]*a[2][1][p]
			c01 := a[1][2][p]*a[2][0][p] - a[1][0][p]*a[2][2][p]
			c02 := a[1][0][p]*a[2][1][p] - a[1][1][p]*a[2][0][p]
			det := a[0][0][p]*c00 + a[0][1][p]*c01 + a[0][2][p]*c02
			b[0][0][p] = c00 / det
			b[1][0][p] = c01 / det
			b[2][0][p] = c02 / det
			b[0][1][p] = (a[0][2][p]*a[2][1][p] - a[0][1][p]*a[2][2][p]) / det
			b[1][1][p] = (a[0][0][p]*a[2][2][p] - a[0][2][p]*a[2][0][p]) / det
			b[2][1][p] = (a[0][1][p]*a[2][0][p] - a[0][0][p]*a[2][1][p]) / det
			b[0][2][p] = (a[0][1][p]*a[1][2][p] - a[0][2][p]*a[1][1][p]) / det
			b[1][2][p] = (a[0][2][p]*a[1][0][p] - a[0][0][p]*a[1][2][p]) / det
			b[2][2][p] = (a[0][0][p]*a[1][1][p] - a[0][1][p]*a[1][0][p]) / det
		}
	default:
		gaussJordan(A.Copy().Val, b)
	}
	return
}

// gaussJordan reduces w to the identity without pivoting, applying the same
// row operations to inv, which ends up holding the inverse. w is overwritten.
func gaussJordan(w, inv [][][]complex128) {
	var (
		d = len(w)
		P = len(w[0][0])
	)
	for m := 0; m < d; m++ {
		for p := 0; p < P; p++ {
			inv[m][m][p] = 1
		}
	}
	// forward elimination, unit diagonal
	for m := 0; m < d; m++ {
		for p := 0; p < P; p++ {
			piv := w[m][m][p]
			for n := 0; n < d; n++ {
				w[m][n][p] /= piv
				inv[m][n][p] /= piv
			}
			for k := m + 1; k < d; k++ {
				f := w[k][m][p]
				for n := 0; n < d; n++ {
					w[k][n][p] -= w[m][n][p] * f
					inv[k][n][p] -= inv[m][n][p] * f
				}
			}
		}
	}
	// back substitution
	for m := d - 1; m >= 0; m-- {
		for k := m - 1; k >= 0; k-- {
			for p := 0; p < P; p++ {
				f := w[k][m][p]
				for n := 0; n < d; n++ {
					w[k][n][p] -= w[m][n][p] * f
					inv[k][n][p] -= inv[m][n][p] * f
				}
			}
		}
	}
}
