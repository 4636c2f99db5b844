package homogenize

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

// AssemblyMatrix returns AH[i][j] = (A x_i).x_j. Solutions living on another
// grid than A are resized first.
func AssemblyMatrix(A *spectral.MatField, solutions []*spectral.VecField) (AH *mat.Dense, err error) {
	var (
		dim = len(solutions)
		sol = make([]*spectral.VecField, dim)
	)
	if dim == 0 {
		err = errors.New("no solutions to assemble")
		return
	}
	for ii, x := range solutions {
		sol[ii] = x
		if !x.N.Equal(A.N) {
			if sol[ii], err = x.Resize(A.N); err != nil {
				return
			}
		}
	}
	AH = mat.NewDense(dim, dim, nil)
	for ii := 0; ii < dim; ii++ {
		var Ax *spectral.VecField
		if Ax, err = A.Apply(sol[ii]); err != nil {
			return
		}
		for jj := 0; jj < dim; jj++ {
			var v float64
			if v, err = Ax.Dot(sol[jj]); err != nil {
				return
			}
			AH.Set(ii, jj, v)
		}
	}
	return
}

// AddMacro returns the full field X + E when the solver returned the zero
// mean fluctuation, or X itself when its mean already is the load E
func AddMacro(X *spectral.VecField, E []float64) (Y *spectral.VecField, err error) {
	mean := X.Mean()
	switch {
	case utils.AllClose(mean, E):
		Y = X
	case utils.AllClose(mean, make([]float64, len(E))):
		Y, err = X.Add(spectral.NewMacroField("EN", E, X.N, X.Mode))
	default:
		err = errors.Wrapf(ErrInconsistentMean, "mean %v, load %v", mean, E)
	}
	return
}
