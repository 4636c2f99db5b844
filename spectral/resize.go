package spectral

import (
	"fmt"

	"github.com/notargets/gohomog/utils"
)

// window is the first index of a centered block of length small inside an
// axis of length big. The small%2 term decides the odd/even tie-break so that
// both zero frequencies land on the same coefficient.
func window(big, small int) int {
	return (big - small + small%2) / 2
}

// Resize copies the centered overlap of x (grid N) into a new array on grid M.
// Axes that grow are padded with zeros, axes that shrink are truncated
// symmetrically around the zero frequency.
func Resize(x []complex128, N, M utils.Shape) (y []complex128) {
	if len(x) != N.Size() || N.Dim() != M.Dim() {
		panic(fmt.Errorf("resize: array of length %d does not match grid %v -> %v", len(x), N, M))
	}
	y = make([]complex128, M.Size())
	if N.Equal(M) {
		copy(y, x)
		return
	}
	var (
		dim             = N.Dim()
		L               = make(utils.Shape, dim)
		srcBeg, dstBeg  = utils.NewIndex(dim), utils.NewIndex(dim)
		sub, srcS, dstS = utils.NewIndex(dim), utils.NewIndex(dim), utils.NewIndex(dim)
	)
	for i := 0; i < dim; i++ {
		switch {
		case M[i] >= N[i]:
			L[i] = N[i]
			dstBeg[i] = window(M[i], N[i])
		default:
			L[i] = M[i]
			srcBeg[i] = window(N[i], M[i])
		}
	}
	for ind := 0; ind < L.Size(); ind++ {
		L.Unravel(ind, sub)
		for i := 0; i < dim; i++ {
			srcS[i] = sub[i] + srcBeg[i]
			dstS[i] = sub[i] + dstBeg[i]
		}
		y[M.Ravel(dstS)] = x[N.Ravel(srcS)]
	}
	return
}

// Enlarge zero pads the Fourier coefficients x of grid N to the larger grid M
func Enlarge(x []complex128, N, M utils.Shape) (y []complex128, err error) {
	if !M.Compare(utils.GreaterOrEqual, N) {
		err = wrapShape(N, M, "enlarge requires a larger grid")
		return
	}
	y = Resize(x, N, M)
	return
}

// Decrease drops the highest frequencies of x (grid N) to fit the smaller grid M
func Decrease(x []complex128, N, M utils.Shape) (y []complex128, err error) {
	if !M.Compare(utils.LessOrEqual, N) {
		err = wrapShape(N, M, "decrease requires a smaller grid")
		return
	}
	y = Resize(x, N, M)
	return
}

// Tile replicates x (grid N) reps[i] times along every axis i
func Tile(x []complex128, N, reps utils.Shape) (y []complex128, T utils.Shape) {
	var (
		dim      = N.Dim()
		sub, src = utils.NewIndex(dim), utils.NewIndex(dim)
	)
	T = make(utils.Shape, dim)
	for i := range T {
		T[i] = N[i] * reps[i]
	}
	y = make([]complex128, T.Size())
	for ind := range y {
		T.Unravel(ind, sub)
		for i := range sub {
			src[i] = sub[i] % N[i]
		}
		y[ind] = x[N.Ravel(src)]
	}
	return
}
