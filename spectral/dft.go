package spectral

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/notargets/gohomog/utils"
)

// DFT is the centered discrete Fourier transform on grid N. The forward
// transform returns normalized coefficients
//
//	xh[k] = 1/P sum_n x[n] exp(-2 pi i k.n/N)
//
// and the inverse sums them back without scaling, so Inverse(Forward(x)) = x.
type DFT struct {
	Name    string
	Inverse bool
	N       utils.Shape
	ffts    []*fourier.CmplxFFT
	perm    []utils.Index // centered index -> standard FFT index, per axis
}

func NewDFT(name string, N utils.Shape, inverse bool) (F *DFT) {
	F = &DFT{
		Name:    name,
		Inverse: inverse,
		N:       N.Copy(),
		ffts:    make([]*fourier.CmplxFFT, N.Dim()),
		perm:    make([]utils.Index, N.Dim()),
	}
	for d, n := range N {
		F.ffts[d] = fourier.NewCmplxFFT(n)
		F.perm[d] = utils.NewIndex(n)
		for c := 0; c < n; c++ {
			F.perm[d][c] = (c - n/2 + n) % n
		}
	}
	return
}

// in and out representation of the transform
func (F *DFT) modes() (in, out Mode) {
	if F.Inverse {
		return Fourier, Real
	}
	return Real, Fourier
}

func (F *DFT) check(N utils.Shape, mode Mode) (err error) {
	in, _ := F.modes()
	if !N.Equal(F.N) {
		return wrapShape(N, F.N, "DFT "+F.Name)
	}
	if mode != in {
		return errors.Wrapf(ErrModeMismatch, "DFT %s expects a %s field, got %s", F.Name, in, mode)
	}
	return
}

func (F *DFT) Apply(x *VecField) (y *VecField, err error) {
	if err = F.check(x.N, x.Mode); err != nil {
		return
	}
	_, out := F.modes()
	y = &VecField{Name: x.Name, N: x.N.Copy(), Mode: out, Val: make([][]complex128, x.D())}
	for c := range x.Val {
		y.Val[c] = F.Transform(x.Val[c])
	}
	return
}

func (F *DFT) ApplyMat(A *MatField) (B *MatField, err error) {
	if err = F.check(A.N, A.Mode); err != nil {
		return
	}
	_, out := F.modes()
	nr, nc := A.Dims()
	B = NewMatField(A.Name, nr, nc, A.N, out)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			B.Val[i][j] = F.Transform(A.Val[i][j])
		}
	}
	return
}

// Transform applies the transform to a single centered array of length prod(N)
func (F *DFT) Transform(x []complex128) (y []complex128) {
	var (
		N    = F.N
		P    = N.Size()
		dim  = N.Dim()
		work = make([]complex128, P)
		sub  = utils.NewIndex(dim)
		ssub = utils.NewIndex(dim)
	)
	if len(x) != P {
		panic(wrapShape(utils.NewShape(len(x)), utils.NewShape(P), "DFT "+F.Name))
	}
	for ind := 0; ind < P; ind++ {
		N.Unravel(ind, sub)
		for d := range sub {
			ssub[d] = F.perm[d][sub[d]]
		}
		work[N.Ravel(ssub)] = x[ind]
	}
	strides := N.Strides()
	for d := 0; d < dim; d++ {
		F.lines(work, d, strides[d])
	}
	y = make([]complex128, P)
	for ind := 0; ind < P; ind++ {
		N.Unravel(ind, sub)
		for d := range sub {
			ssub[d] = F.perm[d][sub[d]]
		}
		y[ind] = work[N.Ravel(ssub)]
	}
	if !F.Inverse {
		scale := complex(1./float64(P), 0)
		for i := range y {
			y[i] *= scale
		}
	}
	return
}

// lines transforms every line of work along axis d in place
func (F *DFT) lines(work []complex128, d, stride int) {
	var (
		n    = F.N[d]
		fft  = F.ffts[d]
		line = make([]complex128, n)
		res  = make([]complex128, n)
		P    = len(work)
	)
	if n == 1 {
		return
	}
	for start := 0; start < P; start++ {
		// start must be the first point of a line along d
		if (start/stride)%n != 0 {
			continue
		}
		for i := 0; i < n; i++ {
			line[i] = work[start+i*stride]
		}
		if F.Inverse {
			fft.Sequence(res, line)
		} else {
			fft.Coefficients(res, line)
		}
		for i := 0; i < n; i++ {
			work[start+i*stride] = res[i]
		}
	}
}
