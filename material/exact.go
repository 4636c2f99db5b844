package material

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

// Ga returns the coefficients for the scheme with exact integration on the
// grid Nbar. With OrderNone the inclusions are integrated through their
// Fourier shape functions; otherwise the coefficients are sampled on the
// grid P, interpolated with the given order and integrated exactly.
// A zero order or empty P falls back to the defaults of the configuration.
func (m *Material) Ga(Nbar utils.Shape, variant Variant, order Order, P utils.Shape) (A *spectral.MatField, err error) {
	if err = m.checkGrid(Nbar); err != nil {
		return
	}
	if order == OrderNone {
		order = m.Conf.Order
	}
	if len(P) == 0 && len(m.Conf.P) != 0 {
		P = utils.NewShape(m.Conf.P...)
	}
	log := m.log.WithFields(logrus.Fields{"Nbar": Nbar, "order": order, "primaldual": variant})
	if order == OrderNone {
		if m.Conf.Fun != nil {
			err = ErrNeedsOrder
			return
		}
		log.Debug("exact integration of inclusion shape functions")
		return m.gaShapes(Nbar, variant)
	}
	if len(P) == 0 {
		P = Nbar.Copy()
	}
	if err = m.checkGrid(P); err != nil {
		return
	}
	log.WithField("P", P).Debug("exact integration of interpolated coefficients")
	return m.gaInterpolated(Nbar, variant, order, P)
}

func (m *Material) gaShapes(Nbar utils.Shape, variant Variant) (A *spectral.MatField, err error) {
	var chars [][]float64
	if chars, err = m.ShapeFunctions(Nbar); err != nil {
		return
	}
	nr, nc := m.TensorDims()
	A = spectral.NewMatField("A_Ga", nr, nc, Nbar, spectral.Real)
	for ii, incl := range m.Conf.Inclusions {
		var T mat.Matrix = incl.Val
		if variant == Dual {
			var inv mat.Dense
			if err = inv.Inverse(incl.Val); err != nil {
				err = errors.Wrapf(err, "inverting coefficients of inclusion %d", ii)
				return
			}
			T = &inv
		}
		addScaled(A, T, chars[ii])
	}
	return
}

func (m *Material) gaInterpolated(Nbar utils.Shape, variant Variant, order Order, P utils.Shape) (A *spectral.MatField, err error) {
	var vals *spectral.MatField
	if vals, err = m.Evaluate(P); err != nil {
		return
	}
	if variant == Dual {
		if vals, err = vals.Inv(); err != nil {
			return
		}
	}
	var (
		h    = make([]float64, m.Dim())
		W    []float64
		FP   = spectral.NewDFT("FP", P, false)
		FiN  = spectral.NewDFT("FiNbar", Nbar, true)
		reps = make(utils.Shape, m.Dim())
		pP   = float64(P.Size())
	)
	for d := range h {
		h[d] = m.Y[d] / float64(P[d])
	}
	switch order {
	case OrderConstant:
		W = WeightsConstant(h, Nbar, m.Y)
	case OrderBilinear:
		W = WeightsBilinear(h, Nbar, m.Y)
	default:
		err = errors.Errorf("unknown interpolation order %d", order)
		return
	}
	// the coefficients of a grid function are P-periodic in frequency, so a
	// target grid finer than P sees 2*ceil(Nbar/P)-1 copies before truncation
	factor := utils.CeilDiv(Nbar, P)
	for d := range reps {
		reps[d] = 2*factor[d] - 1
	}
	nr, nc := vals.Dims()
	A = spectral.NewMatField("A_Ga_"+order.String(), nr, nc, Nbar, spectral.Real)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			hAM0 := FP.Transform(vals.Val[i][j])
			tiled, T := spectral.Tile(hAM0, P, reps)
			var hAM []complex128
			if hAM, err = spectral.Decrease(tiled, T, Nbar); err != nil {
				return
			}
			for k := range hAM {
				hAM[k] *= complex(W[k]*pP, 0)
			}
			A.Val[i][j] = FiN.Transform(hAM)
		}
	}
	A.DropImag()
	return
}

// ShapeFunctions returns the characteristic function of every inclusion on
// grid N, obtained from its exact Fourier coefficients on that grid
func (m *Material) ShapeFunctions(N utils.Shape) (chars [][]float64, err error) {
	var (
		Fi       = spectral.NewDFT("FiN", N, true)
		P        = N.Size()
		coverage = make([]float64, P)
		fraction float64
		other    = -1
	)
	chars = make([][]float64, len(m.Conf.Inclusions))
	for ii, incl := range m.Conf.Inclusions {
		var W []float64
		switch incl.Kind {
		case Cube:
			W = WeightsConstant(incl.Params, N, m.Y)
		case Ball:
			W = WeightsBall(incl.Params[0]/2, N, m.Y)
		case All:
			chars[ii] = utils.ConstArray(P, 1)
			continue
		case Otherwise:
			other = ii
			continue
		default:
			err = errors.Wrapf(ErrUnsupportedInclusion, "inclusion %d is %s", ii, incl.Kind)
			return
		}
		SS := ShiftInclusion(N, incl.Position, m.Y)
		for k := range SS {
			SS[k] *= complex(W[k], 0)
		}
		fraction += W[N.Ravel(N.Center())] * m.Measure()
		chi := Fi.Transform(SS)
		chars[ii] = make([]float64, P)
		for p, z := range chi {
			chars[ii][p] = real(z)
		}
		floats.Add(coverage, chars[ii])
	}
	if other >= 0 {
		// shape functions oscillate, only the covered volume tells an overlap
		if fraction > 1+utils.NODETOL {
			err = errors.Wrapf(ErrOverlap, "inclusions cover %g of the cell", fraction)
			return
		}
		chars[other] = utils.ConstArray(P, 1)
		floats.Sub(chars[other], coverage)
	}
	return
}

// ShiftInclusion is the Fourier factor exp(-2 pi i xi.h / Y) moving a shape
// centered at the origin to position h
func ShiftInclusion(N utils.Shape, h, Y []float64) (SS []complex128) {
	var (
		dim = N.Dim()
		sub = utils.NewIndex(dim)
	)
	SS = make([]complex128, N.Size())
	for p := range SS {
		N.Unravel(p, sub)
		var phase float64
		for d := 0; d < dim; d++ {
			phase += h[d] * float64(sub[d]-N[d]/2) / Y[d]
		}
		SS[p] = cmplx.Exp(complex(0, -2*math.Pi*phase))
	}
	return
}

// WeightsConstant returns the Fourier coefficients of the characteristic
// function of a centered box with sides h, prod_i h_i sinc(h_i xi_i / Y_i) / |Y|
func WeightsConstant(h []float64, Nbar utils.Shape, Y []float64) []float64 {
	return boxWeights(h, Nbar, Y, 1)
}

// WeightsBilinear are the coefficients of the tensor product hat function of
// half width h, prod_i h_i sinc^2(h_i xi_i / Y_i) / |Y|
func WeightsBilinear(h []float64, Nbar utils.Shape, Y []float64) []float64 {
	return boxWeights(h, Nbar, Y, 2)
}

func boxWeights(h []float64, Nbar utils.Shape, Y []float64, power int) (W []float64) {
	var (
		dim     = Nbar.Dim()
		sub     = utils.NewIndex(dim)
		measPUC = floats.Prod(Y)
	)
	W = make([]float64, Nbar.Size())
	for p := range W {
		Nbar.Unravel(p, sub)
		w := 1. / measPUC
		for d := 0; d < dim; d++ {
			xi := float64(sub[d] - Nbar[d]/2)
			w *= h[d] * utils.POW(utils.Sinc(h[d]*xi/Y[d]), power)
		}
		W[p] = w
	}
	return
}

// WeightsBall returns the Fourier coefficients of the characteristic function
// of a centered disk (2D) or ball (3D) of radius r. The disk uses the radial
// kernel r J1(2 pi r rho)/rho, the ball its spherical counterpart; the zero
// frequency holds the volume. A zero radius gives zero weights.
func WeightsBall(r float64, Nbar utils.Shape, Y []float64) (W []float64) {
	var (
		dim     = Nbar.Dim()
		sub     = utils.NewIndex(dim)
		measPUC = floats.Prod(Y)
	)
	W = make([]float64, Nbar.Size())
	if r == 0 {
		return
	}
	for p := range W {
		Nbar.Unravel(p, sub)
		var rho2 float64
		for d := 0; d < dim; d++ {
			xi := float64(sub[d]-Nbar[d]/2) / Y[d]
			rho2 += xi * xi
		}
		rho := math.Sqrt(rho2)
		switch {
		case rho == 0 && dim == 2:
			W[p] = math.Pi * r * r
		case rho == 0:
			W[p] = 4. / 3. * math.Pi * r * r * r
		case dim == 2:
			W[p] = r * math.J1(2*math.Pi*rho*r) / rho
		default:
			z := 2 * math.Pi * rho * r
			W[p] = (math.Sin(z) - z*math.Cos(z)) / (2 * math.Pi * math.Pi * rho * rho * rho)
		}
		W[p] /= measPUC
	}
	return
}
