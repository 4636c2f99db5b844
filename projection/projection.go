// Package projection builds the Fourier kernels of the periodic Green
// operators used by the homogenization driver. G1 projects onto zero-mean
// compatible fields (gradients, symmetric gradients), G2 onto zero-mean
// equilibrated fields (divergence free). Both vanish on the zero frequency.
package projection

import (
	"math"

	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

// Scalar returns G1(xi) = xi (x) xi / |xi|^2 and G2 = I - G1, with xi_i = k_i/Y_i
func Scalar(N utils.Shape, Y []float64, nyquistNull bool) (G1, G2 *spectral.MatField) {
	dim := N.Dim()
	G1 = spectral.NewMatField("hG1", dim, dim, N, spectral.Fourier)
	G2 = spectral.NewMatField("hG2", dim, dim, N, spectral.Fourier)
	eachFrequency(N, Y, nyquistNull, func(p int, n []float64) {
		for i := 0; i < dim; i++ {
			for j := 0; j < dim; j++ {
				g := n[i] * n[j]
				G1.Val[i][j][p] = complex(g, 0)
				G2.Val[i][j][p] = complex(delta(i, j)-g, 0)
			}
		}
	})
	return
}

// Elasticity returns the strain compatibility projection G1 and its
// complement G2 acting on symmetric tensors stored as Mandel vectors, see
// VoigtPairs. G1 maps eps to n (x) (eps n) + (eps n) (x) n - (n.eps n) n (x) n.
func Elasticity(N utils.Shape, Y []float64, nyquistNull bool) (G1, G2 *spectral.MatField) {
	var (
		dim   = N.Dim()
		D     = VoigtSize(dim)
		pairs = VoigtPairs(dim)
		eps   = make([][]float64, dim)
		col   = make([]float64, D)
	)
	for i := range eps {
		eps[i] = make([]float64, dim)
	}
	G1 = spectral.NewMatField("hG1", D, D, N, spectral.Fourier)
	G2 = spectral.NewMatField("hG2", D, D, N, spectral.Fourier)
	eachFrequency(N, Y, nyquistNull, func(p int, n []float64) {
		for j := 0; j < D; j++ {
			unit := make([]float64, D)
			unit[j] = 1
			FromMandel(unit, pairs, eps)
			compatible(n, eps)
			ToMandel(eps, pairs, col)
			for i := 0; i < D; i++ {
				G1.Val[i][j][p] = complex(col[i], 0)
				G2.Val[i][j][p] = complex(delta(i, j)-col[i], 0)
			}
		}
	})
	return
}

// compatible overwrites eps with its projection onto {sym(n (x) a)}, |n| = 1
func compatible(n []float64, eps [][]float64) {
	var (
		dim = len(n)
		en  = make([]float64, dim)
		nen float64
	)
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			en[i] += eps[i][j] * n[j]
		}
		nen += n[i] * en[i]
	}
	for i := 0; i < dim; i++ {
		for j := 0; j < dim; j++ {
			eps[i][j] = n[i]*en[j] + en[i]*n[j] - nen*n[i]*n[j]
		}
	}
}

// eachFrequency calls f with the unit direction of every nonzero frequency.
// The zero frequency, and with nyquistNull the unpaired -N/2 frequency of
// even axes, are skipped and stay zero.
func eachFrequency(N utils.Shape, Y []float64, nyquistNull bool, f func(p int, n []float64)) {
	var (
		dim = N.Dim()
		sub = utils.NewIndex(dim)
		xi  = make([]float64, dim)
	)
	for p := 0; p < N.Size(); p++ {
		N.Unravel(p, sub)
		var (
			norm2 float64
			skip  bool
		)
		for d := 0; d < dim; d++ {
			if nyquistNull && N[d]%2 == 0 && sub[d] == 0 {
				skip = true
			}
			xi[d] = float64(sub[d]-N[d]/2) / Y[d]
			norm2 += xi[d] * xi[d]
		}
		if skip || norm2 == 0 {
			continue
		}
		norm := math.Sqrt(norm2)
		for d := range xi {
			xi[d] /= norm
		}
		f(p, xi)
	}
}

func delta(i, j int) float64 {
	if i == j {
		return 1
	}
	return 0
}
