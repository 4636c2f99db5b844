package utils

import (
	"math"
)

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

func POW(x float64, pp int) (y float64) {
	var (
		p       = pp
		flipped bool
	)
	if pp > 8 || pp < -8 {
		goto MATHPOW
	}

	if p < 0 {
		p = -pp
		flipped = true
	}
	switch p {
	case 0:
		y = 1
	case 1:
		y = x
	case 2:
		y = x * x
	case 3:
		y = x * x * x
	case 4:
		y = x * x
		y = y * y
	}
	if p > 4 {
		goto MATHPOW
	}
	if flipped {
		y = 1. / y
	}
	return

MATHPOW:
	y = math.Pow(x, float64(pp))
	return
}

// Sinc is the normalized sinc, sin(pi x)/(pi x)
func Sinc(x float64) float64 {
	if math.Abs(x) < NODETOL {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}
