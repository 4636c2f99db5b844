package material

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/utils"
)

func iso(dim int, k float64) (A *mat.Dense) {
	A = mat.NewDense(dim, dim, nil)
	for i := 0; i < dim; i++ {
		A.Set(i, i, k)
	}
	return
}

func squareConfig(side, pos float64) Config {
	return Config{
		Y: []float64{1, 1},
		Inclusions: []Inclusion{
			{Kind: Cube, Params: []float64{side, side}, Position: []float64{pos, pos}, Val: iso(2, 10)},
			{Kind: Otherwise, Val: iso(2, 1)},
		},
	}
}

func TestValidation(t *testing.T) {
	var err error
	_, err = New(Config{Inclusions: squareConfig(0.5, 0).Inclusions}, nil)
	assert.True(t, errors.Is(err, ErrMissingCell))

	_, err = New(Config{Y: []float64{1, 1}}, nil)
	assert.True(t, errors.Is(err, ErrNoMaterial))

	conf := squareConfig(0.5, 0)
	conf.Inclusions[1].Val = iso(3, 1)
	_, err = New(conf, nil)
	assert.True(t, errors.Is(err, ErrInconsistentList))

	conf = squareConfig(0.5, 0)
	conf.Inclusions[0].Position = []float64{0}
	_, err = New(conf, nil)
	assert.True(t, errors.Is(err, ErrInconsistentList))

	conf = squareConfig(1.5, 0)
	_, err = New(conf, nil)
	assert.True(t, errors.Is(err, ErrOutOfCell))

	conf = squareConfig(0.5, 0)
	conf.Inclusions[0].Kind = Kind(9)
	_, err = New(conf, nil)
	assert.True(t, errors.Is(err, ErrUnsupportedInclusion))

	conf = squareConfig(0.5, 0)
	conf.Inclusions = append(conf.Inclusions, Inclusion{Kind: All, Val: iso(2, 1)})
	_, err = New(conf, nil)
	assert.True(t, errors.Is(err, ErrInconsistentList))

	_, err = NewKind("hexagon")
	assert.True(t, errors.Is(err, ErrUnsupportedInclusion))
	k, err := NewKind("Circle")
	require.NoError(t, err)
	assert.Equal(t, Ball, k)

	// positions are wrapped into the cell, the caller's slice is untouched
	conf = squareConfig(0.5, -0.25)
	m, err := New(conf, nil)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.75, 0.75}, m.Conf.Inclusions[0].Position)
	assert.Equal(t, []float64{-0.25, -0.25}, conf.Inclusions[0].Position)
}

func TestGaNiSquare(t *testing.T) {
	N := utils.NewShape(8, 8)
	for _, pos := range []float64{0, 0.5, 0.9} {
		// a square crossing the cell boundary keeps its area
		m, err := New(squareConfig(0.5, pos), nil)
		require.NoError(t, err)
		A, err := m.GaNi(N, Primal)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(iso(2, 0.25*10+0.75), A.Mean(), 1.e-12), "pos = %v", pos)
		var n10 int
		for p := 0; p < N.Size(); p++ {
			switch v := real(A.Val[0][0][p]); v {
			case 10:
				n10++
			case 1:
			default:
				t.Errorf("unexpected coefficient %v", v)
			}
		}
		assert.Equal(t, 16, n10)

		Ad, err := m.GaNi(N, Dual)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(iso(2, 0.25*0.1+0.75), Ad.Mean(), 1.e-12))
	}
}

func TestGaNiBall(t *testing.T) {
	m, err := New(Config{
		Y: []float64{1, 1},
		Inclusions: []Inclusion{
			{Kind: Ball, Params: []float64{0.6}, Position: []float64{0, 0}, Val: iso(2, 5)},
			{Kind: All, Val: iso(2, 1)},
		},
	}, nil)
	require.NoError(t, err)
	N := utils.NewShape(5, 5)
	A, err := m.GaNi(N, Primal)
	require.NoError(t, err)
	// points within 0.3 of the origin: the 3x3 block around it, |x| <= 0.2*sqrt(2)
	assert.InDelta(t, 1+5*9./25., A.Mean().At(0, 0), 1.e-12)
	assert.Equal(t, complex(6, 0), A.Val[0][0][N.Ravel(N.Center())])
}

func TestOverlap(t *testing.T) {
	conf := squareConfig(0.5, 0)
	conf.Inclusions = append([]Inclusion{
		{Kind: Cube, Params: []float64{0.5, 0.5}, Position: []float64{0.1, 0.1}, Val: iso(2, 2)},
	}, conf.Inclusions...)
	m, err := New(conf, nil)
	require.NoError(t, err)
	_, err = m.GaNi(utils.NewShape(8, 8), Primal)
	assert.True(t, errors.Is(err, ErrOverlap))
	// shape functions only see the covered volume, here 0.5 of the cell
	_, err = m.Ga(utils.NewShape(15, 15), Primal, OrderNone, nil)
	assert.NoError(t, err)

	conf = squareConfig(0.8, 0)
	conf.Inclusions = append([]Inclusion{
		{Kind: Cube, Params: []float64{0.8, 0.8}, Position: []float64{0.5, 0.5}, Val: iso(2, 2)},
	}, conf.Inclusions...)
	m, err = New(conf, nil)
	require.NoError(t, err)
	_, err = m.Ga(utils.NewShape(15, 15), Primal, OrderNone, nil)
	assert.True(t, errors.Is(err, ErrOverlap))
}

func TestGaFullCoverage(t *testing.T) {
	Y := []float64{1, 2}
	T := mat.NewDense(2, 2, []float64{3, 1, 1, 2})
	m, err := New(Config{
		Y:          Y,
		Inclusions: []Inclusion{{Kind: Cube, Params: Y, Position: []float64{0.3, 0.7}, Val: T}},
	}, nil)
	require.NoError(t, err)
	Nbar := utils.NewShape(9, 9)
	A, err := m.Ga(Nbar, Primal, OrderNone, nil)
	require.NoError(t, err)
	assert.True(t, mat.EqualApprox(T, A.Mean(), 1.e-12))
	for p := 0; p < Nbar.Size(); p++ {
		assert.True(t, mat.EqualApprox(T, A.At(p), 1.e-12))
	}
}

func TestWeights(t *testing.T) {
	Nbar := utils.NewShape(7, 9)
	Y := []float64{1, 1}
	W := WeightsBall(0, Nbar, Y)
	for _, w := range W {
		assert.Equal(t, 0., w)
	}
	r := 0.2
	W = WeightsBall(r, Nbar, Y)
	dc := Nbar.Ravel(Nbar.Center())
	assert.InDelta(t, math.Pi*r*r, W[dc], 1.e-15)
	// the radial kernel is continuous at the zero frequency
	eps := 1.e-6
	assert.InDelta(t, math.Pi*r*r, r*math.J1(2*math.Pi*eps*r)/eps, 1.e-9)

	Wc := WeightsConstant([]float64{0.5, 0.25}, Nbar, Y)
	assert.InDelta(t, 0.125, Wc[dc], 1.e-15)
	Wl := WeightsBilinear([]float64{0.5, 0.25}, Nbar, Y)
	assert.InDelta(t, 0.125, Wl[dc], 1.e-15)
	// frequency (1, 0): 0.125 * sinc(0.5)^p
	p := Nbar.Ravel(utils.Index{Nbar[0]/2 + 1, Nbar[1] / 2})
	assert.InDelta(t, 0.125*2/math.Pi, Wc[p], 1.e-15)
	assert.InDelta(t, 0.125*4/(math.Pi*math.Pi), Wl[p], 1.e-15)

	W3 := WeightsBall(r, utils.NewShape(3, 3, 3), []float64{1, 1, 1})
	assert.InDelta(t, 4./3.*math.Pi*r*r*r, W3[13], 1.e-15)
}

func TestShapeFunctions(t *testing.T) {
	d := 0.5
	m, err := New(Config{
		Y: []float64{1, 1},
		Inclusions: []Inclusion{
			{Kind: Ball, Params: []float64{d}, Position: []float64{0.5, 0.5}, Val: iso(2, 10)},
			{Kind: Ball, Params: []float64{0}, Position: []float64{0, 0}, Val: iso(2, 7)},
			{Kind: Otherwise, Val: iso(2, 1)},
		},
	}, nil)
	require.NoError(t, err)
	N := utils.NewShape(9, 9)
	chars, err := m.ShapeFunctions(N)
	require.NoError(t, err)
	mean := func(v []float64) (s float64) {
		for _, x := range v {
			s += x
		}
		return s / float64(len(v))
	}
	frac := math.Pi * d * d / 4
	assert.InDelta(t, frac, mean(chars[0]), 1.e-12)
	for _, c := range chars[1] {
		assert.Equal(t, 0., c)
	}
	assert.InDelta(t, 1-frac, mean(chars[2]), 1.e-12)

	A, err := m.Ga(N, Primal, OrderNone, nil)
	require.NoError(t, err)
	assert.InDelta(t, 10*frac+1-frac, A.Mean().At(0, 0), 1.e-12)
	assert.InDelta(t, 0, A.Mean().At(0, 1), 1.e-12)
	Ad, err := m.Ga(N, Dual, OrderNone, nil)
	require.NoError(t, err)
	assert.InDelta(t, 0.1*frac+1-frac, Ad.Mean().At(0, 0), 1.e-12)
}

func TestGaInterpolated(t *testing.T) {
	Y := []float64{1, 1}
	T := mat.NewDense(2, 2, []float64{2, 0.5, 0.5, 1})
	constant, err := New(Config{Y: Y, Fun: func(x []float64) *mat.Dense { return T }}, nil)
	require.NoError(t, err)
	_, err = constant.Ga(utils.NewShape(5, 5), Primal, OrderNone, nil)
	assert.True(t, errors.Is(err, ErrNeedsOrder))

	Nbar := utils.NewShape(9, 9)
	for _, P := range []utils.Shape{{4, 4}, {9, 9}, {12, 16}, {5, 11}} {
		for _, order := range []Order{OrderConstant, OrderBilinear} {
			A, err := constant.Ga(Nbar, Primal, order, P)
			require.NoError(t, err)
			for p := 0; p < Nbar.Size(); p++ {
				assert.True(t, mat.EqualApprox(T, A.At(p), 1.e-12), "P = %v, order = %v", P, order)
			}
		}
	}
	// the cell average of the interpolant is the grid average of the samples
	smooth, err := New(Config{Y: Y, Fun: func(x []float64) *mat.Dense {
		return iso(2, 2+math.Cos(2*math.Pi*x[0])*math.Sin(2*math.Pi*x[1])+math.Cos(4*math.Pi*x[1]))
	}}, nil)
	require.NoError(t, err)
	P := utils.NewShape(6, 6)
	vals, err := smooth.Evaluate(P)
	require.NoError(t, err)
	A, err := smooth.Ga(Nbar, Primal, OrderBilinear, P)
	require.NoError(t, err)
	assert.InDelta(t, vals.Mean().At(0, 0), A.Mean().At(0, 0), 1.e-12)
	assert.InDelta(t, 0, A.Mean().At(1, 0), 1.e-12)
}
