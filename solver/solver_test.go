package solver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

// spd is a pointwise symmetric positive definite operator on a 4x4 grid
func spd() (A *spectral.MatField, b *spectral.VecField) {
	N := utils.NewShape(4, 4)
	A = spectral.NewMatFieldConst("A", mat.NewDense(2, 2, []float64{4, 1, 1, 3}), N, spectral.Real)
	for p := 0; p < N.Size(); p++ {
		s := complex(1+float64(p%3), 0)
		A.Val[0][0][p] *= s
		A.Val[0][1][p] *= s
		A.Val[1][0][p] *= s
		A.Val[1][1][p] *= s
	}
	b = spectral.NewVecField("b", 2, N, spectral.Real)
	for p := 0; p < N.Size(); p++ {
		b.Val[0][p] = complex(float64(p), 0)
		b.Val[1][p] = complex(1-float64(p)/2, 0)
	}
	return
}

func checkSolution(t *testing.T, A spectral.Operator, x, b *spectral.VecField, tol float64) {
	Ax, err := A.Apply(x)
	require.NoError(t, err)
	r, err := b.Sub(Ax)
	require.NoError(t, err)
	assert.InDelta(t, 0, r.Norm()/b.Norm(), tol)
}

func TestCG(t *testing.T) {
	A, b := spd()
	x0 := spectral.NewVecField("x0", 2, A.N, spectral.Real)
	var calls []int
	x, stats, err := Solve(A, b, x0, Config{Kind: CG, TolRel: 1.e-10}, func(it int, x *spectral.VecField) {
		calls = append(calls, it)
	})
	require.NoError(t, err)
	assert.True(t, stats.Converged)
	assert.Equal(t, stats.Iterations, len(calls))
	assert.Equal(t, CG, stats.Kind)
	// one product to start, then two per line search at most
	assert.LessOrEqual(t, stats.MatVecs, 2*stats.Iterations+1)
	checkSolution(t, A, x, b, 1.e-9)
	// pointwise 2x2 blocks with three distinct scalings, six eigenvalues
	assert.LessOrEqual(t, stats.Iterations, 8)
	// x0 is not modified
	assert.Equal(t, 0., x0.Norm())
}

func TestCGZeroRHS(t *testing.T) {
	A, b := spd()
	b = b.Scale(0)
	x0 := spectral.NewVecField("x0", 2, A.N, spectral.Real)
	x, stats, err := Solve(A, b, x0, Config{}, nil)
	require.NoError(t, err)
	assert.True(t, stats.Converged)
	assert.Equal(t, 0, stats.Iterations)
	assert.Equal(t, 0., x.Norm())
}

func TestRichardson(t *testing.T) {
	A, b := spd()
	x0 := spectral.NewVecField("x0", 2, A.N, spectral.Real)

	_, _, err := Solve(A, b, x0, Config{Kind: Richardson}, nil)
	assert.Error(t, err)

	// largest eigenvalue of the blocks is 3*(7+sqrt(5))/2 < 14
	x, stats, err := Solve(A, b, x0, Config{Kind: Richardson, Alpha: 14, TolRel: 1.e-8, MaxIter: 5000}, nil)
	require.NoError(t, err)
	assert.True(t, stats.Converged)
	checkSolution(t, A, x, b, 1.e-7)

	_, stats, err = Solve(A, b, x0, Config{Kind: Richardson, Alpha: 14, MaxIter: 3}, nil)
	require.NoError(t, err)
	assert.False(t, stats.Converged)
	assert.Equal(t, 3, stats.Iterations)
}

func TestBreakdown(t *testing.T) {
	A, b := spd()
	_, _, err := Solve(A.Scale(-1), b, spectral.NewVecField("x0", 2, A.N, spectral.Real), Config{}, nil)
	assert.ErrorIs(t, err, ErrBreakdown)
}

func TestComplexField(t *testing.T) {
	A, b := spd()
	for p := range b.Val[0] {
		b.Val[0][p] += complex(0, float64(p%5))
	}
	x0 := spectral.NewVecField("x0", 2, A.N, spectral.Real)
	x, stats, err := Solve(A, b, x0, Config{TolRel: 1.e-10}, nil)
	require.NoError(t, err)
	assert.True(t, stats.Converged)
	checkSolution(t, A, x, b, 1.e-9)
}

func TestShapeMismatch(t *testing.T) {
	A, b := spd()
	x0 := spectral.NewVecField("x0", 2, utils.NewShape(3, 3), spectral.Real)
	_, _, err := Solve(A, b, x0, Config{}, nil)
	assert.Error(t, err)
}

func TestNewKind(t *testing.T) {
	k, err := NewKind("CG")
	require.NoError(t, err)
	assert.Equal(t, CG, k)
	k, err = NewKind("richardson")
	require.NoError(t, err)
	assert.Equal(t, Richardson, k)
	assert.Equal(t, "Richardson", k.String())
	_, err = NewKind("gmres")
	assert.Error(t, err)
}
