package InputParameters

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gohomog/homogenize"
	"github.com/notargets/gohomog/material"
	"github.com/notargets/gohomog/solver"
)

var checkerboard = []byte(`
Title: checkerboard
Kind: scalar
Y: [1., 1.]
Material:
  Inclusions: [square, square, otherwise]
  Positions: [[0.25, 0.25], [0.75, 0.75], []]
  Params: [[0.5, 0.5], [0.5, 0.5], []]
  Vals:
    - [[10., 0.], [0., 10.]]
    - [[10., 0.], [0., 10.]]
    - [[1., 0.], [0., 1.]]
Solve:
  Kind: GaNi
  N: [8, 8]
  PrimalDual: [primal, dual]
Solver:
  Kind: CG
  TolRel: 1.e-10
  MaxIter: 500
Postprocess:
  - Kind: GaNi
  - Kind: Ga
    Order: bilinear
    P: [9, 9]
NyquistNull: false
`)

func TestParse(t *testing.T) {
	var ip Problem
	require.NoError(t, ip.Parse(checkerboard))
	assert.Equal(t, "checkerboard", ip.Title)
	assert.Equal(t, []int{8, 8}, ip.Solve.N)
	require.Len(t, ip.Material.Vals, 3)
	assert.Equal(t, 10., ip.Material.Vals[1][1][1])

	var buf bytes.Buffer
	ip.Print(&buf)
	assert.Contains(t, buf.String(), "checkerboard")

	pb, err := ip.ToProblem()
	require.NoError(t, err)
	assert.Equal(t, homogenize.Scalar, pb.Kind)
	assert.Equal(t, homogenize.Collocation, pb.Solve.Discretization)
	assert.Equal(t, []material.Variant{material.Primal, material.Dual}, pb.Solve.PrimalDual)
	assert.Equal(t, solver.CG, pb.Solver.Kind)
	assert.False(t, pb.NyquistNull)
	require.Len(t, pb.Material.Inclusions, 3)
	assert.Equal(t, material.Otherwise, pb.Material.Inclusions[2].Kind)
	require.Len(t, pb.Postprocess, 2)
	assert.Equal(t, homogenize.ExactIntegration, pb.Postprocess[1].Discretization)
	assert.Equal(t, material.OrderBilinear, pb.Postprocess[1].Order)

	out, err := homogenize.Homogenize(pb, nil)
	require.NoError(t, err)
	primal, ok := out.Matrix("AH_GaNi_primal")
	require.True(t, ok)
	dual, ok := out.Matrix("AH_GaNi_dual")
	require.True(t, ok)
	assert.InDelta(t, primal.At(0, 0), dual.At(0, 0), 1.e-6)
	_, ok = out.Matrix("AH_Ga_o1_n9_primal")
	assert.True(t, ok)
}

func TestDefaults(t *testing.T) {
	var ip Problem
	require.NoError(t, ip.Parse([]byte(`
Y: [1, 1]
Material:
  Inclusions: [all]
  Vals: [[[2, 0], [0, 2]]]
Solve:
  Kind: Ga
  N: [5, 5]
`)))
	pb, err := ip.ToProblem()
	require.NoError(t, err)
	assert.True(t, pb.NyquistNull)
	assert.Equal(t, "scalar", pb.Name)
	assert.Equal(t, homogenize.Basic, pb.Callback)
	require.Len(t, pb.Postprocess, 1)
	assert.Equal(t, homogenize.ExactIntegration, pb.Postprocess[0].Discretization)
}

func TestErrors(t *testing.T) {
	var ip Problem
	require.NoError(t, ip.Parse(checkerboard))
	ip.Material.Positions = ip.Material.Positions[:2]
	_, err := ip.ToProblem()
	assert.True(t, errors.Is(err, material.ErrInconsistentList))

	ip = Problem{}
	require.NoError(t, ip.Parse(checkerboard))
	ip.Material.Inclusions[0] = "hexagon"
	_, err = ip.ToProblem()
	assert.True(t, errors.Is(err, material.ErrUnsupportedInclusion))

	ip = Problem{}
	require.NoError(t, ip.Parse(checkerboard))
	ip.Solver.Callback = "verbose"
	_, err = ip.ToProblem()
	assert.True(t, errors.Is(err, homogenize.ErrUnsupportedCallback))

	ip = Problem{}
	require.NoError(t, ip.Parse(checkerboard))
	ip.Material.Vals[2] = [][]float64{{1, 0}}
	_, err = ip.ToProblem()
	assert.True(t, errors.Is(err, material.ErrInconsistentList))
}
