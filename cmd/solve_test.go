package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSolve(t *testing.T) {
	dir := t.TempDir()
	fileInput := []byte(`
Title: Test Case
Kind: elasticity
Y: [1., 1.]
Material:
  Inclusions: [circle, otherwise]
  Positions: [[0.5, 0.5], []]
  Params: [[0.4], []]
  Vals:
    - [[12., 2., 0.], [2., 12., 0.], [0., 0., 10.]]
    - [[3., 1., 0.], [1., 3., 0.], [0., 0., 2.]]
Solve:
  Kind: GaNi
  N: [9, 9]
  PrimalDual: [primal, dual]
Solver:
  Kind: CG
  TolRel: 1.e-8
  MaxIter: 500
`)
	input := filepath.Join(dir, "problem.yaml")
	require.NoError(t, os.WriteFile(input, fileInput, 0644))
	opts := &SolveOptions{ICFile: input, OutFile: filepath.Join(dir, "out.yaml")}

	var buf bytes.Buffer
	out, err := RunSolve(opts, newLogger(false), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "AH_GaNi_primal =")
	assert.Contains(t, buf.String(), "AH_GaNi_dual =")

	data, err := os.ReadFile(opts.OutFile)
	require.NoError(t, err)
	var report Report
	require.NoError(t, yaml.Unmarshal(data, &report))
	assert.Equal(t, "Test Case", report.Problem)
	require.Len(t, report.Variants, 2)
	primal := report.Variants[0].Matrices["AH_GaNi_primal"]
	require.Len(t, primal, 3)
	AH, _ := out.Matrix("AH_GaNi_primal")
	assert.InDelta(t, AH.At(0, 0), primal[0][0], 1.e-12)
	require.Len(t, report.Variants[0].Results, 3)
	assert.True(t, report.Variants[0].Results[0].Converged)
	assert.Greater(t, report.Variants[0].Results[0].MatVecs, report.Variants[0].Results[0].Iterations)
	assert.Equal(t, out.Variants[0].Memory, report.Variants[0].Memory)
	assert.Greater(t, report.Variants[0].Memory.Sys, uint64(0))

	// the primal matrix lies between the bounds of the phases and above the dual one
	dual := report.Variants[1].Matrices["AH_GaNi_dual"]
	assert.Greater(t, primal[0][0], 3.)
	assert.Less(t, primal[0][0], 12.)
	assert.GreaterOrEqual(t, primal[0][0], dual[0][0]-1.e-8)
}

func TestRunSolveMissingFile(t *testing.T) {
	_, err := RunSolve(&SolveOptions{ICFile: filepath.Join(t.TempDir(), "none.yaml")}, newLogger(false), &bytes.Buffer{})
	assert.Error(t, err)
}
