/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/homogenize"
	"github.com/notargets/gohomog/utils"
)

// Report is the YAML form of the homogenization output
type Report struct {
	Problem  string          `json:"Problem"`
	Variants []VariantReport `json:"Variants"`
}

type VariantReport struct {
	PrimalDual string                 `json:"PrimalDual"`
	Matrices   map[string][][]float64 `json:"Matrices"`
	Results    []ResultReport         `json:"Results"`
	Memory     utils.MemUsage         `json:"Memory"`
	index      int
}

type ResultReport struct {
	Load       []float64 `json:"Load"`
	Solver     string    `json:"Solver,omitempty"`
	Iterations int       `json:"Iterations"`
	MatVecs    int       `json:"MatVecs,omitempty"`
	Residual   float64   `json:"Residual"`
	Converged  bool      `json:"Converged"`
	Energies   []float64 `json:"Energies,omitempty"`
	TwoGrid    bool      `json:"TwoGrid,omitempty"`
}

func NewReport(out *homogenize.Output) (r *Report) {
	r = &Report{Problem: out.Problem}
	for i, vo := range out.Variants {
		vr := VariantReport{
			PrimalDual: vo.Variant.String(),
			Matrices:   make(map[string][][]float64),
			Memory:     vo.Memory,
			index:      i,
		}
		for name, AH := range vo.Matrices {
			vr.Matrices[name] = rows(AH)
		}
		for _, res := range vo.Results {
			rr := ResultReport{
				Load:       res.Load,
				Solver:     res.Stats.Kind.String(),
				Iterations: res.Stats.Iterations,
				MatVecs:    res.Stats.MatVecs,
				Residual:   res.Stats.RelResidual,
				Converged:  res.Stats.Converged,
				Energies:   res.Energies,
			}
			if tg := res.TwoGrid; tg != nil {
				rr.Solver = ""
				rr.TwoGrid = true
				rr.Iterations, rr.Residual, rr.Converged = tg.Iterations, tg.Residual, tg.Converged
			}
			vr.Results = append(vr.Results, rr)
		}
		r.Variants = append(r.Variants, vr)
	}
	return
}

func (vr VariantReport) names() (names []string) {
	for name := range vr.Matrices {
		names = append(names, name)
	}
	sort.Strings(names)
	return
}

func rows(A mat.Matrix) (v [][]float64) {
	nr, nc := A.Dims()
	v = make([][]float64, nr)
	for i := range v {
		v[i] = make([]float64, nc)
		for j := range v[i] {
			v[i][j] = A.At(i, j)
		}
	}
	return
}
