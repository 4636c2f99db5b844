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
	"fmt"
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/pkg/profile"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/InputParameters"
	"github.com/notargets/gohomog/homogenize"
)

type SolveOptions struct {
	ICFile  string
	OutFile string
	Profile string
	Verbose bool
}

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Homogenize the unit cell described in a YAML problem file",
	Long:  `Homogenize the unit cell described in a YAML problem file, print the homogenized matrices and optionally write them with the solver diagnostics`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err  error
			opts = &SolveOptions{}
		)
		if opts.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		opts.OutFile, _ = cmd.Flags().GetString("out")
		opts.Profile, _ = cmd.Flags().GetString("profile")
		opts.Verbose, _ = cmd.Flags().GetBool("verbose")
		if len(opts.ICFile) == 0 {
			fmt.Printf("error: must supply a problem file (-I, --inputConditionsFile)\n")
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		switch opts.Profile {
		case "cpu":
			defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
		case "mem":
			defer profile.Start(profile.MemProfile, profile.ProfilePath(".")).Stop()
		}
		if _, err = RunSolve(opts, newLogger(opts.Verbose), os.Stdout); err != nil {
			fmt.Printf("error: %v\n", err)
			os.Exit(1)
		}
	},
}

var exampleFile = `
########################################
Title: "checkerboard"
Kind: scalar # or elasticity
Y: [1., 1.]
Material:
  Inclusions: [square, square, otherwise]
  Positions: [[0.25, 0.25], [0.75, 0.75], []]
  Params: [[0.5, 0.5], [0.5, 0.5], []]
  Vals: [[[10., 0.], [0., 10.]], [[10., 0.], [0., 10.]], [[1., 0.], [0., 1.]]]
Solve:
  Kind: GaNi # or Ga
  N: [16, 16]
  PrimalDual: [primal, dual]
Solver:
  Kind: CG
  TolRel: 1.e-8
  MaxIter: 1000
Postprocess:
  - Kind: GaNi
########################################
`

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML problem file: cell, material, discretization, solver and postprocessing")
	SolveCmd.Flags().StringP("out", "o", "", "write the homogenized matrices and diagnostics to this YAML file")
	SolveCmd.Flags().String("profile", "", "profile the run: cpu or mem")
	SolveCmd.Flags().BoolP("verbose", "v", false, "debug logging")
}

// RunSolve reads the problem, homogenizes it and reports the matrices to w
func RunSolve(opts *SolveOptions, log logrus.FieldLogger, w io.Writer) (out *homogenize.Output, err error) {
	var (
		data []byte
		ip   = &InputParameters.Problem{}
		pb   homogenize.Problem
	)
	if data, err = os.ReadFile(opts.ICFile); err != nil {
		return
	}
	if err = ip.Parse(data); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", opts.ICFile)
	}
	ip.Print(w)
	if pb, err = ip.ToProblem(); err != nil {
		return
	}
	if out, err = homogenize.Homogenize(pb, log); err != nil {
		return
	}
	report := NewReport(out)
	for _, vr := range report.Variants {
		for _, name := range vr.names() {
			fmt.Fprintf(w, "%s =\n%v\n", name, mat.Formatted(out.Variants[vr.index].Matrices[name], mat.Prefix("    "), mat.Squeeze()))
		}
	}
	if len(opts.OutFile) != 0 {
		if data, err = yaml.Marshal(report); err != nil {
			return
		}
		err = os.WriteFile(opts.OutFile, data, 0644)
	}
	return
}
