// Package homogenize computes effective coefficients of periodic media. For
// every requested formulation and every unit macroscopic load it solves the
// cell problem with the Fourier projection operators, then assembles the
// homogenized matrix from the energy pairing of the solutions.
package homogenize

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/notargets/gohomog/material"
	"github.com/notargets/gohomog/solver"
	"github.com/notargets/gohomog/utils"
)

var (
	ErrInconsistentMean    = errors.New("mean of the minimizer matches neither the macroscopic load nor zero")
	ErrUnsupportedCallback = errors.New("the solver callback is not implemented")
	ErrBadProblem          = errors.New("invalid problem definition")
)

type ProblemKind uint8

const (
	Scalar ProblemKind = iota
	Elasticity
)

func NewProblemKind(label string) (k ProblemKind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "scalar", "":
		k = Scalar
	case "elasticity":
		k = Elasticity
	default:
		err = errors.Wrapf(ErrBadProblem, "unknown problem kind %q", label)
	}
	return
}

func (k ProblemKind) String() string {
	if k == Elasticity {
		return "elasticity"
	}
	return "scalar"
}

// Loads is the number of independent macroscopic loads in dimension dim
func (k ProblemKind) Loads(dim int) int {
	if k == Elasticity {
		return dim * (dim + 1) / 2
	}
	return dim
}

type Discretization uint8

const (
	Collocation      Discretization = iota // GaNi, coefficients at the grid points
	ExactIntegration                       // Ga, exact integration on the doubled grid
)

func NewDiscretization(label string) (d Discretization, err error) {
	switch strings.TrimSpace(label) {
	case "GaNi", "gani", "collocation":
		d = Collocation
	case "Ga", "ga", "exact":
		d = ExactIntegration
	default:
		err = errors.Wrapf(ErrBadProblem, "unknown discretization %q, want GaNi or Ga", label)
	}
	return
}

func (d Discretization) String() string {
	if d == ExactIntegration {
		return "Ga"
	}
	return "GaNi"
}

// Nbar is the grid the operators of discretization d live on for a solve on N
func (d Discretization) Nbar(N utils.Shape) utils.Shape {
	if d == ExactIntegration {
		return N.Odd()
	}
	return N.Copy()
}

type CallbackKind uint8

const (
	Basic    CallbackKind = iota // residual norm per iteration
	Detailed                     // residual norm and energy per iteration
	numCallbackKinds
)

func NewCallbackKind(label string) (c CallbackKind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "basic":
		c = Basic
	case "detailed":
		c = Detailed
	default:
		err = errors.Wrapf(ErrUnsupportedCallback, "callback %q", label)
	}
	return
}

func (c CallbackKind) String() string {
	switch c {
	case Basic:
		return "basic"
	case Detailed:
		return "detailed"
	}
	return fmt.Sprintf("CallbackKind(%d)", uint8(c))
}

// TwoGridConfig enables the two-grid iteration on the fine grid N and the
// coarse grid N/2
type TwoGridConfig struct {
	Alpha   float64 // smoothing scale, zero selects the largest coefficient bound
	Tol     float64
	MaxIter int
}

const (
	DefaultTwoGridTol     = 1.e-6
	DefaultTwoGridMaxIter = 100
)

type SolveConfig struct {
	Discretization Discretization
	N              utils.Shape
	Order          material.Order // exact integration only
	P              utils.Shape    // exact integration only, sampling grid of the interpolated coefficients
	PrimalDual     []material.Variant
	TwoGrid        *TwoGridConfig
}

// PostprocessSpec requests one homogenized matrix per formulation
type PostprocessSpec struct {
	Discretization Discretization
	Order          material.Order
	P              utils.Shape
}

type Problem struct {
	Name        string
	Kind        ProblemKind
	Y           []float64
	Material    material.Config
	Solve       SolveConfig
	Solver      solver.Config
	Callback    CallbackKind
	Postprocess []PostprocessSpec
	NyquistNull bool // zero the projections on the Nyquist frequency of even axes
}

// Validate checks pb and fills the defaults in place
func (pb *Problem) Validate() (err error) {
	dim := len(pb.Y)
	if dim == 0 {
		return material.ErrMissingCell
	}
	if dim != 2 && dim != 3 {
		return errors.Wrapf(ErrBadProblem, "%d dimensional cell, want 2 or 3", dim)
	}
	if pb.Name == "" {
		pb.Name = pb.Kind.String()
	}
	if len(pb.Material.Y) == 0 {
		pb.Material.Y = append([]float64{}, pb.Y...)
	} else if !utils.AllClose(pb.Material.Y, pb.Y) {
		return errors.Wrapf(ErrBadProblem, "material cell %v differs from problem cell %v", pb.Material.Y, pb.Y)
	}
	if err = pb.Solve.N.Validate(); err != nil {
		return errors.Wrap(ErrBadProblem, err.Error())
	}
	if pb.Solve.N.Dim() != dim {
		return errors.Wrapf(ErrBadProblem, "grid %v in a %d dimensional cell", pb.Solve.N, dim)
	}
	if len(pb.Solve.PrimalDual) == 0 {
		pb.Solve.PrimalDual = []material.Variant{material.Primal}
	}
	if pb.Callback >= numCallbackKinds {
		return errors.Wrapf(ErrUnsupportedCallback, "callback %s", pb.Callback)
	}
	if pb.Solve.TwoGrid != nil {
		tg := *pb.Solve.TwoGrid
		pb.Solve.TwoGrid = &tg
		if tg.Tol <= 0 {
			tg.Tol = DefaultTwoGridTol
		}
		if tg.MaxIter <= 0 {
			tg.MaxIter = DefaultTwoGridMaxIter
		}
		if tg.Alpha < 0 {
			return errors.Wrapf(ErrBadProblem, "two-grid alpha %v", tg.Alpha)
		}
		if !pb.Solve.N.Compare(utils.GreaterOrEqual, utils.NewShapeConst(dim, 2)) {
			return errors.Wrapf(ErrBadProblem, "two-grid iteration needs at least 2 points per axis, have %v", pb.Solve.N)
		}
	}
	if len(pb.Postprocess) == 0 {
		pb.Postprocess = []PostprocessSpec{{
			Discretization: pb.Solve.Discretization,
			Order:          pb.Solve.Order,
			P:              pb.Solve.P,
		}}
	}
	return
}

func (pb *Problem) String() string {
	return fmt.Sprintf("Problem(%s, %s, Y=%v, %s N=%v, %v)",
		pb.Name, pb.Kind, pb.Y, pb.Solve.Discretization, pb.Solve.N, pb.Solve.PrimalDual)
}
