// Package solver holds the iterative linear solvers the homogenization
// driver runs on its matrix-free operators. A system A x = b with A symmetric
// positive definite is solved as the minimization of 1/2 x.Ax - b.x with the
// gonum optimize methods, the fields being flattened to real vectors.
package solver

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize"

	"github.com/notargets/gohomog/spectral"
)

var ErrBreakdown = errors.New("linear solver breakdown")

type Kind uint8

const (
	CG Kind = iota
	Richardson
)

func NewKind(label string) (k Kind, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "cg", "":
		k = CG
	case "richardson", "richardson_relaxation":
		k = Richardson
	default:
		err = errors.Errorf("unknown linear solver %q", label)
	}
	return
}

func (k Kind) String() string {
	if k == Richardson {
		return "Richardson"
	}
	return "CG"
}

type Config struct {
	Kind    Kind
	TolRel  float64 // relative residual |b - A x| / |b| to stop at
	MaxIter int
	Alpha   float64 // Richardson: x += (b - A x)/Alpha, Alpha above the largest eigenvalue
}

const (
	DefaultTolRel  = 1.e-8
	DefaultMaxIter = 1000
)

func (c Config) withDefaults() Config {
	if c.TolRel <= 0 {
		c.TolRel = DefaultTolRel
	}
	if c.MaxIter <= 0 {
		c.MaxIter = DefaultMaxIter
	}
	return c
}

// Stats are the diagnostics of one solve
type Stats struct {
	Kind         Kind
	Iterations   int
	MatVecs      int // operator applications
	ResidualNorm float64
	RelResidual  float64
	Converged    bool
}

// Callback is called after every iteration with the current iterate
type Callback func(iter int, x *spectral.VecField)

// Solve solves A x = b starting from x0. Running out of iterations is not an
// error, Stats.Converged tells the caller.
func Solve(A spectral.Operator, b, x0 *spectral.VecField, conf Config, cb Callback) (x *spectral.VecField, stats Stats, err error) {
	var method optimize.Method
	conf = conf.withDefaults()
	stats.Kind = conf.Kind
	switch conf.Kind {
	case CG:
		method = &optimize.CG{
			Linesearcher:      &exactStep{},
			Variant:           &optimize.FletcherReeves{},
			InitialStep:       optimize.ConstantStepSize{Size: 1},
			GradStopThreshold: math.NaN(),
		}
	case Richardson:
		if !(conf.Alpha > 0) {
			err = errors.Errorf("richardson iteration needs a positive alpha, have %v", conf.Alpha)
			return
		}
		method = &optimize.GradientDescent{
			Linesearcher:      fullStep{},
			StepSizer:         optimize.ConstantStepSize{Size: 1 / conf.Alpha},
			GradStopThreshold: math.NaN(),
		}
	default:
		err = errors.Errorf("unknown linear solver %d", conf.Kind)
		return
	}
	if _, err = residual(A, b, x0); err != nil {
		return
	}
	var (
		q   = newQuadratic(A, b, x0)
		mon = &monitor{b: b, x0: x0, bnorm: b.Norm(), conf: conf, cb: cb, stats: &stats}
		res *optimize.Result
	)
	res, err = optimize.Minimize(optimize.Problem{Func: q.Func, Grad: q.Grad}, flatten(x0, nil),
		&optimize.Settings{Converger: mon, MajorIterations: conf.MaxIter + 1}, method)
	switch {
	case q.err != nil:
		err = q.err
		return
	case mon.breakdown != nil:
		err = mon.breakdown
		return
	case errors.Is(err, optimize.ErrNoProgress):
		// stagnation at round-off, keep the last iterate
		err = nil
	case err != nil && !errors.Is(err, ErrBreakdown):
		err = errors.Wrapf(err, "%s solve", conf.Kind)
	}
	if err != nil || res == nil {
		return
	}
	x = unflatten(x0, x0.Name, res.X)
	stats.MatVecs = res.GradEvaluations
	return
}

func residual(A spectral.Operator, b, x *spectral.VecField) (r *spectral.VecField, err error) {
	var Ax *spectral.VecField
	if Ax, err = A.Apply(x); err != nil {
		return
	}
	return b.Sub(Ax)
}

func converged(rnorm, bnorm float64, conf Config, stats *Stats) bool {
	stats.ResidualNorm = rnorm
	if bnorm == 0 {
		stats.RelResidual = rnorm
	} else {
		stats.RelResidual = rnorm / bnorm
	}
	stats.Converged = stats.RelResidual <= conf.TolRel || rnorm == 0
	return stats.Converged
}
