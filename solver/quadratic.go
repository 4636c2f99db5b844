package solver

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

// flatten interleaves the real and imaginary parts of all components, so the
// Euclidean product of two flat vectors is Re(conj(x).y)
func flatten(x *spectral.VecField, dst []float64) []float64 {
	n := 2 * x.D() * x.N.Size()
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]
	k := 0
	for _, c := range x.Val {
		for _, v := range c {
			dst[k], dst[k+1] = real(v), imag(v)
			k += 2
		}
	}
	return dst
}

// unflatten is the inverse of flatten on the grid and mode of tmpl
func unflatten(tmpl *spectral.VecField, name string, v []float64) (x *spectral.VecField) {
	x = spectral.NewVecField(name, tmpl.D(), tmpl.N, tmpl.Mode)
	k := 0
	for _, c := range x.Val {
		for i := range c {
			c[i] = complex(v[k], v[k+1])
			k += 2
		}
	}
	return
}

// quadratic is f(x) = 1/2 x.Ax - b.x with gradient Ax - b. The last product
// is kept, the optimizer asks for f and its gradient at the same point.
type quadratic struct {
	A     spectral.Operator
	b     []float64
	tmpl  *spectral.VecField
	x, Ax []float64
	err   error
}

func newQuadratic(A spectral.Operator, b, x0 *spectral.VecField) *quadratic {
	return &quadratic{A: A, b: flatten(b, nil), tmpl: x0}
}

func (q *quadratic) apply(x []float64) bool {
	if q.err != nil {
		return false
	}
	if q.x != nil && floats.Equal(q.x, x) {
		return true
	}
	Ax, err := q.A.Apply(unflatten(q.tmpl, q.tmpl.Name, x))
	if err != nil {
		q.err = err
		return false
	}
	q.x = append(q.x[:0], x...)
	q.Ax = flatten(Ax, q.Ax)
	return true
}

func (q *quadratic) Func(x []float64) float64 {
	if !q.apply(x) {
		return math.NaN()
	}
	return 0.5*floats.Dot(x, q.Ax) - floats.Dot(q.b, x)
}

func (q *quadratic) Grad(grad, x []float64) {
	if !q.apply(x) {
		for i := range grad {
			grad[i] = math.NaN()
		}
		return
	}
	floats.SubTo(grad, q.Ax, q.b)
}

// monitor stops on the relative residual and reports every iterate. The
// optimizer calls it at each major iteration, the starting point included.
type monitor struct {
	b, x0     *spectral.VecField
	bnorm     float64
	conf      Config
	cb        Callback
	stats     *Stats
	iter      int
	breakdown error
}

func (m *monitor) Init(int) { m.iter = 0 }

func (m *monitor) Converged(loc *optimize.Location) optimize.Status {
	it := m.iter
	m.iter++
	m.stats.Iterations = it
	rnorm := unflatten(m.b, "r", loc.Gradient).Norm()
	if utils.IsNan(rnorm) {
		m.breakdown = errors.Wrapf(ErrBreakdown, "NaN residual at %s iteration %d", m.conf.Kind, it)
		return optimize.Failure
	}
	if it > 0 && m.cb != nil {
		m.cb(it, unflatten(m.x0, m.x0.Name, loc.X))
	}
	if converged(rnorm, m.bnorm, m.conf, m.stats) {
		return optimize.Success
	}
	return optimize.NotTerminated
}

// exactStep is the exact line search of a quadratic: the derivative along the
// direction is affine, two samples give its root.
type exactStep struct {
	d0, step float64
	done     bool
}

func (ls *exactStep) Init(_, derivative, step float64) optimize.Operation {
	ls.d0, ls.step, ls.done = derivative, step, false
	return optimize.FuncEvaluation | optimize.GradEvaluation
}

func (ls *exactStep) Iterate(_, derivative float64) (optimize.Operation, float64, error) {
	if ls.done {
		return optimize.MajorIteration, ls.step, nil
	}
	curv := (derivative - ls.d0) / ls.step
	if !(curv > 0) {
		return optimize.NoOperation, 0, errors.Wrapf(ErrBreakdown, "curvature %v along the search direction", curv)
	}
	ls.done = true
	next := -ls.d0 / curv
	if next == ls.step {
		return optimize.MajorIteration, ls.step, nil
	}
	ls.step = next
	return optimize.FuncEvaluation | optimize.GradEvaluation, next, nil
}

// fullStep accepts the trial step as is
type fullStep struct{}

func (fullStep) Init(_, _, _ float64) optimize.Operation {
	return optimize.FuncEvaluation | optimize.GradEvaluation
}

func (fullStep) Iterate(_, _ float64) (optimize.Operation, float64, error) {
	return optimize.MajorIteration, 0, nil
}
