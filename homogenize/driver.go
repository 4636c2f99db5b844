package homogenize

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/material"
	"github.com/notargets/gohomog/projection"
	"github.com/notargets/gohomog/solver"
	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

// Result holds the diagnostics of the solve for one load
type Result struct {
	Load      []float64
	Stats     solver.Stats
	Residuals []float64
	Energies  []float64
	TwoGrid   *TwoGridInfo
}

type VariantOutput struct {
	Variant   material.Variant
	Solutions []*spectral.VecField
	Results   []Result
	Matrices  map[string]*mat.Dense
	Memory    utils.MemUsage // heap after the formulation is done
}

type Output struct {
	Problem  string
	Variants []*VariantOutput
}

// Matrix looks a homogenized matrix up by name in every formulation
func (out *Output) Matrix(name string) (AH *mat.Dense, ok bool) {
	for _, vo := range out.Variants {
		if AH, ok = vo.Matrices[name]; ok {
			return
		}
	}
	return
}

type driver struct {
	pb   *Problem
	m    *material.Material
	D    int
	N    utils.Shape
	Nbar utils.Shape
	log  logrus.FieldLogger
}

// Homogenize runs every formulation of pb. A fatal error aborts the whole
// call, non-converged iterations are reported in the results.
func Homogenize(pb Problem, log logrus.FieldLogger) (out *Output, err error) {
	if err = pb.Validate(); err != nil {
		return
	}
	d := &driver{
		pb:   &pb,
		D:    pb.Kind.Loads(len(pb.Y)),
		N:    pb.Solve.N.Copy(),
		Nbar: pb.Solve.Discretization.Nbar(pb.Solve.N),
		log:  utils.Logger(log).WithField("problem", pb.Name),
	}
	if d.m, err = material.New(pb.Material, d.log); err != nil {
		return
	}
	d.log.WithFields(logrus.Fields{
		"kind": pb.Kind, "discretization": pb.Solve.Discretization, "N": d.N, "Nbar": d.Nbar,
	}).Info("homogenization")
	out = &Output{Problem: pb.Name}
	for _, variant := range pb.Solve.PrimalDual {
		var vo *VariantOutput
		if vo, err = d.run(variant); err != nil {
			return nil, errors.Wrapf(err, "%s %s problem", pb.Name, variant)
		}
		out.Variants = append(out.Variants, vo)
	}
	return
}

// kernel returns the projection of the formulation, built on N and enlarged to Nbar
func (d *driver) kernel(N, Nbar utils.Shape, variant material.Variant) (hG *spectral.MatField, err error) {
	var G1, G2 *spectral.MatField
	switch d.pb.Kind {
	case Scalar:
		G1, G2 = projection.Scalar(N, d.pb.Y, d.pb.NyquistNull)
	case Elasticity:
		G1, G2 = projection.Elasticity(N, d.pb.Y, d.pb.NyquistNull)
	}
	hG = G1
	if variant == material.Dual {
		hG = G2
	}
	if !Nbar.Equal(N) {
		if hG, err = hG.Enlarge(Nbar); err != nil {
			return
		}
	}
	return
}

func (d *driver) coefficients(disc Discretization, N utils.Shape, variant material.Variant,
	order material.Order, P utils.Shape) (A *spectral.MatField, err error) {
	switch disc {
	case Collocation:
		A, err = d.m.GaNi(N, variant)
	case ExactIntegration:
		A, err = d.m.Ga(N.Odd(), variant, order, P)
	default:
		err = errors.Wrapf(ErrBadProblem, "unknown discretization %d", disc)
	}
	if err != nil {
		return
	}
	if nr, nc := A.Dims(); nr != d.D || nc != d.D {
		err = errors.Wrapf(spectral.ErrDimMismatch, "%s problem in %d dimensions needs %dx%d coefficients, have %dx%d",
			d.pb.Kind, len(d.pb.Y), d.D, d.D, nr, nc)
	}
	return
}

func (d *driver) run(variant material.Variant) (vo *VariantOutput, err error) {
	var (
		sc     = d.pb.Solve
		log    = d.log.WithField("primaldual", variant)
		A, hGN *spectral.MatField
		FN     = spectral.NewDFT("FN", d.Nbar, false)
		FiN    = spectral.NewDFT("FiN", d.Nbar, true)
	)
	if hGN, err = d.kernel(d.N, d.Nbar, variant); err != nil {
		return
	}
	if A, err = d.coefficients(sc.Discretization, d.N, variant, sc.Order, sc.P); err != nil {
		return
	}
	var (
		Afun = spectral.NewLinOper("FiGFA", FiN, hGN, FN, A)
		tg   *twoGrid
	)
	log.Debug(Afun.String())
	if sc.TwoGrid != nil {
		if tg, err = d.newTwoGrid(variant, hGN, A, *sc.TwoGrid); err != nil {
			return
		}
	}
	vo = &VariantOutput{Variant: variant, Matrices: make(map[string]*mat.Dense)}
	for iL := 0; iL < d.D; iL++ {
		var (
			E    = make([]float64, d.D)
			X, B *spectral.VecField
			res  = Result{Load: E}
		)
		E[iL] = 1
		llog := log.WithField("load", E)
		EN := spectral.NewMacroField("EN", E, d.Nbar, spectral.Real)
		x0 := spectral.NewVecField("x0", d.D, d.Nbar, spectral.Real)
		if B, err = Afun.Neg().Apply(EN); err != nil {
			return
		}
		if tg != nil {
			var info TwoGridInfo
			if X, info, err = tg.solve(FN, FiN, B, d.pb.Solver); err != nil {
				return
			}
			res.TwoGrid = &info
			llog.WithFields(logrus.Fields{
				"iterations": info.Iterations, "residual": info.Residual, "converged": info.Converged,
			}).Info("two-grid iteration")
		} else {
			var cb *callback
			if cb, err = newCallback(d.pb.Callback, Afun, B, EN, A); err != nil {
				return
			}
			if X, res.Stats, err = solver.Solve(Afun, B, x0, d.pb.Solver, cb.record); err != nil {
				return
			}
			if err = cb.err; err != nil {
				return
			}
			res.Residuals, res.Energies = cb.Residuals, cb.Energies
			llog.WithFields(logrus.Fields{
				"solver": res.Stats.Kind, "iterations": res.Stats.Iterations,
				"residual": res.Stats.RelResidual, "converged": res.Stats.Converged,
			}).Info("linear solve")
			if !res.Stats.Converged {
				llog.Warn("linear solver did not converge")
			}
		}
		if X, err = AddMacro(X, E); err != nil {
			return
		}
		vo.Solutions = append(vo.Solutions, X)
		vo.Results = append(vo.Results, res)
	}
	for _, pp := range d.pb.Postprocess {
		var (
			App  *spectral.MatField
			AH   *mat.Dense
			name = d.matrixName(pp, variant)
		)
		if App, err = d.coefficients(pp.Discretization, d.N, variant, pp.Order, pp.P); err != nil {
			return
		}
		if AH, err = AssemblyMatrix(App, vo.Solutions); err != nil {
			return
		}
		if variant == material.Dual {
			var inv mat.Dense
			if err = inv.Inverse(AH); err != nil {
				err = errors.Wrapf(err, "inverting %s", name)
				return
			}
			AH = &inv
		}
		log.WithField("matrix", name).Debugf("\n%v", mat.Formatted(AH, mat.Prefix(" ")))
		vo.Matrices[name] = AH
	}
	vo.Memory = utils.GetMemUsage()
	log.WithField("memory", vo.Memory).Debug("formulation done")
	return
}

// matrixName is AH_<discretization>[_o<order>_n<mean P>]_<formulation>
func (d *driver) matrixName(pp PostprocessSpec, variant material.Variant) (name string) {
	name = "AH_" + pp.Discretization.String()
	if pp.Discretization == ExactIntegration {
		order := pp.Order
		if order == material.OrderNone {
			order = d.m.Conf.Order
		}
		if order != material.OrderNone {
			P := pp.P
			if len(P) == 0 && len(d.m.Conf.P) != 0 {
				P = utils.NewShape(d.m.Conf.P...)
			}
			if len(P) == 0 {
				P = d.N.Odd()
			}
			name += fmt.Sprintf("_o%d_n%d", int(order)-1, int(P.Mean()))
		}
	}
	return name + "_" + variant.String()
}

// maxCoefficient bounds the largest eigenvalue of A over the grid by the
// largest absolute row sum
func maxCoefficient(A *spectral.MatField) (m float64) {
	nr, nc := A.Dims()
	for p := 0; p < A.N.Size(); p++ {
		for i := 0; i < nr; i++ {
			var s float64
			for j := 0; j < nc; j++ {
				s += cmplx.Abs(A.Val[i][j][p])
			}
			m = math.Max(m, s)
		}
	}
	return
}
