package InputParameters

import (
	"fmt"
	"io"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/homogenize"
	"github.com/notargets/gohomog/material"
	"github.com/notargets/gohomog/solver"
	"github.com/notargets/gohomog/utils"
)

// Parameters obtained from the YAML input file. Inclusions are given as
// parallel lists, entry i of every list describes inclusion i.
type MaterialParameters struct {
	Inclusions []string      `json:"Inclusions"` // ball, circle, cube, square, all, otherwise
	Positions  [][]float64   `json:"Positions"`
	Params     [][]float64   `json:"Params"`
	Vals       [][][]float64 `json:"Vals"`
	Order      string        `json:"Order"`
	P          []int         `json:"P"`
}

type TwoGridParameters struct {
	Alpha   float64 `json:"Alpha"`
	Tol     float64 `json:"Tol"`
	MaxIter int     `json:"MaxIter"`
}

type SolveParameters struct {
	Kind       string             `json:"Kind"` // GaNi or Ga
	N          []int              `json:"N"`
	Order      string             `json:"Order"`
	P          []int              `json:"P"`
	PrimalDual []string           `json:"PrimalDual"`
	TwoGrid    *TwoGridParameters `json:"TwoGrid"`
}

type SolverParameters struct {
	Kind     string  `json:"Kind"` // CG or Richardson
	TolRel   float64 `json:"TolRel"`
	MaxIter  int     `json:"MaxIter"`
	Alpha    float64 `json:"Alpha"`
	Callback string  `json:"Callback"` // basic or detailed
}

type PostprocessParameters struct {
	Kind  string `json:"Kind"`
	Order string `json:"Order"`
	P     []int  `json:"P"`
}

type Problem struct {
	Title       string                  `json:"Title"`
	Kind        string                  `json:"Kind"` // scalar or elasticity
	Y           []float64               `json:"Y"`
	Material    MaterialParameters      `json:"Material"`
	Solve       SolveParameters         `json:"Solve"`
	Solver      SolverParameters        `json:"Solver"`
	Postprocess []PostprocessParameters `json:"Postprocess"`
	NyquistNull *bool                   `json:"NyquistNull"` // defaults to true
}

func (ip *Problem) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *Problem) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%s]\t\t= Kind\n", ip.Kind)
	fmt.Fprintf(w, "%v\t\t= Y\n", ip.Y)
	fmt.Fprintf(w, "[%s]\t\t\t= Discretization\n", ip.Solve.Kind)
	fmt.Fprintf(w, "%v\t\t= N\n", ip.Solve.N)
	fmt.Fprintf(w, "%v\t= PrimalDual\n", ip.Solve.PrimalDual)
	fmt.Fprintf(w, "[%s]\t\t\t= Solver\n", ip.Solver.Kind)
	for i, incl := range ip.Material.Inclusions {
		fmt.Fprintf(w, "Inclusion[%d] = %s\n", i, incl)
	}
	if tg := ip.Solve.TwoGrid; tg != nil {
		fmt.Fprintf(w, "TwoGrid = %+v\n", *tg)
	}
}

// ToProblem converts the file into the validated configuration of the driver
func (ip *Problem) ToProblem() (pb homogenize.Problem, err error) {
	pb = homogenize.Problem{
		Name:        ip.Title,
		Y:           ip.Y,
		NyquistNull: true,
		Postprocess: make([]homogenize.PostprocessSpec, len(ip.Postprocess)),
	}
	if ip.NyquistNull != nil {
		pb.NyquistNull = *ip.NyquistNull
	}
	if pb.Kind, err = homogenize.NewProblemKind(ip.Kind); err != nil {
		return
	}
	if pb.Material, err = ip.Material.toConfig(ip.Y); err != nil {
		return
	}
	sp := ip.Solve
	if pb.Solve.Discretization, err = homogenize.NewDiscretization(sp.Kind); err != nil {
		return
	}
	if pb.Solve.Order, err = material.NewOrder(sp.Order); err != nil {
		return
	}
	pb.Solve.N = utils.NewShape(sp.N...)
	if len(sp.P) != 0 {
		pb.Solve.P = utils.NewShape(sp.P...)
	}
	for _, label := range sp.PrimalDual {
		var v material.Variant
		if v, err = material.NewVariant(label); err != nil {
			return
		}
		pb.Solve.PrimalDual = append(pb.Solve.PrimalDual, v)
	}
	if tg := sp.TwoGrid; tg != nil {
		pb.Solve.TwoGrid = &homogenize.TwoGridConfig{Alpha: tg.Alpha, Tol: tg.Tol, MaxIter: tg.MaxIter}
	}
	if pb.Solver.Kind, err = solver.NewKind(ip.Solver.Kind); err != nil {
		return
	}
	pb.Solver.TolRel, pb.Solver.MaxIter, pb.Solver.Alpha = ip.Solver.TolRel, ip.Solver.MaxIter, ip.Solver.Alpha
	if pb.Callback, err = homogenize.NewCallbackKind(ip.Solver.Callback); err != nil {
		return
	}
	for i, pp := range ip.Postprocess {
		spec := &pb.Postprocess[i]
		if spec.Discretization, err = homogenize.NewDiscretization(pp.Kind); err != nil {
			return
		}
		if spec.Order, err = material.NewOrder(pp.Order); err != nil {
			return
		}
		if len(pp.P) != 0 {
			spec.P = utils.NewShape(pp.P...)
		}
	}
	err = pb.Validate()
	return
}

func (mp MaterialParameters) toConfig(Y []float64) (conf material.Config, err error) {
	n := len(mp.Inclusions)
	if len(mp.Vals) != n || (len(mp.Positions) != n && len(mp.Positions) != 0) ||
		(len(mp.Params) != n && len(mp.Params) != 0) {
		err = errors.Wrapf(material.ErrInconsistentList, "%d inclusions, %d positions, %d params, %d values",
			n, len(mp.Positions), len(mp.Params), len(mp.Vals))
		return
	}
	conf = material.Config{Y: Y, Inclusions: make([]material.Inclusion, n)}
	if conf.Order, err = material.NewOrder(mp.Order); err != nil {
		return
	}
	conf.P = mp.P
	for i, label := range mp.Inclusions {
		incl := &conf.Inclusions[i]
		if incl.Kind, err = material.NewKind(label); err != nil {
			return
		}
		if len(mp.Positions) != 0 {
			incl.Position = mp.Positions[i]
		}
		if len(mp.Params) != 0 {
			incl.Params = mp.Params[i]
		}
		if incl.Val, err = tensor(mp.Vals[i]); err != nil {
			err = errors.Wrapf(err, "inclusion %d (%s)", i, strings.TrimSpace(label))
			return
		}
	}
	return
}

// tensor reads a square coefficient matrix given by rows
func tensor(rows [][]float64) (T *mat.Dense, err error) {
	n := len(rows)
	if n == 0 {
		err = errors.Wrap(material.ErrInconsistentList, "empty coefficient tensor")
		return
	}
	T = mat.NewDense(n, n, nil)
	for i, row := range rows {
		if len(row) != n {
			err = errors.Wrapf(material.ErrInconsistentList, "row %d of the coefficient tensor has %d entries, want %d", i, len(row), n)
			return
		}
		T.SetRow(i, row)
	}
	return
}
