// Package material evaluates the coefficient tensor of a periodic unit cell,
// given as a list of inclusions or as a function of the coordinates, either
// pointwise on a grid (collocation, GaNi) or through exact integration of
// the inclusion shape functions in Fourier space (Ga).
package material

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMissingCell          = errors.New("the definition of PUC size (Y) is missing")
	ErrNoMaterial           = errors.New("material needs either inclusions or a coefficient function")
	ErrInconsistentList     = errors.New("improper number of values in material definition")
	ErrOutOfCell            = errors.New("improper parameters of inclusion")
	ErrUnsupportedInclusion = errors.New("inclusion kind is not supported")
	ErrOverlap              = errors.New("overlapping inclusions")
	ErrNeedsOrder           = errors.New("exact integration of a coefficient function needs an interpolation order")
)

type Kind uint8

const (
	Ball Kind = iota
	Cube
	All
	Otherwise
)

var KindNameMap = map[string]Kind{
	"ball":      Ball,
	"circle":    Ball,
	"cube":      Cube,
	"square":    Cube,
	"all":       All,
	"otherwise": Otherwise,
}

func NewKind(label string) (k Kind, err error) {
	var ok bool
	if k, ok = KindNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = errors.Wrapf(ErrUnsupportedInclusion, "the inclusion (%s) is not supported", label)
	}
	return
}

func (k Kind) String() string {
	switch k {
	case Ball:
		return "ball"
	case Cube:
		return "cube"
	case All:
		return "all"
	case Otherwise:
		return "otherwise"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Background kinds cover the cell without geometry of their own
func (k Kind) Background() bool { return k == All || k == Otherwise }

// Order is the interpolation order of the coefficients in exact integration
type Order uint8

const (
	OrderNone Order = iota // exact shape functions of the inclusions
	OrderConstant
	OrderBilinear
)

func NewOrder(label string) (o Order, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "none":
		o = OrderNone
	case "0", "constant":
		o = OrderConstant
	case "1", "bilinear":
		o = OrderBilinear
	default:
		err = errors.Errorf("unknown interpolation order %q", label)
	}
	return
}

func (o Order) String() string {
	switch o {
	case OrderConstant:
		return "constant"
	case OrderBilinear:
		return "bilinear"
	}
	return "none"
}

// Variant selects the primal formulation or the dual one, which works with
// the inverse of the coefficients
type Variant uint8

const (
	Primal Variant = iota
	Dual
)

func NewVariant(label string) (v Variant, err error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "primal":
		v = Primal
	case "dual":
		v = Dual
	default:
		err = errors.Errorf("unknown formulation %q, want primal or dual", label)
	}
	return
}

func (v Variant) String() string {
	if v == Dual {
		return "dual"
	}
	return "primal"
}

type Inclusion struct {
	Kind     Kind
	Params   []float64  // Cube: side length per axis, Ball: diameter
	Position []float64  // center, wrapped into the cell
	Val      *mat.Dense // coefficient tensor inside the inclusion
}

type Config struct {
	Y          []float64
	Inclusions []Inclusion

	// Fun is an alternative to Inclusions, the coefficient tensor at x
	Fun func(x []float64) *mat.Dense

	// Default interpolation order and grid for exact integration
	Order Order
	P     []int
}

// validate checks the definition and returns a copy with wrapped positions
func (conf Config) validate() (c Config, err error) {
	c = conf
	if len(c.Y) == 0 {
		err = ErrMissingCell
		return
	}
	for _, y := range c.Y {
		if !(y > 0) {
			err = errors.Wrapf(ErrMissingCell, "cell size must be positive, have %v", c.Y)
			return
		}
	}
	if c.Fun != nil {
		return
	}
	if len(c.Inclusions) == 0 {
		err = ErrNoMaterial
		return
	}
	var (
		dim        = len(c.Y)
		background int
		nr, nc     = -1, -1
	)
	c.Inclusions = make([]Inclusion, len(conf.Inclusions))
	for ii, incl := range conf.Inclusions {
		if incl.Val == nil {
			err = errors.Wrapf(ErrInconsistentList, "inclusion %d has no coefficient tensor", ii)
			return
		}
		r, cc := incl.Val.Dims()
		if nr < 0 {
			nr, nc = r, cc
		}
		if r != nr || cc != nc {
			err = errors.Wrapf(ErrInconsistentList, "inclusion %d tensor is %dx%d, expected %dx%d", ii, r, cc, nr, nc)
			return
		}
		c.Inclusions[ii] = incl
		switch incl.Kind {
		case All, Otherwise:
			if background++; background > 1 {
				err = errors.Wrapf(ErrInconsistentList, "only one all/otherwise inclusion is allowed")
				return
			}
			continue
		case Cube:
			if len(incl.Params) != dim {
				err = errors.Wrapf(ErrInconsistentList, "cube %d needs %d side lengths, has %d", ii, dim, len(incl.Params))
				return
			}
		case Ball:
			if len(incl.Params) != 1 {
				err = errors.Wrapf(ErrInconsistentList, "ball %d needs one diameter, has %d", ii, len(incl.Params))
				return
			}
		default:
			err = errors.Wrapf(ErrUnsupportedInclusion, "inclusion %d is %s", ii, incl.Kind)
			return
		}
		if len(incl.Position) != dim {
			err = errors.Wrapf(ErrInconsistentList, "inclusion %d position has %d coordinates, cell has %d", ii, len(incl.Position), dim)
			return
		}
		for d := 0; d < dim; d++ {
			// a ball diameter is compared with every cell size
			pd := incl.Params[0]
			if incl.Kind == Cube {
				pd = incl.Params[d]
			}
			if pd > c.Y[d] || pd < 0 {
				err = errors.Wrapf(ErrOutOfCell, "inclusion %d params %v, cell %v", ii, incl.Params, c.Y)
				return
			}
		}
		pos := make([]float64, dim)
		for d := range pos {
			pos[d] = math.Mod(incl.Position[d], c.Y[d])
			if pos[d] < 0 {
				pos[d] += c.Y[d]
			}
		}
		c.Inclusions[ii].Position = pos
	}
	return
}
