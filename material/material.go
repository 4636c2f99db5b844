package material

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gohomog/spectral"
	"github.com/notargets/gohomog/utils"
)

type Material struct {
	Conf Config
	Y    []float64
	log  logrus.FieldLogger
}

// New validates conf once, later evaluations trust it
func New(conf Config, log logrus.FieldLogger) (m *Material, err error) {
	var c Config
	if c, err = conf.validate(); err != nil {
		return
	}
	m = &Material{
		Conf: c,
		Y:    c.Y,
		log:  utils.Logger(log),
	}
	return
}

func (m *Material) Dim() int { return len(m.Y) }

// Measure is the volume of the unit cell
func (m *Material) Measure() float64 { return floats.Prod(m.Y) }

// TensorDims is the size of the coefficient tensor, or 0,0 when it is only
// known after evaluating the coefficient function
func (m *Material) TensorDims() (nr, nc int) {
	if len(m.Conf.Inclusions) != 0 && m.Conf.Fun == nil {
		return m.Conf.Inclusions[0].Val.Dims()
	}
	return
}

func (m *Material) checkGrid(N utils.Shape) (err error) {
	if err = N.Validate(); err != nil {
		return errors.Wrap(spectral.ErrShapeMismatch, err.Error())
	}
	if N.Dim() != m.Dim() {
		return errors.Wrapf(spectral.ErrShapeMismatch, "grid %v in a %d dimensional cell", N, m.Dim())
	}
	return
}

// GaNi returns the coefficients at the collocation points of grid N, inverted
// for the dual formulation
func (m *Material) GaNi(N utils.Shape, variant Variant) (A *spectral.MatField, err error) {
	if A, err = m.Evaluate(N); err != nil {
		return
	}
	if variant == Dual {
		if A, err = A.Inv(); err != nil {
			return
		}
	}
	A.Name = "A_GaNi"
	m.log.WithFields(logrus.Fields{"N": N, "primaldual": variant}).Debug("collocation coefficients")
	return
}

// Evaluate samples the material at the collocation points of grid N
func (m *Material) Evaluate(N utils.Shape) (A *spectral.MatField, err error) {
	if err = m.checkGrid(N); err != nil {
		return
	}
	var (
		coord = N.Coordinates(m.Y)
		P     = N.Size()
	)
	if fun := m.Conf.Fun; fun != nil {
		x := make([]float64, m.Dim())
		for p := 0; p < P; p++ {
			for d := range x {
				x[d] = coord[d][p]
			}
			T := fun(x)
			if A == nil {
				nr, nc := T.Dims()
				A = spectral.NewMatField("A_GaNi", nr, nc, N, spectral.Real)
			}
			if err = setTensor(A, p, T); err != nil {
				return
			}
		}
		return
	}
	var topos [][]float64
	if topos, err = m.Topologies(coord); err != nil {
		return
	}
	nr, nc := m.TensorDims()
	A = spectral.NewMatField("A_GaNi", nr, nc, N, spectral.Real)
	for ii, incl := range m.Conf.Inclusions {
		addScaled(A, incl.Val, topos[ii])
	}
	return
}

func setTensor(A *spectral.MatField, p int, T mat.Matrix) (err error) {
	nr, nc := A.Dims()
	if r, c := T.Dims(); r != nr || c != nc {
		return errors.Wrapf(ErrInconsistentList, "coefficient function returned %dx%d, expected %dx%d", r, c, nr, nc)
	}
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			A.Val[i][j][p] = complex(T.At(i, j), 0)
		}
	}
	return
}

// addScaled accumulates T (x) chi into A
func addScaled(A *spectral.MatField, T mat.Matrix, chi []float64) {
	nr, nc := A.Dims()
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			t := T.At(i, j)
			if t == 0 {
				continue
			}
			for p, c := range chi {
				A.Val[i][j][p] += complex(t*c, 0)
			}
		}
	}
}

// Topologies returns the characteristic function of every inclusion at the
// points coord[axis][point]. Inclusions crossing the cell boundary are
// caught by testing the neighbouring periodic copies of every point.
func (m *Material) Topologies(coord [][]float64) (topos [][]float64, err error) {
	var (
		dim      = m.Dim()
		P        = len(coord[0])
		images   = periodicImages(dim)
		x        = make([]float64, dim)
		coverage = make([]float64, P)
		other    = -1
	)
	topos = make([][]float64, len(m.Conf.Inclusions))
	for ii, incl := range m.Conf.Inclusions {
		topo := make([]float64, P)
		topos[ii] = topo
		switch incl.Kind {
		case All:
			for p := range topo {
				topo[p] = 1
			}
			continue
		case Otherwise:
			other = ii
			continue
		}
		for p := 0; p < P; p++ {
			for _, img := range images {
				for d := 0; d < dim; d++ {
					x[d] = coord[d][p] - incl.Position[d] + float64(img[d])*m.Y[d]
				}
				if inside(incl, x) {
					topo[p]++
				}
			}
		}
		floats.Add(coverage, topo)
	}
	for p, c := range coverage {
		if c > 1 {
			err = errors.Wrapf(ErrOverlap, "grid point %d is covered %g times", p, c)
			return
		}
	}
	if other >= 0 {
		topo := topos[other]
		for p := range topo {
			topo[p] = 1 - coverage[p]
		}
	}
	return
}

func inside(incl Inclusion, x []float64) bool {
	switch incl.Kind {
	case Cube:
		for d, xd := range x {
			h := incl.Params[d] / 2
			if !(xd > -h && xd <= h) {
				return false
			}
		}
		return true
	case Ball:
		r := incl.Params[0] / 2
		return floats.Dot(x, x) < r*r
	}
	return false
}

// periodicImages lists the cell offsets {-1, 0, 1}^dim
func periodicImages(dim int) (images []utils.Index) {
	var (
		n   = 1
		sub = utils.NewIndex(dim)
		s3  = utils.NewShapeConst(dim, 3)
	)
	for d := 0; d < dim; d++ {
		n *= 3
	}
	for i := 0; i < n; i++ {
		s3.Unravel(i, sub)
		images = append(images, sub.Add(-1))
	}
	return
}
