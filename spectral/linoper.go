package spectral

import (
	"strings"

	"github.com/pkg/errors"
)

// Operator is a linear map on fields, the only thing an iterative solver
// needs to know about a system matrix
type Operator interface {
	Apply(x *VecField) (*VecField, error)
}

// Scalar multiplies a field by a constant
type Scalar float64

func (s Scalar) Apply(x *VecField) (*VecField, error) {
	return x.Scale(float64(s)), nil
}

// LinOper is a sum of operator chains. Every chain is applied like a matrix
// product, the rightmost stage first: [A, B, C] maps x to A(B(C(x))).
type LinOper struct {
	Name  string
	Terms [][]Operator
}

func NewLinOper(name string, chain ...Operator) (L *LinOper) {
	L = &LinOper{Name: name}
	if len(chain) != 0 {
		L.Terms = [][]Operator{chain}
	}
	return
}

// Plus returns the operator L + K
func (L *LinOper) Plus(K *LinOper) (S *LinOper) {
	S = &LinOper{Name: L.Name + "+" + K.Name}
	S.Terms = append(S.Terms, L.Terms...)
	S.Terms = append(S.Terms, K.Terms...)
	return
}

// Neg returns -L, each chain gets a leading sign flip stage
func (L *LinOper) Neg() (N *LinOper) {
	N = &LinOper{Name: "-" + L.Name, Terms: make([][]Operator, len(L.Terms))}
	for t, chain := range L.Terms {
		N.Terms[t] = append([]Operator{Scalar(-1)}, chain...)
	}
	return
}

func (L *LinOper) Apply(x *VecField) (y *VecField, err error) {
	if len(L.Terms) == 0 {
		return nil, errors.Errorf("operator %s has no stages", L.Name)
	}
	for t, chain := range L.Terms {
		var z *VecField
		if z, err = applyChain(chain, x); err != nil {
			return nil, errors.Wrapf(err, "operator %s, term %d", L.Name, t)
		}
		if y == nil {
			y = z
			continue
		}
		if y, err = y.Add(z); err != nil {
			return nil, errors.Wrapf(err, "operator %s, term %d", L.Name, t)
		}
	}
	return
}

func applyChain(chain []Operator, x *VecField) (y *VecField, err error) {
	y = x
	for s := len(chain) - 1; s >= 0; s-- {
		if y, err = chain[s].Apply(y); err != nil {
			return nil, errors.Wrapf(err, "stage %d", s)
		}
	}
	return
}

func (L *LinOper) String() string {
	var terms []string
	for _, chain := range L.Terms {
		var names []string
		for _, op := range chain {
			names = append(names, stageName(op))
		}
		terms = append(terms, strings.Join(names, "*"))
	}
	return L.Name + " = " + strings.Join(terms, " + ")
}

func stageName(op Operator) string {
	switch o := op.(type) {
	case *MatField:
		return o.Name
	case *DFT:
		return o.Name
	case *LinOper:
		return "(" + o.Name + ")"
	case Scalar:
		if o == -1 {
			return "-1"
		}
	}
	return "op"
}

// Bilinear evaluates the pairing A(x).y
func Bilinear(A Operator, x, y *VecField) (s float64, err error) {
	var Ax *VecField
	if Ax, err = A.Apply(x); err != nil {
		return
	}
	return Ax.Dot(y)
}
