package utils

import "math"

const (
	NODETOL = 1.e-12
	// Relative and absolute tolerances for AllClose, same defaults as the
	// closeness test used when comparing macroscopic means.
	RTOL = 1.e-5
	ATOL = 1.e-8
)

type EvalOp uint8

const (
	Equal EvalOp = iota
	Less
	Greater
	LessOrEqual
	GreaterOrEqual
)

// AllClose reports whether |a[i]-b[i]| <= ATOL + RTOL*|b[i]| for every entry.
func AllClose(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > ATOL+RTOL*math.Abs(b[i]) {
			return false
		}
	}
	return true
}

// Compare applies op to (a, b)
func Compare(op EvalOp, a, b int) bool {
	switch op {
	case Equal:
		return a == b
	case Less:
		return a < b
	case Greater:
		return a > b
	case LessOrEqual:
		return a <= b
	case GreaterOrEqual:
		return a >= b
	}
	return false
}
