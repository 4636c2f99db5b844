package projection

import "math"

// VoigtSize is the number of independent components of a symmetric dim x dim tensor
func VoigtSize(dim int) int { return dim * (dim + 1) / 2 }

// VoigtPairs lists the tensor index of each vector component:
// 2D (11, 22, 12), 3D (11, 22, 33, 23, 13, 12)
func VoigtPairs(dim int) [][2]int {
	switch dim {
	case 2:
		return [][2]int{{0, 0}, {1, 1}, {0, 1}}
	case 3:
		return [][2]int{{0, 0}, {1, 1}, {2, 2}, {1, 2}, {0, 2}, {0, 1}}
	}
	panic("voigt notation is defined for 2D and 3D")
}

// FromMandel expands a Mandel vector (shear entries scaled by sqrt 2) into a
// symmetric tensor
func FromMandel(v []float64, pairs [][2]int, eps [][]float64) {
	for k, ij := range pairs {
		i, j := ij[0], ij[1]
		if i == j {
			eps[i][i] = v[k]
			continue
		}
		eps[i][j] = v[k] / math.Sqrt2
		eps[j][i] = eps[i][j]
	}
}

// ToMandel is the inverse of FromMandel
func ToMandel(eps [][]float64, pairs [][2]int, v []float64) {
	for k, ij := range pairs {
		i, j := ij[0], ij[1]
		if i == j {
			v[k] = eps[i][i]
			continue
		}
		v[k] = math.Sqrt2 * eps[i][j]
	}
}
