package guidance

import "guidely/pkg/geo"

// Simplify applies Douglas-Peucker with the given tolerance in meters,
// dropping points that do not meaningfully deviate from the chord between
// their neighbors. Implemented with an explicit stack so arbitrarily long
// paths cannot exhaust call depth.
func Simplify(points []geo.LatLng, toleranceMeters float64) []geo.LatLng {
	simplified, _ := simplifyWithIndex(points, toleranceMeters)
	return simplified
}

// simplifyWithIndex is Simplify plus, for each kept point, its index into
// the original slice. Turn detection uses the indices to tie turns back to
// the raw path.
func simplifyWithIndex(points []geo.LatLng, toleranceMeters float64) ([]geo.LatLng, []int) {
	n := len(points)
	if n < 3 {
		kept := make([]geo.LatLng, n)
		copy(kept, points)
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return kept, idx
	}

	keep := make([]bool, n)
	keep[0] = true
	keep[n-1] = true

	stack := [][2]int{{0, n - 1}}
	for len(stack) > 0 {
		pair := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		left, right := pair[0], pair[1]

		// Farthest point from the chord (left, right).
		var maxDist float64
		farthest := left
		for i := left + 1; i < right; i++ {
			d := geo.PerpendicularDist(points[i], points[left], points[right])
			if d > maxDist {
				maxDist = d
				farthest = i
			}
		}

		if maxDist > toleranceMeters {
			keep[farthest] = true
			if farthest-left > 1 {
				stack = append(stack, [2]int{left, farthest})
			}
			if right-farthest > 1 {
				stack = append(stack, [2]int{farthest, right})
			}
		}
	}

	var kept []geo.LatLng
	var idx []int
	for i, k := range keep {
		if k {
			kept = append(kept, points[i])
			idx = append(idx, i)
		}
	}
	return kept, idx
}
