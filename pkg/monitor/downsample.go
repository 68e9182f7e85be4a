package monitor

// DownsamplePoints decimates points to at most maxPoints for display.
// Destination-based: reuses dst if it has sufficient capacity, otherwise allocates new.
// Samples carrying an accepted edge are kept so the drawn trace never hides a transition.
func DownsamplePoints(dst []Point, points []Point, maxPoints int) []Point {
	if maxPoints <= 0 || len(points) <= maxPoints {
		if cap(dst) >= len(points) {
			dst = dst[:len(points)]
			copy(dst, points)
			return dst
		}
		result := make([]Point, len(points))
		copy(result, points)
		return result
	}

	if cap(dst) >= maxPoints {
		dst = dst[:0]
	} else {
		dst = make([]Point, 0, maxPoints)
	}

	step := float64(len(points)) / float64(maxPoints)

	prev := 0
	for i := range maxPoints {
		idx := int(float64(i) * step)
		if idx >= len(points) {
			break
		}
		// Substitute an edge from the skipped stretch for the decimated sample.
		pick := idx
		for j := prev; j < idx; j++ {
			if points[j].Edge {
				pick = j
				break
			}
		}
		dst = append(dst, points[pick])
		prev = idx + 1
	}

	return dst
}
