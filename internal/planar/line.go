package planar

// Interpolate returns the point at arc length d along pts. Distances beyond
// either end clamp to the end vertex.
func Interpolate(pts []Vec, d float64) Vec {
	if len(pts) == 0 {
		return Vec{}
	}
	if d <= 0 {
		return pts[0]
	}
	for i := 1; i < len(pts); i++ {
		seg := Dist(pts[i-1], pts[i])
		if d <= seg {
			if seg == 0 {
				return pts[i]
			}
			return pts[i-1].Add(pts[i].Sub(pts[i-1]).Scale(d / seg))
		}
		d -= seg
	}
	return pts[len(pts)-1]
}
