package planar

import "math"

// Circle is a centre and radius.
type Circle struct {
	C Vec
	R float64
}

// relEps widens containment tests so points on the boundary stay inside.
const relEps = 1e-12

func (c Circle) contains(p Vec) bool {
	return Dist(c.C, p) <= c.R*(1+relEps)+relEps
}

// EnclosingCircle returns the smallest circle containing every point in pts
// (incremental Welzl construction). The input order is kept so results are
// reproducible.
func EnclosingCircle(pts []Vec) Circle {
	var c Circle
	valid := false
	for i, p := range pts {
		if valid && c.contains(p) {
			continue
		}
		c = circleOnePoint(pts[:i+1], p)
		valid = true
	}
	return c
}

// circleOnePoint is the smallest circle over pts with p on its boundary.
func circleOnePoint(pts []Vec, p Vec) Circle {
	c := Circle{C: p}
	for i, q := range pts {
		if c.contains(q) {
			continue
		}
		if c.R == 0 {
			c = diameterCircle(p, q)
			continue
		}
		c = circleTwoPoints(pts[:i+1], p, q)
	}
	return c
}

// circleTwoPoints is the smallest circle over pts with p and q on its boundary.
func circleTwoPoints(pts []Vec, p, q Vec) Circle {
	circ := diameterCircle(p, q)
	var left, right *Circle
	pq := q.Sub(p)
	for _, r := range pts {
		if circ.contains(r) {
			continue
		}
		cross := pq.Cross(r.Sub(p))
		c, ok := circumCircle(p, q, r)
		if !ok {
			continue
		}
		side := pq.Cross(c.C.Sub(p))
		switch {
		case cross > 0 && (left == nil || side > pq.Cross(left.C.Sub(p))):
			cc := c
			left = &cc
		case cross < 0 && (right == nil || side < pq.Cross(right.C.Sub(p))):
			cc := c
			right = &cc
		}
	}
	switch {
	case left == nil && right == nil:
		return circ
	case left == nil:
		return *right
	case right == nil:
		return *left
	case left.R <= right.R:
		return *left
	default:
		return *right
	}
}

func diameterCircle(a, b Vec) Circle {
	c := a.Add(b).Scale(0.5)
	return Circle{C: c, R: math.Max(Dist(c, a), Dist(c, b))}
}

func circumCircle(a, b, c Vec) (Circle, bool) {
	ox := (math.Min(math.Min(a.X, b.X), c.X) + math.Max(math.Max(a.X, b.X), c.X)) / 2
	oy := (math.Min(math.Min(a.Y, b.Y), c.Y) + math.Max(math.Max(a.Y, b.Y), c.Y)) / 2
	ax, ay := a.X-ox, a.Y-oy
	bx, by := b.X-ox, b.Y-oy
	cx, cy := c.X-ox, c.Y-oy
	d := (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by)) * 2
	if d == 0 {
		return Circle{}, false
	}
	x := ((ax*ax+ay*ay)*(by-cy) + (bx*bx+by*by)*(cy-ay) + (cx*cx+cy*cy)*(ay-by)) / d
	y := ((ax*ax+ay*ay)*(cx-bx) + (bx*bx+by*by)*(ax-cx) + (cx*cx+cy*cy)*(bx-ax)) / d
	ctr := Vec{ox + x, oy + y}
	return Circle{C: ctr, R: math.Max(math.Max(Dist(ctr, a), Dist(ctr, b)), Dist(ctr, c))}, true
}
