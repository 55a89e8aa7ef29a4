// Package planar provides the 2D primitives used by the morphometric
// analyses on top of go-geom's xy algorithms: ring validation, boundary
// contact tests, probe casting, arc-length interpolation and minimum
// enclosing circles. All geometry is go-geom XY data in a projected (planar)
// coordinate system.
package planar

import (
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/lineintersector"
)

// Vec is a 2D vector.
type Vec struct {
	X, Y float64
}

// V returns the vector from the origin to c.
func V(c geom.Coord) Vec {
	return Vec{X: c.X(), Y: c.Y()}
}

// Sub returns a - b.
func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }

// Add returns a + b.
func (a Vec) Add(b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y} }

// Scale returns a scaled by s.
func (a Vec) Scale(s float64) Vec { return Vec{a.X * s, a.Y * s} }

// Dot returns the dot product of a and b.
func (a Vec) Dot(b Vec) float64 { return a.X*b.X + a.Y*b.Y }

// Cross returns the z component of a × b.
func (a Vec) Cross(b Vec) float64 { return a.X*b.Y - a.Y*b.X }

// Len returns the Euclidean length of a.
func (a Vec) Len() float64 { return math.Hypot(a.X, a.Y) }

// Unit returns a normalised to length one. A zero vector is returned as is.
func (a Vec) Unit() Vec {
	l := a.Len()
	if l == 0 {
		return a
	}
	return Vec{a.X / l, a.Y / l}
}

// Perp returns a rotated 90 degrees counter-clockwise.
func (a Vec) Perp() Vec { return Vec{-a.Y, a.X} }

// Coord converts a back to a go-geom coordinate.
func (a Vec) Coord() geom.Coord { return geom.Coord{a.X, a.Y} }

// Dist returns the distance between a and b.
func Dist(a, b Vec) float64 { return xy.Distance(a.Coord(), b.Coord()) }

// robust decides segment intersections with exact orientation tests.
var robust = lineintersector.RobustLineIntersector{}

// PointSegmentDistance returns the distance from p to the segment ab.
func PointSegmentDistance(p, a, b Vec) float64 {
	return xy.DistanceFromPointToLine(p.Coord(), a.Coord(), b.Coord())
}

// SegmentsIntersect reports whether the closed segments ab and cd share at
// least one point, including touching endpoints and collinear overlap.
func SegmentsIntersect(a, b, c, d Vec) bool {
	return intersects(a.Coord(), b.Coord(), c.Coord(), d.Coord())
}

func intersects(a, b, c, d geom.Coord) bool {
	res := lineintersector.LineIntersectsLine(robust, a, b, c, d)
	return res.HasIntersection()
}

// SegmentDistance returns the minimum distance between segments ab and cd.
func SegmentDistance(a, b, c, d Vec) float64 {
	return xy.DistanceFromLineToLine(a.Coord(), b.Coord(), c.Coord(), d.Coord())
}

// RaySegment intersects the probe segment from o to e with the segment ab.
// It returns the smallest parameter t in [0, 1] along o→e at which the two
// meet. Collinear overlap reports the first overlapping point.
func RaySegment(o, e, a, b Vec) (float64, bool) {
	length := Dist(o, e)
	if length == 0 {
		return 0, false
	}
	d, ok := probeDistance(o.Coord(), e.Coord(), a.Coord(), b.Coord())
	if !ok {
		return 0, false
	}
	return math.Min(d/length, 1), true
}

// probeDistance returns the distance from o to the nearest point shared by
// the segments oe and ab.
func probeDistance(o, e, a, b geom.Coord) (float64, bool) {
	res := lineintersector.LineIntersectsLine(robust, o, e, a, b)
	if !res.HasIntersection() {
		return 0, false
	}
	best := math.Inf(1)
	for _, p := range res.Intersection() {
		best = math.Min(best, xy.Distance(o, p))
	}
	return best, true
}
