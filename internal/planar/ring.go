package planar

import (
	"fmt"
	"math"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// AreaTolerance is the smallest absolute polygon area treated as non-degenerate.
const AreaTolerance = 1e-10

// InvalidGeometryError reports a polygon or line that cannot take part in an
// area or adjacency computation.
type InvalidGeometryError struct {
	Index  int
	Reason string
}

func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("planar: invalid geometry at index %d: %s", e.Index, e.Reason)
}

func ringVertices(lr *geom.LinearRing) []Vec {
	n := lr.NumCoords()
	out := make([]Vec, 0, n)
	for i := 0; i < n; i++ {
		v := V(lr.Coord(i))
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

// LineVertices returns the vertices of ls with consecutive duplicates removed.
func LineVertices(ls *geom.LineString) []Vec {
	if ls == nil {
		return nil
	}
	n := ls.NumCoords()
	out := make([]Vec, 0, n)
	for i := 0; i < n; i++ {
		v := V(ls.Coord(i))
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

// ValidatePolygon checks that p is a usable simple polygon: non-empty, finite
// coordinates, at least three distinct exterior vertices, non-zero area and no
// self-intersecting exterior ring.
func ValidatePolygon(index int, p *geom.Polygon) error {
	if p == nil || p.Empty() || p.NumLinearRings() == 0 {
		return &InvalidGeometryError{Index: index, Reason: "empty polygon"}
	}
	if !finite(p.FlatCoords()) {
		return &InvalidGeometryError{Index: index, Reason: "non-finite coordinate"}
	}
	ext := ringVertices(p.LinearRing(0))
	if len(ext) < 3 {
		return &InvalidGeometryError{Index: index, Reason: "exterior ring has fewer than three distinct vertices"}
	}
	if math.Abs(p.Area()) <= AreaTolerance {
		return &InvalidGeometryError{Index: index, Reason: "zero area"}
	}
	if selfIntersects(ext) {
		return &InvalidGeometryError{Index: index, Reason: "self-intersecting exterior ring"}
	}
	return nil
}

// ValidateLine checks that ls has at least one vertex and finite coordinates.
func ValidateLine(index int, ls *geom.LineString) error {
	if ls == nil || ls.Empty() {
		return &InvalidGeometryError{Index: index, Reason: "empty line"}
	}
	if !finite(ls.FlatCoords()) {
		return &InvalidGeometryError{Index: index, Reason: "non-finite coordinate"}
	}
	return nil
}

func finite(flat []float64) bool {
	for _, f := range flat {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

// selfIntersects reports whether any two non-adjacent edges of the closed
// ring touch or cross.
func selfIntersects(ring []Vec) bool {
	n := len(ring)
	cs := make([]geom.Coord, n)
	for i, v := range ring {
		cs[i] = v.Coord()
	}
	for i := 0; i < n; i++ {
		a, b := cs[i], cs[(i+1)%n]
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue
			}
			if intersects(a, b, cs[j], cs[(j+1)%n]) {
				return true
			}
		}
	}
	return false
}

// PolygonsTouch reports whether the boundaries of a and b share at least one
// point within tol (queen contiguity).
func PolygonsTouch(a, b *geom.Polygon, tol float64) bool {
	return chainsTouch(ringChains(a), ringChains(b), tol)
}

// LinesTouch reports whether two line strings meet within tol.
func LinesTouch(a, b *geom.LineString, tol float64) bool {
	return chainsTouch([][]geom.Coord{a.Coords()}, [][]geom.Coord{b.Coords()}, tol)
}

// ringChains returns every ring of p as a closed coordinate chain.
func ringChains(p *geom.Polygon) [][]geom.Coord {
	if p == nil {
		return nil
	}
	return p.Coords()
}

func chainsTouch(as, bs [][]geom.Coord, tol float64) bool {
	for _, a := range as {
		for _, b := range bs {
			if chainPairTouch(a, b, tol) {
				return true
			}
		}
	}
	return false
}

func chainPairTouch(a, b []geom.Coord, tol float64) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	if len(a) == 1 || len(b) == 1 {
		return pointChainTouch(a, b, tol)
	}
	for i := 0; i+1 < len(a); i++ {
		p, q := a[i], a[i+1]
		for j := 0; j+1 < len(b); j++ {
			r, s := b[j], b[j+1]
			if !boxesNear(p, q, r, s, tol) {
				continue
			}
			if xy.DistanceFromLineToLine(p, q, r, s) <= tol {
				return true
			}
		}
	}
	return false
}

func pointChainTouch(a, b []geom.Coord, tol float64) bool {
	if len(a) != 1 {
		a, b = b, a
	}
	p := a[0]
	if len(b) == 1 {
		return xy.Distance(p, b[0]) <= tol
	}
	for j := 0; j+1 < len(b); j++ {
		if xy.DistanceFromPointToLine(p, b[j], b[j+1]) <= tol {
			return true
		}
	}
	return false
}

func boxesNear(p, q, r, s geom.Coord, tol float64) bool {
	return math.Min(p[0], q[0])-tol <= math.Max(r[0], s[0]) &&
		math.Min(r[0], s[0])-tol <= math.Max(p[0], q[0]) &&
		math.Min(p[1], q[1])-tol <= math.Max(r[1], s[1]) &&
		math.Min(r[1], s[1])-tol <= math.Max(p[1], q[1])
}

// ProbeHit returns the distance from o to the nearest point where the probe
// o→e meets any ring of p.
func ProbeHit(o, e Vec, p *geom.Polygon) (float64, bool) {
	if o == e {
		return 0, false
	}
	oc, ec := o.Coord(), e.Coord()
	best := math.Inf(1)
	for _, ring := range ringChains(p) {
		for i := 0; i+1 < len(ring); i++ {
			if d, ok := probeDistance(oc, ec, ring[i], ring[i+1]); ok && d < best {
				best = d
			}
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// ExteriorArea returns the area enclosed by the exterior ring of p, ignoring
// any holes.
func ExteriorArea(p *geom.Polygon) float64 {
	if p == nil || p.NumLinearRings() == 0 {
		return 0
	}
	flat := p.LinearRing(0).FlatCoords()
	return geom.NewPolygonFlat(p.Layout(), flat, []int{len(flat)}).Area()
}
