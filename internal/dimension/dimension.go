// Package dimension computes per-building dimensional characters from
// footprint geometry and attribute columns.
package dimension

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"

	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/planar"
)

// DefaultStoreyHeight is the storey height FloorArea divides heights by.
const DefaultStoreyHeight = 3.0

// Column names written by Measure.
const (
	ColArea          = "area"
	ColPerimeter     = "perimeter"
	ColVolume        = "volume"
	ColFloorArea     = "floor_area"
	ColCourtyardArea = "courtyard_area"
	ColLongestAxis   = "longest_axis_length"
)

// Area returns the footprint area of every polygon, holes excluded.
func Area(polys *layer.Polygons) []float64 { return polys.Areas() }

// Perimeter returns the boundary length of every polygon, holes included.
func Perimeter(polys *layer.Polygons) []float64 { return polys.Perimeters() }

func areasOf(polys *layer.Polygons, areas layer.Field) ([]float64, error) {
	a, err := layer.ResolveOr(areas, polys.Table, polys.Areas)
	if err != nil {
		return nil, eris.Wrapf(err, "dimension: resolve areas %s", areas)
	}
	return a, nil
}

func heightsOf(polys *layer.Polygons, heights layer.Field) ([]float64, error) {
	if heights == nil {
		return nil, eris.New("dimension: heights are required")
	}
	h, err := heights.Resolve(polys.Table)
	if err != nil {
		return nil, eris.Wrapf(err, "dimension: resolve heights %s", heights)
	}
	return h, nil
}

// Volume returns area × height for every building. A nil areas field means
// footprint areas.
func Volume(polys *layer.Polygons, heights, areas layer.Field) ([]float64, error) {
	h, err := heightsOf(polys, heights)
	if err != nil {
		return nil, err
	}
	a, err := areasOf(polys, areas)
	if err != nil {
		return nil, err
	}
	return lo.Map(a, func(x float64, i int) float64 { return x * h[i] }), nil
}

// FloorArea returns area × floor(height / storeyHeight) for every building.
// A non-positive storeyHeight means DefaultStoreyHeight.
func FloorArea(polys *layer.Polygons, heights, areas layer.Field, storeyHeight float64) ([]float64, error) {
	if storeyHeight <= 0 {
		storeyHeight = DefaultStoreyHeight
	}
	h, err := heightsOf(polys, heights)
	if err != nil {
		return nil, err
	}
	a, err := areasOf(polys, areas)
	if err != nil {
		return nil, err
	}
	return lo.Map(a, func(x float64, i int) float64 { return x * math.Floor(h[i]/storeyHeight) }), nil
}

// CourtyardArea returns the area enclosed by interior rings: the area of the
// exterior ring alone minus the polygon area.
func CourtyardArea(polys *layer.Polygons, areas layer.Field) ([]float64, error) {
	a, err := areasOf(polys, areas)
	if err != nil {
		return nil, err
	}
	return lo.Map(polys.Geoms, func(p *geom.Polygon, i int) float64 {
		return planar.ExteriorArea(p) - a[i]
	}), nil
}

// LongestAxisLength returns the diameter of the smallest circle enclosing
// each polygon's convex hull.
func LongestAxisLength(polys *layer.Polygons) []float64 {
	return lo.Map(polys.Geoms, func(p *geom.Polygon, _ int) float64 {
		hull := xy.ConvexHull(p)
		if hull == nil {
			return 0
		}
		return 2 * planar.EnclosingCircle(flatVecs(hull.FlatCoords(), hull.Stride())).R
	})
}

func flatVecs(flat []float64, stride int) []planar.Vec {
	if stride < 2 {
		return nil
	}
	out := make([]planar.Vec, 0, len(flat)/stride)
	for i := 0; i+1 < len(flat); i += stride {
		out = append(out, planar.Vec{X: flat[i], Y: flat[i+1]})
	}
	return out
}

// Measure computes every dimensional character and stores them as the Col*
// columns of polys. Nothing is written unless every character succeeds.
func Measure(polys *layer.Polygons, heights layer.Field, storeyHeight float64) error {
	cols := map[string][]float64{
		ColArea:        Area(polys),
		ColPerimeter:   Perimeter(polys),
		ColLongestAxis: LongestAxisLength(polys),
	}
	var err error
	if cols[ColVolume], err = Volume(polys, heights, nil); err != nil {
		return err
	}
	if cols[ColFloorArea], err = FloorArea(polys, heights, nil, storeyHeight); err != nil {
		return err
	}
	if cols[ColCourtyardArea], err = CourtyardArea(polys, nil); err != nil {
		return err
	}
	for name, v := range cols {
		if err := polys.SetColumn(name, v); err != nil {
			return err
		}
	}
	return nil
}
