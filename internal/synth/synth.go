// Package synth generates regular synthetic layers (tessellation grids,
// building blocks, street grids) whose morphometrics can be derived by hand.
// The CLI runs its analyses on them and the tests use them as fixtures.
package synth

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/urbanform/internal/layer"
)

// HeightColumn is the name of the building height column.
const HeightColumn = "height"

// Square returns the axis-aligned square with lower-left corner (x0, y0).
func Square(x0, y0, side float64) *geom.Polygon {
	return Rect(x0, y0, x0+side, y0+side)
}

// Rect returns the axis-aligned rectangle spanning (x0, y0)-(x1, y1),
// counter-clockwise.
func Rect(x0, y0, x1, y1 float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0},
	}})
}

// Line returns a line string through pts given as x, y pairs.
func Line(xy ...float64) *geom.LineString {
	return geom.NewLineStringFlat(geom.XY, append([]float64(nil), xy...))
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	if n > 1 {
		out[n-1] = hi
	}
	return out
}

// IDs returns the identifiers 1..n.
func IDs(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i + 1)
	}
	return out
}

// Grid returns a rows×cols tessellation of square cells of side cell, in
// row-major order from the origin, with IDs 1..rows*cols. Neighbouring cells
// share edges and corners exactly.
func Grid(rows, cols int, cell float64) *layer.Polygons {
	geoms := make([]*geom.Polygon, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			geoms = append(geoms, Square(float64(c)*cell, float64(r)*cell, cell))
		}
	}
	p := layer.NewPolygons(geoms)
	_ = p.SetIDs(IDs(len(geoms)))
	return p
}

// Buildings returns one square footprint centred in every grid cell, inset
// by gap/2 on each side, with IDs matching Grid and a height column spaced
// linearly from 10 to 30. A zero gap yields footprints identical to the cells.
func Buildings(rows, cols int, cell, gap float64) *layer.Polygons {
	side := cell - gap
	geoms := make([]*geom.Polygon, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			geoms = append(geoms, Square(float64(c)*cell+gap/2, float64(r)*cell+gap/2, side))
		}
	}
	p := layer.NewPolygons(geoms)
	_ = p.SetIDs(IDs(len(geoms)))
	_ = p.SetColumn(HeightColumn, Linspace(10, 30, len(geoms)))
	return p
}

// Streets returns centerlines along the interior grid lines: horizontal
// streets first (bottom to top), then vertical streets (left to right). Each
// spans the full extent of the grid.
func Streets(rows, cols int, cell float64) *layer.Lines {
	width := float64(cols) * cell
	height := float64(rows) * cell
	var geoms []*geom.LineString
	for r := 1; r < rows; r++ {
		y := float64(r) * cell
		geoms = append(geoms, Line(0, y, width, y))
	}
	for c := 1; c < cols; c++ {
		x := float64(c) * cell
		geoms = append(geoms, Line(x, 0, x, height))
	}
	l := layer.NewLines(geoms)
	_ = l.SetIDs(IDs(len(geoms)))
	return l
}
