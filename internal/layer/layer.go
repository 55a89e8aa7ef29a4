package layer

import (
	"github.com/twpayne/go-geom"

	"github.com/sells-group/urbanform/internal/planar"
	"github.com/sells-group/urbanform/internal/sindex"
)

// Polygons is a polygon layer (building footprints or tessellation cells).
type Polygons struct {
	*Table
	Geoms []*geom.Polygon
}

// NewPolygons wraps geoms in a layer with an empty attribute table.
func NewPolygons(geoms []*geom.Polygon) *Polygons {
	return &Polygons{Table: NewTable(len(geoms)), Geoms: geoms}
}

// Validate checks every polygon, returning the first *planar.InvalidGeometryError.
func (p *Polygons) Validate() error {
	for i, g := range p.Geoms {
		if err := planar.ValidatePolygon(i, g); err != nil {
			return err
		}
	}
	return nil
}

// Boxes returns the bounding box of every polygon.
func (p *Polygons) Boxes() []sindex.Box {
	out := make([]sindex.Box, len(p.Geoms))
	for i, g := range p.Geoms {
		out[i] = sindex.BoxOf(g)
	}
	return out
}

// Areas returns the area of every polygon.
func (p *Polygons) Areas() []float64 {
	out := make([]float64, len(p.Geoms))
	for i, g := range p.Geoms {
		out[i] = g.Area()
	}
	return out
}

// Perimeters returns the boundary length of every polygon, holes included.
func (p *Polygons) Perimeters() []float64 {
	out := make([]float64, len(p.Geoms))
	for i, g := range p.Geoms {
		out[i] = g.Length()
	}
	return out
}

// Lines is a line layer (street centerlines).
type Lines struct {
	*Table
	Geoms []*geom.LineString
}

// NewLines wraps geoms in a layer with an empty attribute table.
func NewLines(geoms []*geom.LineString) *Lines {
	return &Lines{Table: NewTable(len(geoms)), Geoms: geoms}
}

// Validate checks every line, returning the first *planar.InvalidGeometryError.
func (l *Lines) Validate() error {
	for i, g := range l.Geoms {
		if err := planar.ValidateLine(i, g); err != nil {
			return err
		}
	}
	return nil
}

// Boxes returns the bounding box of every line.
func (l *Lines) Boxes() []sindex.Box {
	out := make([]sindex.Box, len(l.Geoms))
	for i, g := range l.Geoms {
		out[i] = sindex.BoxOf(g)
	}
	return out
}

// Lengths returns the length of every line.
func (l *Lines) Lengths() []float64 {
	out := make([]float64, len(l.Geoms))
	for i, g := range l.Geoms {
		out[i] = g.Length()
	}
	return out
}
