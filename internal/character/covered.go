package character

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sells-group/urbanform/internal/contiguity"
	"github.com/sells-group/urbanform/internal/layer"
)

// CoveredArea sums polygon areas over every unit's first-order neighbourhood
// and itself. A nil graph is replaced by the layer's queen contiguity.
func CoveredArea(ctx context.Context, polys *layer.Polygons, g *contiguity.Graph, opts ...Option) ([]float64, error) {
	o := apply(opts)
	g, err := queenOrGiven(ctx, polys, g, o)
	if err != nil {
		return nil, eris.Wrap(err, "character: covered area")
	}
	return sumOver(ctx, polys.Table, polys.Areas(), g, o)
}

// PerimeterWall sums polygon perimeters over every unit's first-order
// neighbourhood and itself. A nil graph is replaced by the layer's queen
// contiguity.
func PerimeterWall(ctx context.Context, polys *layer.Polygons, g *contiguity.Graph, opts ...Option) ([]float64, error) {
	o := apply(opts)
	g, err := queenOrGiven(ctx, polys, g, o)
	if err != nil {
		return nil, eris.Wrap(err, "character: perimeter wall")
	}
	return sumOver(ctx, polys.Table, polys.Perimeters(), g, o)
}

// SegmentsLength sums street lengths over every segment's first-order
// neighbourhood and itself, or averages them when mean is set. A nil graph is
// replaced by the layer's line contiguity.
func SegmentsLength(ctx context.Context, lines *layer.Lines, g *contiguity.Graph, mean bool, opts ...Option) ([]float64, error) {
	o := apply(opts)
	if g == nil {
		var err error
		g, err = contiguity.QueenLines(ctx, lines, withWorkers(o)...)
		if err != nil {
			return nil, eris.Wrap(err, "character: segments length")
		}
	}
	lengths := lines.Lengths()
	sums, err := sumOver(ctx, lines.Table, lengths, g, o)
	if err != nil || !mean {
		return sums, err
	}
	a, err := align(lines.Table, g)
	if err != nil {
		return nil, err
	}
	for v := 0; v < g.Len(); v++ {
		n := g.Degree(v)
		if o.self {
			n++
		}
		row := a.row(v)
		sums[row] = lo.Ternary(n == 0, 0, sums[row]/float64(n))
	}
	return sums, nil
}

func queenOrGiven(ctx context.Context, polys *layer.Polygons, g *contiguity.Graph, o options) (*contiguity.Graph, error) {
	if g != nil {
		return g, nil
	}
	zap.L().Debug("character: building queen contiguity",
		zap.String("component", "character"),
		zap.Int("units", polys.Len()),
	)
	return contiguity.Queen(ctx, polys, withWorkers(o)...)
}

func withWorkers(o options) []contiguity.Option {
	return append([]contiguity.Option{contiguity.WithWorkers(o.workers)}, o.contiguity...)
}
