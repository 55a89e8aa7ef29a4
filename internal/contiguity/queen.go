package contiguity

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/parallel"
	"github.com/sells-group/urbanform/internal/planar"
	"github.com/sells-group/urbanform/internal/sindex"
)

// DefaultTolerance is the snap distance under which two boundaries count as
// touching.
const DefaultTolerance = 1e-9

// Option configures graph construction and expansion.
type Option func(*options)

type options struct {
	tolerance float64
	workers   int
}

func defaultOptions() options {
	return options{tolerance: DefaultTolerance}
}

// WithTolerance sets the boundary snap distance.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol >= 0 {
			o.tolerance = tol
		}
	}
}

// WithWorkers sets the number of goroutines; zero means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// Queen builds the first-order queen contiguity graph of a polygon layer:
// two units are neighbours when their boundaries share at least one point.
// Vertex IDs are taken from the layer's identifier column when present.
func Queen(ctx context.Context, polys *layer.Polygons, opts ...Option) (*Graph, error) {
	if err := polys.Validate(); err != nil {
		return nil, eris.Wrap(err, "contiguity: queen")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	touch := func(i, j int) bool {
		return planar.PolygonsTouch(polys.Geoms[i], polys.Geoms[j], o.tolerance)
	}
	return build(ctx, "contiguity.queen", polys.Boxes(), polys.IDs(), touch, o)
}

// QueenLines builds the first-order contiguity graph of a line layer: two
// lines are neighbours when they meet or cross.
func QueenLines(ctx context.Context, lines *layer.Lines, opts ...Option) (*Graph, error) {
	if err := lines.Validate(); err != nil {
		return nil, eris.Wrap(err, "contiguity: queen lines")
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	touch := func(i, j int) bool {
		return planar.LinesTouch(lines.Geoms[i], lines.Geoms[j], o.tolerance)
	}
	return build(ctx, "contiguity.queen_lines", lines.Boxes(), lines.IDs(), touch, o)
}

// build tests every R-tree candidate pair (i, j) with i < j and assembles the
// symmetric adjacency.
func build(ctx context.Context, component string, boxes []sindex.Box, ids []int64, touch func(i, j int) bool, o options) (*Graph, error) {
	log := zap.L().With(zap.String("component", component))
	start := time.Now()

	idx, err := sindex.New(boxes, o.tolerance)
	if err != nil {
		return nil, eris.Wrap(err, "contiguity: build index")
	}

	n := len(boxes)
	upper := make([][]int, n)
	err = parallel.Range(ctx, n, o.workers, func(i int) error {
		cands, err := idx.Search(boxes[i])
		if err != nil {
			return err
		}
		for _, j := range cands {
			if j > i && touch(i, j) {
				upper[i] = append(upper[i], j)
			}
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "contiguity: test candidates")
	}

	adj := make([][]int, n)
	for i, js := range upper {
		for _, j := range js {
			adj[i] = append(adj[i], j)
			adj[j] = append(adj[j], i)
		}
	}
	for i := range adj {
		adj[i] = sortedUnique(adj[i])
	}

	g, err := newGraph(adj, ids)
	if err != nil {
		return nil, err
	}
	if iso := g.Isolated(); len(iso) > 0 {
		log.Warn("contiguity: isolated units", zap.Int("count", len(iso)))
	}
	log.Debug("contiguity: graph built",
		zap.Int("units", n),
		zap.Int("edges", g.Edges()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return g, nil
}
