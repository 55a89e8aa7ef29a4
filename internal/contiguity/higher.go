package contiguity

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/urbanform/internal/parallel"
)

// walker holds reusable breadth-first search state. depth is -1 for
// unvisited vertices; touched records what must be reset afterwards so a
// search costs O(visited) rather than O(V).
type walker struct {
	depth   []int32
	touched []int
	queue   []int
}

func newWalker(n int) *walker {
	d := make([]int32, n)
	for i := range d {
		d[i] = -1
	}
	return &walker{depth: d}
}

// expand returns the vertices within k hops of src, sorted, excluding src.
// With includeLower false only vertices first reached at exactly depth k are
// kept.
func (w *walker) expand(g *Graph, src, k int, includeLower bool) []int {
	w.visit(src, 0)
	w.queue = append(w.queue[:0], src)
	for head := 0; head < len(w.queue); head++ {
		v := w.queue[head]
		d := w.depth[v]
		if int(d) == k {
			continue
		}
		for _, nb := range g.adj[v] {
			if w.depth[nb] < 0 {
				w.visit(nb, d+1)
				w.queue = append(w.queue, nb)
			}
		}
	}

	out := make([]int, 0, len(w.touched)-1)
	for _, v := range w.touched {
		if v == src {
			continue
		}
		if includeLower || int(w.depth[v]) == k {
			out = append(out, v)
		}
	}
	w.reset()
	return sortedUnique(out)
}

func (w *walker) visit(v int, d int32) {
	w.depth[v] = d
	w.touched = append(w.touched, v)
}

func (w *walker) reset() {
	for _, v := range w.touched {
		w.depth[v] = -1
	}
	w.touched = w.touched[:0]
}

// Expand returns the order-k neighbourhood of vertex u: every vertex reachable
// within k hops (includeLower) or exactly k hops away (!includeLower). u is
// never its own neighbour.
func (g *Graph) Expand(u, k int, includeLower bool) ([]int, error) {
	if k < 1 {
		return nil, eris.Wrapf(ErrInvalidOrder, "contiguity: k=%d", k)
	}
	if u < 0 || u >= g.Len() {
		return nil, eris.Wrapf(ErrVertexRange, "contiguity: vertex %d", u)
	}
	return newWalker(g.Len()).expand(g, u, k, includeLower), nil
}

// Higher realises the order-k neighbourhood graph of g by running a
// depth-limited breadth-first search from every vertex. The result keeps g's
// identifiers and is symmetric: hop distance is symmetric in an undirected
// graph.
func Higher(ctx context.Context, g *Graph, k int, includeLower bool, opts ...Option) (*Graph, error) {
	if k < 1 {
		return nil, eris.Wrapf(ErrInvalidOrder, "contiguity: k=%d", k)
	}
	if k == 1 {
		return g, nil
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	start := time.Now()

	n := g.Len()
	pool := sync.Pool{New: func() any { return newWalker(n) }}
	adj := make([][]int, n)
	err := parallel.Range(ctx, n, o.workers, func(i int) error {
		w := pool.Get().(*walker)
		adj[i] = w.expand(g, i, k, includeLower)
		pool.Put(w)
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "contiguity: expand to order %d", k)
	}

	h := &Graph{adj: adj, ids: g.ids, indexOf: g.indexOf}
	zap.L().Debug("contiguity: higher order built",
		zap.String("component", "contiguity.higher"),
		zap.Int("order", k),
		zap.Bool("include_lower", includeLower),
		zap.Int("edges", h.Edges()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return h, nil
}
