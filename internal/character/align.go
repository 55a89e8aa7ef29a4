// Package character computes neighbourhood statistics of morphological
// characters: reducers over order-k contiguity neighbourhoods, weighted
// means, and the area and perimeter sums over first-order neighbourhoods.
package character

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/urbanform/internal/contiguity"
	"github.com/sells-group/urbanform/internal/layer"
)

// Option configures a neighbourhood computation.
type Option func(*options)

type options struct {
	workers    int
	self       bool
	contiguity []contiguity.Option
}

func defaultOptions() options {
	return options{self: true}
}

func apply(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithWorkers sets the number of goroutines; zero means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithoutSelf excludes each unit's own value from its neighbourhood.
func WithoutSelf() Option {
	return func(o *options) { o.self = false }
}

// WithContiguity passes options to the contiguity graph built when no graph
// is supplied.
func WithContiguity(opts ...contiguity.Option) Option {
	return func(o *options) { o.contiguity = append(o.contiguity, opts...) }
}

// alignment maps graph vertices onto table rows.
type alignment struct {
	rows []int
}

func (a alignment) row(v int) int {
	if a.rows == nil {
		return v
	}
	return a.rows[v]
}

// align pairs g with t. When both carry identifiers, vertices are matched to
// rows by ID; otherwise they are matched by ordinal.
func align(t *layer.Table, g *contiguity.Graph) (alignment, error) {
	if g.Len() != t.Len() {
		return alignment{}, eris.Wrapf(layer.ErrLengthMismatch, "character: graph has %d units, table has %d rows", g.Len(), t.Len())
	}
	if !g.HasIDs() || !t.HasIDs() {
		return alignment{}, nil
	}
	rows := make([]int, g.Len())
	identity := true
	for v := range rows {
		id := g.ID(v)
		r, ok := t.Row(id)
		if !ok {
			return alignment{}, eris.Wrapf(layer.ErrUnknownID, "character: graph id %d", id)
		}
		rows[v] = r
		identity = identity && r == v
	}
	if identity {
		return alignment{}, nil
	}
	return alignment{rows: rows}, nil
}

// members returns the table rows of v's neighbourhood, self first when
// included.
func (a alignment) members(g *contiguity.Graph, v int, self bool, buf []int) []int {
	buf = buf[:0]
	if self {
		buf = append(buf, a.row(v))
	}
	for _, nb := range g.Neighbors(v) {
		buf = append(buf, a.row(nb))
	}
	return buf
}
