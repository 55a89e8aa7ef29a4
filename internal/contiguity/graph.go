// Package contiguity builds spatial contiguity graphs over geometry layers
// and expands them to higher-order neighbourhoods.
//
// Vertices are dense ordinals into the layer they were built from. An
// optional identifier column maps external unique IDs to ordinals once, at
// construction, so traversals never hash user keys.
package contiguity

import (
	"sort"

	"github.com/rotisserie/eris"
)

var (
	// ErrInvalidOrder is returned for a neighbourhood order below one.
	ErrInvalidOrder = eris.New("contiguity: order must be at least 1")
	// ErrAsymmetric is returned when an adjacency list is not symmetric.
	ErrAsymmetric = eris.New("contiguity: adjacency is not symmetric")
	// ErrSelfLoop is returned when a vertex lists itself as a neighbour.
	ErrSelfLoop = eris.New("contiguity: self loop")
	// ErrVertexRange is returned for neighbour indices outside the graph.
	ErrVertexRange = eris.New("contiguity: neighbour index out of range")
	// ErrDuplicateID is returned when vertex identifiers repeat.
	ErrDuplicateID = eris.New("contiguity: duplicate vertex id")
)

// Graph is an immutable undirected neighbourhood graph. The first-order
// contiguity graph and every higher-order expansion share this type.
type Graph struct {
	adj     [][]int
	ids     []int64
	indexOf map[int64]int
}

// New builds a graph from an explicit adjacency list. Neighbour lists are
// copied, sorted and de-duplicated. ids may be nil, in which case vertex
// identifiers are ordinals. The adjacency must be symmetric and loop-free.
func New(adj [][]int, ids []int64) (*Graph, error) {
	n := len(adj)
	clean := make([][]int, n)
	for i, nbrs := range adj {
		set := make([]int, 0, len(nbrs))
		for _, j := range nbrs {
			if j < 0 || j >= n {
				return nil, eris.Wrapf(ErrVertexRange, "contiguity: vertex %d lists %d", i, j)
			}
			if j == i {
				return nil, eris.Wrapf(ErrSelfLoop, "contiguity: vertex %d", i)
			}
			set = append(set, j)
		}
		clean[i] = sortedUnique(set)
	}
	for i, nbrs := range clean {
		for _, j := range nbrs {
			if !contains(clean[j], i) {
				return nil, eris.Wrapf(ErrAsymmetric, "contiguity: %d→%d has no reverse edge", i, j)
			}
		}
	}
	return newGraph(clean, ids)
}

func newGraph(adj [][]int, ids []int64) (*Graph, error) {
	g := &Graph{adj: adj}
	if ids == nil {
		return g, nil
	}
	if len(ids) != len(adj) {
		return nil, eris.Errorf("contiguity: %d ids for %d vertices", len(ids), len(adj))
	}
	g.ids = append([]int64(nil), ids...)
	g.indexOf = make(map[int64]int, len(ids))
	for i, id := range ids {
		if _, ok := g.indexOf[id]; ok {
			return nil, eris.Wrapf(ErrDuplicateID, "contiguity: id %d", id)
		}
		g.indexOf[id] = i
	}
	return g, nil
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.adj) }

// Neighbors returns the sorted neighbour ordinals of vertex i. The slice is
// shared and must not be modified.
func (g *Graph) Neighbors(i int) []int { return g.adj[i] }

// Degree returns the number of neighbours of vertex i.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// HasIDs reports whether vertices carry external identifiers.
func (g *Graph) HasIDs() bool { return g.ids != nil }

// ID returns the identifier of vertex i (its ordinal when no IDs are set).
func (g *Graph) ID(i int) int64 {
	if g.ids == nil {
		return int64(i)
	}
	return g.ids[i]
}

// Index resolves an identifier to a vertex ordinal.
func (g *Graph) Index(id int64) (int, bool) {
	if g.ids == nil {
		if id < 0 || id >= int64(len(g.adj)) {
			return 0, false
		}
		return int(id), true
	}
	i, ok := g.indexOf[id]
	return i, ok
}

// NeighborIDs returns the identifiers of the neighbours of the vertex with id.
func (g *Graph) NeighborIDs(id int64) ([]int64, error) {
	i, ok := g.Index(id)
	if !ok {
		return nil, eris.Errorf("contiguity: unknown vertex id %d", id)
	}
	out := make([]int64, len(g.adj[i]))
	for k, j := range g.adj[i] {
		out[k] = g.ID(j)
	}
	return out, nil
}

// Edges returns the number of undirected edges.
func (g *Graph) Edges() int {
	var n int
	for _, nbrs := range g.adj {
		n += len(nbrs)
	}
	return n / 2
}

// Isolated returns the ordinals of vertices without neighbours.
func (g *Graph) Isolated() []int {
	var out []int
	for i, nbrs := range g.adj {
		if len(nbrs) == 0 {
			out = append(out, i)
		}
	}
	return out
}

// Components labels every vertex with its connected component. Labels are
// assigned in order of each component's lowest vertex, starting at zero.
func (g *Graph) Components() (labels []int, count int) {
	labels = make([]int, len(g.adj))
	for i := range labels {
		labels[i] = -1
	}
	queue := make([]int, 0, len(g.adj))
	for s := range g.adj {
		if labels[s] >= 0 {
			continue
		}
		labels[s] = count
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range g.adj[v] {
				if labels[w] < 0 {
					labels[w] = count
					queue = append(queue, w)
				}
			}
		}
		count++
	}
	return labels, count
}

func sortedUnique(s []int) []int {
	sort.Ints(s)
	out := s[:0]
	for _, v := range s {
		if len(out) > 0 && out[len(out)-1] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

func contains(sorted []int, v int) bool {
	i := sort.SearchInts(sorted, v)
	return i < len(sorted) && sorted[i] == v
}
