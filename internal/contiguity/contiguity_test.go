package contiguity

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/planar"
	"github.com/sells-group/urbanform/internal/synth"
)

func TestQueen_Grid(t *testing.T) {
	g, err := Queen(context.Background(), synth.Grid(3, 3, 10))
	require.NoError(t, err)

	require.Equal(t, 9, g.Len())
	assert.Equal(t, []int{1, 3, 4}, g.Neighbors(0), "corner sees edge and diagonal cells")
	assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, g.Neighbors(4), "centre sees everything")
	assert.Equal(t, []int{0, 2, 3, 4, 5}, g.Neighbors(1))
	assert.Equal(t, 20, g.Edges())
	assert.Empty(t, g.Isolated())

	// IDs come from the layer.
	assert.True(t, g.HasIDs())
	ids, err := g.NeighborIDs(1)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 4, 5}, ids)
}

func TestQueen_SymmetricNoSelf(t *testing.T) {
	g, err := Queen(context.Background(), synth.Grid(5, 7, 3), WithWorkers(3))
	require.NoError(t, err)
	for i := 0; i < g.Len(); i++ {
		for _, j := range g.Neighbors(i) {
			assert.NotEqual(t, i, j)
			assert.Contains(t, g.Neighbors(j), i)
		}
	}
}

func TestQueen_IsolatedAndGaps(t *testing.T) {
	polys := layer.NewPolygons([]*geom.Polygon{
		synth.Square(0, 0, 1),
		synth.Square(1, 1, 1), // corner contact with 0
		synth.Square(5, 5, 1), // isolated
		synth.Square(2.5, 1, 1),
	})
	g, err := Queen(context.Background(), polys)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, g.Neighbors(0))
	assert.Equal(t, []int{2, 3}, g.Isolated())
	assert.False(t, g.HasIDs())

	// A generous tolerance closes the 0.5 gap between 1 and 3.
	g, err = Queen(context.Background(), polys, WithTolerance(0.5))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, g.Neighbors(1))
}

func TestQueen_InvalidGeometry(t *testing.T) {
	polys := layer.NewPolygons([]*geom.Polygon{
		synth.Square(0, 0, 1),
		geom.NewPolygon(geom.XY),
	})
	_, err := Queen(context.Background(), polys)
	var ige *planar.InvalidGeometryError
	require.True(t, errors.As(err, &ige))
	assert.Equal(t, 1, ige.Index)

	polys = layer.NewPolygons([]*geom.Polygon{
		synth.Square(0, 0, 1),
		synth.Square(1, 0, 1),
		synth.Rect(2, 0, 3, math.Inf(1)),
	})
	_, err = Queen(context.Background(), polys)
	require.True(t, errors.As(err, &ige))
	assert.Equal(t, 2, ige.Index)
	assert.Equal(t, "non-finite coordinate", ige.Reason)
}

func TestQueen_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Queen(ctx, synth.Grid(4, 4, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQueenLines(t *testing.T) {
	g, err := QueenLines(context.Background(), synth.Streets(2, 3, 20))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, g.Neighbors(0))
	assert.Equal(t, []int{0}, g.Neighbors(1))
	assert.Equal(t, []int{0}, g.Neighbors(2))
}

func TestHigher_OrderOneIsAdjacency(t *testing.T) {
	g, err := Queen(context.Background(), synth.Grid(4, 4, 1))
	require.NoError(t, err)
	for _, lower := range []bool{true, false} {
		h, err := Higher(context.Background(), g, 1, lower)
		require.NoError(t, err)
		for i := 0; i < g.Len(); i++ {
			assert.Equal(t, g.Neighbors(i), h.Neighbors(i))
		}
	}
}

func TestHigher_Grid(t *testing.T) {
	ctx := context.Background()
	g, err := Queen(ctx, synth.Grid(3, 3, 10))
	require.NoError(t, err)

	h, err := Higher(ctx, g, 2, true)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, h.Neighbors(0))

	exact, err := Higher(ctx, g, 2, false)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 5, 6, 7, 8}, exact.Neighbors(0))
	assert.Empty(t, exact.Neighbors(4), "nothing is two hops from the centre")

	// Identifiers survive expansion.
	ids, err := h.NeighborIDs(5)
	require.NoError(t, err)
	assert.Len(t, ids, 8)
}

func TestHigher_Monotonic(t *testing.T) {
	ctx := context.Background()
	g, err := Queen(ctx, synth.Grid(6, 6, 1))
	require.NoError(t, err)

	prev := g
	for k := 2; k <= 6; k++ {
		h, err := Higher(ctx, g, k, true, WithWorkers(2))
		require.NoError(t, err)
		for i := 0; i < g.Len(); i++ {
			assert.Subset(t, h.Neighbors(i), prev.Neighbors(i), "k=%d unit=%d", k, i)
			assert.NotContains(t, h.Neighbors(i), i)
		}
		prev = h
	}
	// The component (36 cells) is exhausted at order 5.
	assert.Len(t, prev.Neighbors(0), 35)
}

func TestHigher_IsolatedStaysEmpty(t *testing.T) {
	g, err := New([][]int{{1}, {0}, {}}, nil)
	require.NoError(t, err)
	for k := 1; k <= 3; k++ {
		nb, err := g.Expand(2, k, true)
		require.NoError(t, err)
		assert.Empty(t, nb)
	}
}

func TestHigher_InvalidOrder(t *testing.T) {
	g, err := New([][]int{{}}, nil)
	require.NoError(t, err)
	_, err = Higher(context.Background(), g, 0, true)
	assert.True(t, eris.Is(err, ErrInvalidOrder))
	_, err = g.Expand(0, 0, true)
	assert.True(t, eris.Is(err, ErrInvalidOrder))
}

func TestNew_Validation(t *testing.T) {
	_, err := New([][]int{{1}, {}}, nil)
	assert.True(t, eris.Is(err, ErrAsymmetric))

	_, err = New([][]int{{0}}, nil)
	assert.True(t, eris.Is(err, ErrSelfLoop))

	_, err = New([][]int{{3}}, nil)
	assert.True(t, eris.Is(err, ErrVertexRange))

	_, err = New([][]int{{1}, {0}}, []int64{7, 7})
	assert.True(t, eris.Is(err, ErrDuplicateID))

	g, err := New([][]int{{1, 1, 2}, {0}, {0}}, []int64{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, g.Neighbors(0))
	i, ok := g.Index(30)
	assert.True(t, ok)
	assert.Equal(t, 2, i)
}

func TestComponents(t *testing.T) {
	g, err := New([][]int{{1}, {0}, {}, {4}, {3}}, nil)
	require.NoError(t, err)
	labels, count := g.Components()
	assert.Equal(t, 3, count)
	assert.Equal(t, []int{0, 0, 1, 2, 2}, labels)
}
