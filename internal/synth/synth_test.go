package synth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	assert.Equal(t, []float64{10, 14, 18, 22, 26, 30}, Linspace(10, 30, 6))
	assert.Equal(t, []float64{5}, Linspace(5, 9, 1))
	assert.Empty(t, Linspace(0, 1, 0))

	v := Linspace(10, 30, 144)
	assert.Equal(t, 10.0, v[0])
	assert.Equal(t, 30.0, v[143])
}

func TestGrid(t *testing.T) {
	g := Grid(2, 3, 10)
	require.Equal(t, 6, g.Len())
	require.NoError(t, g.Validate())
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6}, g.IDs())
	for _, a := range g.Areas() {
		assert.InDelta(t, 100.0, a, 1e-9)
	}
	// Row-major: ordinal 4 is row 1, column 1.
	b := g.Boxes()[4]
	assert.Equal(t, 10.0, b.MinX)
	assert.Equal(t, 10.0, b.MinY)
}

func TestBuildings(t *testing.T) {
	b := Buildings(2, 3, 20, 10)
	require.NoError(t, b.Validate())
	h, err := b.Column(HeightColumn)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 14, 18, 22, 26, 30}, h)
	assert.InDelta(t, 100.0, b.Areas()[0], 1e-9)
	assert.Equal(t, 5.0, b.Boxes()[0].MinX)
	assert.Equal(t, 15.0, b.Boxes()[0].MaxX)
}

func TestStreets(t *testing.T) {
	s := Streets(2, 3, 20)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, []float64{60, 40, 40}, s.Lengths())
}
