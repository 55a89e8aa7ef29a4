package layer

import (
	"errors"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"

	"github.com/sells-group/urbanform/internal/planar"
)

func TestTable_IDs(t *testing.T) {
	tbl := NewTable(3)
	assert.False(t, tbl.HasIDs())
	assert.Equal(t, int64(2), tbl.ID(2))
	row, ok := tbl.Row(1)
	assert.True(t, ok)
	assert.Equal(t, 1, row)
	_, ok = tbl.Row(3)
	assert.False(t, ok)

	require.NoError(t, tbl.SetIDs([]int64{10, 20, 30}))
	assert.True(t, tbl.HasIDs())
	assert.Equal(t, int64(20), tbl.ID(1))
	row, ok = tbl.Row(30)
	assert.True(t, ok)
	assert.Equal(t, 2, row)
	_, ok = tbl.Row(1)
	assert.False(t, ok)
}

func TestTable_SetIDsErrors(t *testing.T) {
	tbl := NewTable(3)
	assert.True(t, eris.Is(tbl.SetIDs([]int64{1, 2}), ErrLengthMismatch))
	assert.True(t, eris.Is(tbl.SetIDs([]int64{1, 2, 1}), ErrDuplicateID))
	assert.False(t, tbl.HasIDs(), "failed SetIDs leaves the table untouched")
}

func TestTable_Columns(t *testing.T) {
	tbl := NewTable(2)
	require.NoError(t, tbl.SetColumn("height", []float64{10, 20}))
	require.NoError(t, tbl.SetColumn("area", []float64{1, 2}))
	assert.Equal(t, []string{"area", "height"}, tbl.Columns())

	assert.True(t, eris.Is(tbl.SetColumn("bad", []float64{1}), ErrLengthMismatch))

	_, err := tbl.Column("nonexistent")
	var mfe *MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "nonexistent", mfe.Field)
}

func TestField_Resolve(t *testing.T) {
	tbl := NewTable(2)
	require.NoError(t, tbl.SetColumn("height", []float64{10, 20}))

	v, err := Column("height").Resolve(tbl)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, v)

	v, err = Values([]float64{3, 4}).Resolve(tbl)
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 4}, v)

	_, err = Values([]float64{3}).Resolve(tbl)
	assert.True(t, eris.Is(err, ErrLengthMismatch))

	_, err = Column("nope").Resolve(tbl)
	var mfe *MissingFieldError
	assert.True(t, errors.As(err, &mfe))

	assert.Equal(t, "height", Column("height").String())
	assert.Equal(t, "values[2]", Values([]float64{1, 2}).String())
}

func TestResolveOr(t *testing.T) {
	tbl := NewTable(1)
	v, err := ResolveOr(nil, tbl, func() []float64 { return []float64{42} })
	require.NoError(t, err)
	assert.Equal(t, []float64{42}, v)
}

func TestPolygons(t *testing.T) {
	sq := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0},
	}})
	p := NewPolygons([]*geom.Polygon{sq})
	require.NoError(t, p.Validate())
	assert.Equal(t, 1, p.Len())
	assert.InDelta(t, 4.0, p.Areas()[0], 1e-12)
	assert.InDelta(t, 8.0, p.Perimeters()[0], 1e-12)
	assert.Equal(t, 2.0, p.Boxes()[0].MaxX)

	bad := NewPolygons([]*geom.Polygon{sq, geom.NewPolygon(geom.XY)})
	var ige *planar.InvalidGeometryError
	require.True(t, errors.As(bad.Validate(), &ige))
	assert.Equal(t, 1, ige.Index)
}

func TestLines(t *testing.T) {
	ls := geom.NewLineString(geom.XY).MustSetCoords([]geom.Coord{{0, 0}, {3, 4}})
	l := NewLines([]*geom.LineString{ls})
	require.NoError(t, l.Validate())
	assert.InDelta(t, 5.0, l.Lengths()[0], 1e-12)
	assert.Equal(t, 4.0, l.Boxes()[0].MaxY)
}
