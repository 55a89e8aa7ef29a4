// Package sindex wraps an R-tree over geometry bounding boxes so callers can
// fetch candidate rows for a query box instead of scanning every geometry.
package sindex

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

const (
	minChildren = 25
	maxChildren = 50

	// minExtent keeps degenerate boxes (points, axis-aligned segments)
	// representable; rtreego rejects zero-length sides.
	minExtent = 1e-9
)

// ErrNonFinite reports a box with a NaN or infinite coordinate.
var ErrNonFinite = eris.New("sindex: non-finite box coordinate")

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// BoxOf returns the bounding box of g.
func BoxOf(g geom.T) Box {
	b := g.Bounds()
	return Box{MinX: b.Min(0), MinY: b.Min(1), MaxX: b.Max(0), MaxY: b.Max(1)}
}

// SegmentBox returns the bounding box of the segment (x0, y0)-(x1, y1).
func SegmentBox(x0, y0, x1, y1 float64) Box {
	return Box{
		MinX: math.Min(x0, x1), MinY: math.Min(y0, y1),
		MaxX: math.Max(x0, x1), MaxY: math.Max(y0, y1),
	}
}

// Expand grows b by pad on every side.
func (b Box) Expand(pad float64) Box {
	return Box{MinX: b.MinX - pad, MinY: b.MinY - pad, MaxX: b.MaxX + pad, MaxY: b.MaxY + pad}
}

func (b Box) rect() (rtreego.Rect, error) {
	for _, f := range []float64{b.MinX, b.MinY, b.MaxX, b.MaxY} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return rtreego.Rect{}, eris.Wrapf(ErrNonFinite, "sindex: rect %+v", b)
		}
	}
	w := math.Max(b.MaxX-b.MinX, minExtent)
	h := math.Max(b.MaxY-b.MinY, minExtent)
	r, err := rtreego.NewRect(rtreego.Point{b.MinX, b.MinY}, []float64{w, h})
	if err != nil {
		return rtreego.Rect{}, eris.Wrapf(err, "sindex: rect %+v", b)
	}
	return r, nil
}

type item struct {
	rect rtreego.Rect
	row  int
}

func (it *item) Bounds() rtreego.Rect { return it.rect }

// Index is an immutable R-tree keyed by row ordinal. It is safe for
// concurrent searches once built.
type Index struct {
	tree *rtreego.Rtree
	pad  float64
	size int
}

// New bulk-loads an index over boxes, expanding each by pad so that boxes
// that merely touch are reported as overlapping.
func New(boxes []Box, pad float64) (*Index, error) {
	if pad < minExtent {
		pad = minExtent
	}
	items := make([]rtreego.Spatial, 0, len(boxes))
	for i, b := range boxes {
		r, err := b.Expand(pad).rect()
		if err != nil {
			return nil, err
		}
		items = append(items, &item{rect: r, row: i})
	}
	return &Index{
		tree: rtreego.NewTree(2, minChildren, maxChildren, items...),
		pad:  pad,
		size: len(boxes),
	}, nil
}

// Len returns the number of indexed boxes.
func (x *Index) Len() int { return x.size }

// Search returns the rows whose boxes overlap q, in ascending row order.
func (x *Index) Search(q Box) ([]int, error) {
	r, err := q.Expand(x.pad).rect()
	if err != nil {
		return nil, err
	}
	hits := x.tree.SearchIntersect(r)
	rows := make([]int, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, h.(*item).row)
	}
	sort.Ints(rows)
	return rows, nil
}
