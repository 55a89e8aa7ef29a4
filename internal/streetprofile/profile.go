package streetprofile

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/parallel"
	"github.com/sells-group/urbanform/internal/planar"
	"github.com/sells-group/urbanform/internal/sindex"
)

// Defaults for tick spacing and total probe span.
const (
	DefaultDistance   = 10.0
	DefaultTickLength = 50.0
)

// Column names written by Apply.
const (
	ColWidth           = "width"
	ColWidthDeviation  = "width_deviation"
	ColOpenness        = "openness"
	ColHeight          = "height"
	ColHeightDeviation = "height_deviation"
	ColProfile         = "hw_ratio"
)

// Profile holds the canyon statistics of one street segment.
type Profile struct {
	W  float64 // mean street width
	WD float64 // standard deviation of width
	H  float64 // mean height of hit buildings
	HD float64 // standard deviation of height
	P  float64 // height to width ratio
	O  float64 // share of probes that hit nothing
}

// Option configures Analyze.
type Option func(*options)

type options struct {
	distance   float64
	tickLength float64
	heights    layer.Field
	workers    int
}

// WithDistance sets the arc length between ticks. Non-positive values are
// ignored.
func WithDistance(d float64) Option {
	return func(o *options) {
		if d > 0 {
			o.distance = d
		}
	}
}

// WithTickLength sets the total probe span across the street; each side is
// probed for half of it. Non-positive values are ignored.
func WithTickLength(l float64) Option {
	return func(o *options) {
		if l > 0 {
			o.tickLength = l
		}
	}
}

// WithHeights supplies building heights, enabling H, HD and P.
func WithHeights(f layer.Field) Option {
	return func(o *options) { o.heights = f }
}

// WithWorkers sets the number of goroutines; zero means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// analyzer holds the per-run state shared by all segments.
type analyzer struct {
	buildings *layer.Polygons
	index     *sindex.Index
	heights   []float64
	half      float64
	o         options
}

// Analyze computes a Profile for every street in streets against the
// building footprints. The result is indexed by street row.
func Analyze(ctx context.Context, streets *layer.Lines, buildings *layer.Polygons, opts ...Option) ([]Profile, error) {
	o := options{distance: DefaultDistance, tickLength: DefaultTickLength}
	for _, opt := range opts {
		opt(&o)
	}

	var heights []float64
	if o.heights != nil {
		h, err := o.heights.Resolve(buildings.Table)
		if err != nil {
			return nil, eris.Wrapf(err, "streetprofile: resolve heights %s", o.heights)
		}
		heights = h
	}
	if err := streets.Validate(); err != nil {
		return nil, eris.Wrap(err, "streetprofile: streets")
	}
	if err := buildings.Validate(); err != nil {
		return nil, eris.Wrap(err, "streetprofile: buildings")
	}
	idx, err := sindex.New(buildings.Boxes(), 0)
	if err != nil {
		return nil, eris.Wrap(err, "streetprofile: index buildings")
	}

	log := zap.L().With(zap.String("component", "streetprofile"))
	start := time.Now()

	a := &analyzer{buildings: buildings, index: idx, heights: heights, half: o.tickLength / 2, o: o}
	out := make([]Profile, streets.Len())
	err = parallel.Range(ctx, streets.Len(), o.workers, func(i int) error {
		p, err := a.segment(Ticks(streets.Geoms[i], o.distance))
		if err != nil {
			return eris.Wrapf(err, "streetprofile: street %d", i)
		}
		out[i] = p
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "streetprofile: analyze")
	}

	log.Debug("street profiles computed",
		zap.Int("streets", streets.Len()),
		zap.Int("buildings", buildings.Len()),
		zap.Float64("distance", o.distance),
		zap.Float64("tick_length", o.tickLength),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

// hit is the nearest building met by one probe.
type hit struct {
	dist float64
	row  int
}

// probe casts from o along dir for the half span and returns the nearest
// building, lowest row on ties.
func (a *analyzer) probe(o, dir planar.Vec) (hit, bool, error) {
	if dir == (planar.Vec{}) {
		return hit{}, false, nil
	}
	e := o.Add(dir.Scale(a.half))
	rows, err := a.index.Search(sindex.SegmentBox(o.X, o.Y, e.X, e.Y))
	if err != nil {
		return hit{}, false, err
	}
	best, found := hit{dist: math.Inf(1)}, false
	for _, row := range rows {
		d, ok := planar.ProbeHit(o, e, a.buildings.Geoms[row])
		if ok && d < best.dist {
			best, found = hit{dist: d, row: row}, true
		}
	}
	return best, found, nil
}

func (a *analyzer) segment(ticks []Tick) (Profile, error) {
	var widths, heights []float64
	open := 0
	for _, t := range ticks {
		width, hits := 0.0, 0
		for _, dir := range []planar.Vec{t.Normal, t.Normal.Scale(-1)} {
			h, ok, err := a.probe(t.Origin, dir)
			if err != nil {
				return Profile{}, err
			}
			if !ok {
				open++
				width += a.half
				continue
			}
			hits++
			width += h.dist
			if a.heights != nil {
				heights = append(heights, a.heights[h.row])
			}
		}
		if hits > 0 {
			widths = append(widths, width)
		}
	}

	p := Profile{O: float64(open) / float64(2*len(ticks))}
	if len(widths) == 0 {
		p.W, p.WD = a.o.tickLength, 0
	} else {
		p.W, p.WD = meanStd(widths)
	}

	switch {
	case a.heights == nil:
		p.H, p.HD, p.P = math.NaN(), math.NaN(), math.NaN()
	case len(heights) == 0:
		p.H, p.HD, p.P = 0, 0, 0
	default:
		p.H, p.HD = meanStd(heights)
		p.P = p.H / p.W
	}
	return p, nil
}

// meanStd returns the mean and population standard deviation of v.
func meanStd(v []float64) (float64, float64) {
	m := lo.Sum(v) / float64(len(v))
	ss := lo.SumBy(v, func(x float64) float64 { return (x - m) * (x - m) })
	return m, math.Sqrt(ss / float64(len(v)))
}

// Apply writes profiles into t as the Col* columns. t must have one row per
// profile.
func Apply(t *layer.Table, profiles []Profile) error {
	if t.Len() != len(profiles) {
		return eris.Wrapf(layer.ErrLengthMismatch, "streetprofile: %d profiles for %d rows", len(profiles), t.Len())
	}
	cols := map[string]func(Profile) float64{
		ColWidth:           func(p Profile) float64 { return p.W },
		ColWidthDeviation:  func(p Profile) float64 { return p.WD },
		ColOpenness:        func(p Profile) float64 { return p.O },
		ColHeight:          func(p Profile) float64 { return p.H },
		ColHeightDeviation: func(p Profile) float64 { return p.HD },
		ColProfile:         func(p Profile) float64 { return p.P },
	}
	for name, get := range cols {
		if err := t.SetColumn(name, lo.Map(profiles, func(p Profile, _ int) float64 { return get(p) })); err != nil {
			return err
		}
	}
	return nil
}
