package character

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
)

// ErrInvalidRange is returned for percentile bounds outside 0 ≤ lo ≤ hi ≤ 100.
var ErrInvalidRange = eris.New("character: invalid percentile range")

// UnknownReducerError reports an aggregation mode name that is not recognised.
type UnknownReducerError struct {
	Name string
}

func (e *UnknownReducerError) Error() string {
	return fmt.Sprintf("character: unknown reducer %q", e.Name)
}

// Reducer collapses the values gathered over one unit's neighbourhood into a
// single number. The implementations in this package form a closed set.
type Reducer interface {
	fmt.Stringer
	// reduce receives a scratch slice it may reorder.
	reduce(vals []float64) float64
	validate() error
}

// Mean is the arithmetic mean.
type Mean struct{}

// Median is the 50th percentile with linear interpolation between order
// statistics.
type Median struct{}

// Mode is the value of the most populated histogram bin. With Bins ≤ 0 every
// distinct value is its own bin and the most frequent value is returned.
// Otherwise Bins equal-width bins span [min, max] and the winning bin's
// midpoint is returned. Ties go to the lowest bin.
type Mode struct {
	Bins int
}

// Range is the mean of the values lying between the Lo-th and Hi-th
// percentiles (inclusive). Range{25, 75} is the interquartile mean.
type Range struct {
	Lo, Hi float64
}

func (Mean) String() string   { return "mean" }
func (Median) String() string { return "median" }
func (m Mode) String() string {
	if m.Bins > 0 {
		return fmt.Sprintf("mode:%d", m.Bins)
	}
	return "mode"
}
func (r Range) String() string { return fmt.Sprintf("rng:%g,%g", r.Lo, r.Hi) }

func (Mean) validate() error   { return nil }
func (Median) validate() error { return nil }
func (Mode) validate() error   { return nil }
func (r Range) validate() error {
	if r.Lo < 0 || r.Hi > 100 || r.Lo > r.Hi || math.IsNaN(r.Lo) || math.IsNaN(r.Hi) {
		return eris.Wrapf(ErrInvalidRange, "character: (%g, %g)", r.Lo, r.Hi)
	}
	return nil
}

func (Mean) reduce(vals []float64) float64 { return mean(vals) }

func (Median) reduce(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	pos := 0.5 * float64(len(vals)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return vals[lo] + (vals[hi]-vals[lo])*(pos-float64(lo))
}

func (m Mode) reduce(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	if m.Bins <= 0 {
		best, bestCount := vals[0], 0
		for i := 0; i < len(vals); {
			j := i
			for j < len(vals) && vals[j] == vals[i] {
				j++
			}
			if j-i > bestCount {
				best, bestCount = vals[i], j-i
			}
			i = j
		}
		return best
	}

	lo, hi := vals[0], vals[len(vals)-1]
	if lo == hi {
		return lo
	}
	width := (hi - lo) / float64(m.Bins)
	counts := make([]int, m.Bins)
	for _, v := range vals {
		counts[bin((v-lo)/width, m.Bins)]++
	}
	best := 0
	for b, c := range counts {
		if c > counts[best] {
			best = b
		}
	}
	return lo + (float64(best)+0.5)*width
}

// bin clamps the fractional bin position f into [0, n). NaN lands in bin 0.
func bin(f float64, n int) int {
	switch {
	case f >= float64(n):
		return n - 1
	case f > 0:
		return int(f)
	default:
		return 0
	}
}

func (r Range) reduce(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sort.Float64s(vals)
	return mean(between(vals, nearestPercentile(vals, r.Lo), nearestPercentile(vals, r.Hi)))
}

// between keeps the values within [low, high].
func between(vals []float64, low, high float64) []float64 {
	return lo.Filter(vals, func(v float64, _ int) bool { return v >= low && v <= high })
}

// nearestPercentile picks the order statistic closest to the p-th percentile
// of sorted, rounding half-way ranks to even.
func nearestPercentile(sorted []float64, p float64) float64 {
	rank := p / 100 * float64(len(sorted)-1)
	return sorted[int(math.RoundToEven(rank))]
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return lo.Sum(vals) / float64(len(vals))
}

// ParseReducer maps the textual aggregation modes used by the CLI and config
// onto reducers: "mean", "median", "mode", "mode:<bins>", "iqm" and
// "rng:<lo>,<hi>".
func ParseReducer(s string) (Reducer, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "mean":
		return Mean{}, nil
	case "median":
		return Median{}, nil
	case "mode":
		return Mode{}, nil
	case "iqm":
		return Range{Lo: 25, Hi: 75}, nil
	}

	kind, arg, ok := strings.Cut(name, ":")
	if !ok {
		return nil, &UnknownReducerError{Name: s}
	}
	switch kind {
	case "mode":
		bins, err := strconv.Atoi(arg)
		if err != nil {
			return nil, &UnknownReducerError{Name: s}
		}
		return Mode{Bins: bins}, nil
	case "rng":
		loS, hiS, ok := strings.Cut(arg, ",")
		if !ok {
			return nil, &UnknownReducerError{Name: s}
		}
		loV, err1 := strconv.ParseFloat(strings.TrimSpace(loS), 64)
		hiV, err2 := strconv.ParseFloat(strings.TrimSpace(hiS), 64)
		if err1 != nil || err2 != nil {
			return nil, &UnknownReducerError{Name: s}
		}
		r := Range{Lo: loV, Hi: hiV}
		if err := r.validate(); err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, &UnknownReducerError{Name: s}
}
