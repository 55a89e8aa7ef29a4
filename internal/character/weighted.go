package character

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"github.com/sells-group/urbanform/internal/contiguity"
	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/parallel"
)

// Weighted computes, for every unit, the mean of values over its
// neighbourhood weighted by weights: Σ v·w / Σ w. Members whose value or
// weight is NaN or infinite are skipped, as in Average. A unit with no
// neighbours returns its own value; a neighbourhood whose usable weights sum
// to zero yields NaN.
func Weighted(ctx context.Context, t *layer.Table, values, weights layer.Field, g *contiguity.Graph, opts ...Option) ([]float64, error) {
	vals, err := values.Resolve(t)
	if err != nil {
		return nil, eris.Wrapf(err, "character: resolve %s", values)
	}
	ws, err := weights.Resolve(t)
	if err != nil {
		return nil, eris.Wrapf(err, "character: resolve %s", weights)
	}
	a, err := align(t, g)
	if err != nil {
		return nil, err
	}
	o := apply(opts)

	out := make([]float64, t.Len())
	err = parallel.Range(ctx, g.Len(), o.workers, func(v int) error {
		self := a.row(v)
		if g.Degree(v) == 0 {
			out[self] = vals[self]
			return nil
		}
		var rows [16]int
		var num, den float64
		for _, row := range a.members(g, v, o.self, rows[:0]) {
			if !finite(vals[row]) || !finite(ws[row]) {
				continue
			}
			num += vals[row] * ws[row]
			den += ws[row]
		}
		if den == 0 {
			out[self] = math.NaN()
			return nil
		}
		out[self] = num / den
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "character: weighted")
	}
	return out, nil
}

// WeightSums returns the denominator Weighted uses for every unit: the sum
// of weights over the unit's neighbourhood.
func WeightSums(ctx context.Context, t *layer.Table, weights layer.Field, g *contiguity.Graph, opts ...Option) ([]float64, error) {
	ws, err := weights.Resolve(t)
	if err != nil {
		return nil, eris.Wrapf(err, "character: resolve %s", weights)
	}
	return sumOver(ctx, t, ws, g, apply(opts))
}

// sumOver adds vals over every unit's neighbourhood.
func sumOver(ctx context.Context, t *layer.Table, vals []float64, g *contiguity.Graph, o options) ([]float64, error) {
	a, err := align(t, g)
	if err != nil {
		return nil, err
	}
	out := make([]float64, t.Len())
	err = parallel.Range(ctx, g.Len(), o.workers, func(v int) error {
		var rows [16]int
		var s float64
		for _, row := range a.members(g, v, o.self, rows[:0]) {
			s += vals[row]
		}
		out[a.row(v)] = s
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "character: sum")
	}
	return out, nil
}
