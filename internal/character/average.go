package character

import (
	"context"
	"math"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/urbanform/internal/contiguity"
	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/parallel"
)

// Average reduces field over every unit's neighbourhood in g. The result is
// indexed by table row. NaN and infinite inputs are skipped; a
// neighbourhood with no usable values yields NaN.
func Average(ctx context.Context, t *layer.Table, field layer.Field, g *contiguity.Graph, r Reducer, opts ...Option) ([]float64, error) {
	if r == nil {
		return nil, &UnknownReducerError{Name: "<nil>"}
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	vals, err := field.Resolve(t)
	if err != nil {
		return nil, eris.Wrapf(err, "character: resolve %s", field)
	}
	a, err := align(t, g)
	if err != nil {
		return nil, err
	}
	o := apply(opts)
	start := time.Now()

	out := make([]float64, t.Len())
	err = parallel.Range(ctx, g.Len(), o.workers, func(v int) error {
		var rows [16]int
		members := a.members(g, v, o.self, rows[:0])
		gathered := make([]float64, 0, len(members))
		for _, row := range members {
			if x := vals[row]; finite(x) {
				gathered = append(gathered, x)
			}
		}
		out[a.row(v)] = r.reduce(gathered)
		return nil
	})
	if err != nil {
		return nil, eris.Wrap(err, "character: average")
	}

	zap.L().Debug("character: average computed",
		zap.String("component", "character.average"),
		zap.Stringer("reducer", r),
		zap.Stringer("field", field),
		zap.Int("units", g.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return out, nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
