package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/urbanform/internal/character"
	"github.com/sells-group/urbanform/internal/config"
	"github.com/sells-group/urbanform/internal/contiguity"
	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/synth"
)

// Character kinds accepted by --kind.
const (
	kindAverage        = "average"
	kindWeighted       = "weighted"
	kindCoveredArea    = "covered-area"
	kindPerimeterWall  = "perimeter-wall"
	kindSegmentsLength = "segments-length"
)

var (
	characterKind    string
	characterField   string
	characterReducer string
	characterOrder   int
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Aggregate a building character over tessellation neighbourhoods",
	Long: "Kinds: average (reducer over order-k neighbours), weighted (area-weighted mean), " +
		"covered-area, perimeter-wall and segments-length (sums over first-order neighbours).",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cmd.Flags().Changed("reducer") {
			cfg.Character.Reducer = characterReducer
		}
		if cmd.Flags().Changed("order") {
			cfg.Character.Order = characterOrder
		}
		if err := applySynthFlags(cmd, cfg, "character"); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return runCharacter(ctx, cmd.OutOrStdout(), cfg, characterKind, characterField, limit)
	},
}

func init() {
	characterCmd.Flags().StringVar(&characterKind, "kind", kindAverage, "average, weighted, covered-area, perimeter-wall or segments-length")
	characterCmd.Flags().StringVar(&characterField, "field", "area", "building character to aggregate: area, perimeter or height")
	characterCmd.Flags().StringVar(&characterReducer, "reducer", "", "mean, median, mode, mode:<bins>, iqm or rng:<lo>,<hi> (default from config)")
	characterCmd.Flags().IntVar(&characterOrder, "order", 0, "neighbourhood order for average (default from config)")
	addSynthFlags(characterCmd)
	rootCmd.AddCommand(characterCmd)
}

// reducerFromConfig parses the configured reducer, applying mode_bins to a
// bare "mode".
func reducerFromConfig(c config.CharacterConfig) (character.Reducer, error) {
	r, err := character.ParseReducer(c.Reducer)
	if err != nil {
		return nil, err
	}
	if m, ok := r.(character.Mode); ok && m.Bins <= 0 && c.ModeBins > 0 {
		return character.Mode{Bins: c.ModeBins}, nil
	}
	return r, nil
}

// buildingField resolves a building character by name on the footprints.
func buildingField(buildings *layer.Polygons, name string) ([]float64, error) {
	switch name {
	case "area":
		return buildings.Areas(), nil
	case "perimeter":
		return buildings.Perimeters(), nil
	default:
		return buildings.Column(name)
	}
}

func runCharacter(ctx context.Context, out io.Writer, c *config.Config, kind, field string, limit int) error {
	log := zap.L().With(zap.String("component", "cmd.character"))
	s := c.Synth
	tess := synth.Grid(s.Rows, s.Cols, s.Cell)
	buildings := synth.Buildings(s.Rows, s.Cols, s.Cell, s.Gap)
	opts := []character.Option{
		character.WithWorkers(c.Character.Workers),
		character.WithContiguity(contiguity.WithTolerance(c.Contiguity.Tolerance)),
	}

	var (
		values []float64
		target = tess.Table
		err    error
	)
	switch kind {
	case kindAverage, kindWeighted:
		vals, ferr := buildingField(buildings, field)
		if ferr != nil {
			return eris.Wrapf(ferr, "character: field %s", field)
		}
		order := c.Character.Order
		if kind == kindWeighted {
			order = 1
		}
		g, gerr := contiguityGraph(ctx, c, order, c.Character.IncludeLower)
		if gerr != nil {
			return gerr
		}
		if kind == kindAverage {
			r, rerr := reducerFromConfig(c.Character)
			if rerr != nil {
				return rerr
			}
			log.Info("aggregating", zap.String("field", field), zap.Stringer("reducer", r), zap.Int("order", order))
			values, err = character.Average(ctx, tess.Table, layer.Values(vals), g, r, opts...)
		} else {
			values, err = character.Weighted(ctx, tess.Table, layer.Values(vals), layer.Values(tess.Areas()), g, opts...)
		}
	case kindCoveredArea:
		values, err = character.CoveredArea(ctx, tess, nil, opts...)
	case kindPerimeterWall:
		target = buildings.Table
		values, err = character.PerimeterWall(ctx, synth.Buildings(s.Rows, s.Cols, s.Cell, 0), nil, opts...)
	case kindSegmentsLength:
		streets := synth.Streets(s.Rows, s.Cols, s.Cell)
		target = streets.Table
		values, err = character.SegmentsLength(ctx, streets, nil, false, opts...)
	default:
		return eris.Errorf("character: unknown kind %q", kind)
	}
	if err != nil {
		return err
	}

	if err := target.SetColumn(kind, values); err != nil {
		return err
	}
	return formatColumns(out, target, []string{kind}, limit)
}
