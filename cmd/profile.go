package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/urbanform/internal/config"
	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/streetprofile"
	"github.com/sells-group/urbanform/internal/synth"
)

var (
	profileDistance   float64
	profileTickLength float64
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Measure street profiles of a synthetic street grid",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cmd.Flags().Changed("distance") {
			cfg.Profile.Distance = profileDistance
		}
		if cmd.Flags().Changed("tick-length") {
			cfg.Profile.TickLength = profileTickLength
		}
		if err := applySynthFlags(cmd, cfg, "profile"); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return runProfile(ctx, cmd.OutOrStdout(), cfg, limit)
	},
}

func init() {
	profileCmd.Flags().Float64Var(&profileDistance, "distance", 0, "distance between ticks (default from config)")
	profileCmd.Flags().Float64Var(&profileTickLength, "tick-length", 0, "total probe span across the street (default from config)")
	addSynthFlags(profileCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfile(ctx context.Context, out io.Writer, c *config.Config, limit int) error {
	s := c.Synth
	streets := synth.Streets(s.Rows, s.Cols, s.Cell)
	buildings := synth.Buildings(s.Rows, s.Cols, s.Cell, s.Gap)

	profiles, err := streetprofile.Analyze(ctx, streets, buildings,
		streetprofile.WithDistance(c.Profile.Distance),
		streetprofile.WithTickLength(c.Profile.TickLength),
		streetprofile.WithHeights(layer.Column(synth.HeightColumn)),
		streetprofile.WithWorkers(c.Profile.Workers),
	)
	if err != nil {
		return err
	}
	if err := streetprofile.Apply(streets.Table, profiles); err != nil {
		return err
	}
	return formatColumns(out, streets.Table, []string{
		streetprofile.ColWidth,
		streetprofile.ColWidthDeviation,
		streetprofile.ColOpenness,
		streetprofile.ColHeight,
		streetprofile.ColHeightDeviation,
		streetprofile.ColProfile,
	}, limit)
}
