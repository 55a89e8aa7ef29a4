package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/sells-group/urbanform/internal/config"
	"github.com/sells-group/urbanform/internal/dimension"
	"github.com/sells-group/urbanform/internal/layer"
	"github.com/sells-group/urbanform/internal/synth"
)

var dimensionsHeightField string

var dimensionsCmd = &cobra.Command{
	Use:   "dimensions",
	Short: "Compute dimensional characters of synthetic buildings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := applySynthFlags(cmd, cfg, "dimensions"); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return runDimensions(cmd.OutOrStdout(), cfg, dimensionsHeightField, limit)
	},
}

func init() {
	dimensionsCmd.Flags().StringVar(&dimensionsHeightField, "height-field", synth.HeightColumn, "building height column")
	addSynthFlags(dimensionsCmd)
	rootCmd.AddCommand(dimensionsCmd)
}

func runDimensions(out io.Writer, c *config.Config, heightField string, limit int) error {
	s := c.Synth
	buildings := synth.Buildings(s.Rows, s.Cols, s.Cell, s.Gap)
	if err := dimension.Measure(buildings, layer.Column(heightField), c.Dimension.StoreyHeight); err != nil {
		return err
	}
	return formatColumns(out, buildings.Table, []string{
		dimension.ColArea,
		dimension.ColPerimeter,
		dimension.ColVolume,
		dimension.ColFloorArea,
		dimension.ColCourtyardArea,
		dimension.ColLongestAxis,
	}, limit)
}
