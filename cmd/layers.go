package main

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/urbanform/internal/config"
	"github.com/sells-group/urbanform/internal/layer"
)

// addSynthFlags registers the flags that override the synth config section.
func addSynthFlags(cmd *cobra.Command) {
	cmd.Flags().Int("rows", 0, "synthetic grid rows (default from config)")
	cmd.Flags().Int("cols", 0, "synthetic grid columns (default from config)")
	cmd.Flags().Float64("cell", 0, "grid cell size (default from config)")
	cmd.Flags().Float64("gap", 0, "gap between building footprints (default from config)")
	cmd.Flags().Int("limit", 20, "max number of rows to print (0 = all)")
}

// applySynthFlags copies explicitly set synth flags into c and validates c
// for mode.
func applySynthFlags(cmd *cobra.Command, c *config.Config, mode string) error {
	f := cmd.Flags()
	if f.Changed("rows") {
		c.Synth.Rows, _ = f.GetInt("rows")
	}
	if f.Changed("cols") {
		c.Synth.Cols, _ = f.GetInt("cols")
	}
	if f.Changed("cell") {
		c.Synth.Cell, _ = f.GetFloat64("cell")
	}
	if f.Changed("gap") {
		c.Synth.Gap, _ = f.GetFloat64("gap")
	}
	return c.Validate(mode)
}

// formatColumns writes the named columns of t, one row per unit, to out.
func formatColumns(out io.Writer, t *layer.Table, names []string, limit int) error {
	cols := make([][]float64, len(names))
	for i, name := range names {
		v, err := t.Column(name)
		if err != nil {
			return err
		}
		cols[i] = v
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprint(w, "ID")
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "\t%s", name)
	}
	_, _ = fmt.Fprintln(w)

	n := rowsToPrint(t.Len(), limit)
	for r := 0; r < n; r++ {
		_, _ = fmt.Fprintf(w, "%d", t.ID(r))
		for _, col := range cols {
			_, _ = fmt.Fprintf(w, "\t%s", formatValue(col[r]))
		}
		_, _ = fmt.Fprintln(w)
	}
	if n < t.Len() {
		_, _ = fmt.Fprintf(w, "... %d more\n", t.Len()-n)
	}
	return w.Flush()
}

func rowsToPrint(n, limit int) int {
	if limit <= 0 || limit > n {
		return n
	}
	return limit
}

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}
