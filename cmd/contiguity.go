package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/sells-group/urbanform/internal/config"
	"github.com/sells-group/urbanform/internal/contiguity"
	"github.com/sells-group/urbanform/internal/synth"
)

var (
	contiguityOrder int
	contiguityExact bool
)

var contiguityCmd = &cobra.Command{
	Use:   "contiguity",
	Short: "Build a queen contiguity graph over a synthetic tessellation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := applySynthFlags(cmd, cfg, "contiguity"); err != nil {
			return err
		}
		limit, _ := cmd.Flags().GetInt("limit")
		return runContiguity(ctx, cmd.OutOrStdout(), cfg, contiguityOrder, !contiguityExact, limit)
	},
}

func init() {
	contiguityCmd.Flags().IntVar(&contiguityOrder, "order", 1, "neighbourhood order")
	contiguityCmd.Flags().BoolVar(&contiguityExact, "exact", false, "keep only units exactly --order steps away")
	addSynthFlags(contiguityCmd)
	rootCmd.AddCommand(contiguityCmd)
}

// contiguityGraph builds the queen graph of the synthetic tessellation and
// expands it to order.
func contiguityGraph(ctx context.Context, c *config.Config, order int, includeLower bool) (*contiguity.Graph, error) {
	tess := synth.Grid(c.Synth.Rows, c.Synth.Cols, c.Synth.Cell)
	opts := []contiguity.Option{
		contiguity.WithTolerance(c.Contiguity.Tolerance),
		contiguity.WithWorkers(c.Contiguity.Workers),
	}
	g, err := contiguity.Queen(ctx, tess, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "contiguity")
	}
	return contiguity.Higher(ctx, g, order, includeLower, opts...)
}

func runContiguity(ctx context.Context, out io.Writer, c *config.Config, order int, includeLower bool, limit int) error {
	g, err := contiguityGraph(ctx, c, order, includeLower)
	if err != nil {
		return err
	}
	_, components := g.Components()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Units:\t%d\n", g.Len())
	_, _ = fmt.Fprintf(w, "Order:\t%d\n", order)
	_, _ = fmt.Fprintf(w, "Edges:\t%d\n", g.Edges())
	_, _ = fmt.Fprintf(w, "Isolated:\t%d\n", len(g.Isolated()))
	_, _ = fmt.Fprintf(w, "Components:\t%d\n", components)
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "ID\tDEGREE\tNEIGHBORS")
	_, _ = fmt.Fprintln(w, "--\t------\t---------")

	n := rowsToPrint(g.Len(), limit)
	for i := 0; i < n; i++ {
		ids := lo.Map(g.Neighbors(i), func(j int, _ int) string { return strconv.FormatInt(g.ID(j), 10) })
		_, _ = fmt.Fprintf(w, "%d\t%d\t%s\n", g.ID(i), g.Degree(i), strings.Join(ids, ","))
	}
	if n < g.Len() {
		_, _ = fmt.Fprintf(w, "... %d more\n", g.Len()-n)
	}
	return w.Flush()
}
