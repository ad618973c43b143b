package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/moba-draft/internal/charts"
	"github.com/ramonehamilton/moba-draft/internal/recommend"
)

func newChartCommand(global *globalOptions) *cobra.Command {
	var (
		board boardFlags
		out   string
		top   int
		open  bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render the ranking as an HTML bar chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			r, err := global.loadRoster(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := board.validate(r); err != nil {
				return err
			}

			recs := recommend.NewEngine(r, cfg.EngineSettings()).Recommend(board.snapshot(r))
			if top > 0 {
				recs = recommend.Top(recs, top)
			}

			if err := charts.RenderScoreChartFile(recs, charts.DefaultChartConfig(), out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", out)

			if open {
				return charts.OpenInBrowser(out)
			}
			return nil
		},
	}

	board.register(cmd)
	cmd.Flags().StringVar(&out, "out", "recommendations.html", "Output HTML file")
	cmd.Flags().IntVar(&top, "top", 0, "Only chart the best N characters (0 = all)")
	cmd.Flags().BoolVar(&open, "open", false, "Open the chart in the default browser")

	return cmd
}
