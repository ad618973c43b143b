package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/moba-draft/internal/export"
	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// boardFlags describe a board on the command line.
type boardFlags struct {
	allies  []string
	enemies []string
	bans    []string
}

func (b *boardFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&b.allies, "ally", nil, "Allied pick (repeatable, up to 5)")
	cmd.Flags().StringArrayVar(&b.enemies, "enemy", nil, "Enemy pick (repeatable, up to 5)")
	cmd.Flags().StringArrayVar(&b.bans, "ban", nil, "Banned or otherwise unavailable character (repeatable)")
}

func (b *boardFlags) validate(r *roster.Roster) error {
	if len(b.allies) > recommend.SlotsPerSide {
		return fmt.Errorf("at most %d allies, got %d", recommend.SlotsPerSide, len(b.allies))
	}
	if len(b.enemies) > recommend.SlotsPerSide {
		return fmt.Errorf("at most %d enemies, got %d", recommend.SlotsPerSide, len(b.enemies))
	}
	for _, names := range [][]string{b.allies, b.enemies} {
		for _, name := range names {
			if _, err := r.Get(name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *boardFlags) snapshot(r *roster.Roster) recommend.Snapshot {
	return recommend.NewSnapshot(r, b.allies, b.enemies, b.bans)
}

type recommendOptions struct {
	board   boardFlags
	top     int
	all     bool
	asJSON  bool
	format  string
	summary int
}

func newRecommendCommand(global *globalOptions) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the characters still available to pick",
		Long: `Rank every character that is not banned, not already picked, and can fill
a role your team has not filled yet. Prints the best --top entries with the
score change and the reasons behind it.`,
		Example: `  draftplanner recommend --roster data/characters.json --ally Aurora --enemy Brakk
  draftplanner recommend --enemy Brakk --enemy Vex --ban Cinder --all --json
  draftplanner recommend --enemy Brakk --format csv > picks.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			r, err := global.loadRoster(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := opts.board.validate(r); err != nil {
				return err
			}
			format := opts.format
			if opts.asJSON {
				format = string(export.FormatJSON)
			}
			var exportFormat export.Format
			if format != "table" {
				if exportFormat, err = export.ParseFormat(format); err != nil {
					return err
				}
			}

			engine := recommend.NewEngine(r, cfg.EngineSettings())
			recs := engine.Recommend(opts.board.snapshot(r))

			n := opts.top
			if n <= 0 {
				n = cfg.Engine.ShortlistSize
			}
			if opts.all {
				n = -1
			}
			recs = recommend.Top(recs, n)

			if exportFormat != "" {
				return export.Write(cmd.OutOrStdout(), recs, exportFormat)
			}
			return writeTable(cmd.OutOrStdout(), recs, opts.summary)
		},
	}

	opts.board.register(cmd)
	cmd.Flags().IntVar(&opts.top, "top", 0, "Number of suggestions (default from config shortlist_size)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Print the full ranking")
	cmd.Flags().StringVar(&opts.format, "format", "table", "Output format: table, json or csv")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Shorthand for --format json")
	cmd.Flags().IntVar(&opts.summary, "width", 60, "Truncate reasons to this many characters (0 = no limit)")

	return cmd
}

func writeTable(w io.Writer, recs []*recommend.Recommendation, width int) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "No eligible characters.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, rec := range recs {
		fmt.Fprintf(tw, "%d.\t%s\t%s\t%s\n", i+1, rec.Character.Name, rec.Delta(), rec.Summary(width))
	}
	return tw.Flush()
}
