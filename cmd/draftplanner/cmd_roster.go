package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/moba-draft/internal/roster"
	"github.com/ramonehamilton/moba-draft/internal/storage"
)

func newRosterCommand(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect and import the character roster",
	}

	cmd.AddCommand(newRosterListCommand(global))
	cmd.AddCommand(newRosterImportCommand(global))
	cmd.AddCommand(newRosterCheckCommand(global))

	return cmd
}

func newRosterListCommand(global *globalOptions) *cobra.Command {
	var (
		search string
		role   string
		desc   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List characters, optionally filtered by name or role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := roster.Filter{Search: search, Role: roster.Role(role), Descending: desc}
			if filter.Role != "" && !filter.Role.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}

			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			r, err := global.loadRoster(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, c := range roster.Apply(r, filter) {
				roles := make([]string, len(c.Roles))
				for i, role := range c.Roles {
					roles[i] = string(role)
				}
				fmt.Fprintf(tw, "%s\t%s\n", c.Name, strings.Join(roles, ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive name filter")
	cmd.Flags().StringVar(&role, "role", "", "Only characters that can play this role")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort Z-A")

	return cmd
}

func newRosterImportCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Store the roster file in the SQLite database",
		Long: `Replace the roster stored in --db with the contents of the roster file.
The previous roster is removed in the same transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := global.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.Path == "" {
				return fmt.Errorf("--db is required for import")
			}

			r, err := roster.LoadFile(cfg.Roster.File)
			if err != nil {
				return err
			}

			db, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := storage.NewRosterRepository(db, nil).Replace(cmd.Context(), r, cfg.Roster.File); err != nil {
				return fmt.Errorf("importing roster: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d characters from %s into %s\n", r.Len(), cfg.Roster.File, cfg.Storage.Path)
			return nil
		},
	}
}

func newRosterCheckCommand(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report counter and synergy entries that name unknown characters",
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

			out := cmd.OutOrStdout()
			dangling := r.DanglingReferences()
			fmt.Fprintf(out, "%d characters, %d dangling references\n", r.Len(), len(dangling))
			for _, ref := range dangling {
				fmt.Fprintf(out, "  %s\n", ref)
			}
			return nil
		},
	}
}
