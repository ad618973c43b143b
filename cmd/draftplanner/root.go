package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/moba-draft/internal/config"
	"github.com/ramonehamilton/moba-draft/internal/roster"
	"github.com/ramonehamilton/moba-draft/internal/storage"
	"github.com/ramonehamilton/moba-draft/internal/version"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	rosterPath string
	dbPath     string
	debug      bool
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "draftplanner",
		Short: "Counter and synergy pick suggestions for 5v5 drafts",
		Long: `draftplanner ranks the characters you can still pick by how well they
counter the enemy team, how badly the enemy counters them, and how well they
pair with your allies.`,
		Version:      version.String(),
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default ~/.moba-draft/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.rosterPath, "roster", "", "Roster file, JSON or YAML (default from config)")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite roster database")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if opts.debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRecommendCommand(opts))
	cmd.AddCommand(newRosterCommand(opts))
	cmd.AddCommand(newChartCommand(opts))

	return cmd
}

func execute() error {
	return newRootCommand().Execute()
}

// loadConfig applies flag overrides on top of the config file.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.rosterPath != "" {
		cfg.Roster.File = o.rosterPath
	}
	if o.dbPath != "" {
		cfg.Storage.Path = o.dbPath
	}
	return cfg, nil
}

// loadRoster reads the roster from the database when one is configured and
// from the roster file otherwise.
func (o *globalOptions) loadRoster(ctx context.Context, cfg *config.Config) (*roster.Roster, error) {
	if cfg.Storage.Path == "" {
		r, err := roster.LoadFile(cfg.Roster.File)
		if err != nil {
			return nil, err
		}
		return r, nil
	}

	db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	r, err := storage.NewRosterRepository(db, nil).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading roster from %s: %w", cfg.Storage.Path, err)
	}
	return r, nil
}

func openStore(cfg *config.Config) (*storage.DB, error) {
	dbConfig := storage.DefaultConfig(cfg.Storage.Path)
	dbConfig.AutoMigrate = cfg.Storage.AutoMigrate
	db, err := storage.Open(dbConfig)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return db, nil
}
