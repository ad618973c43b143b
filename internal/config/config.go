package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/moba-draft/internal/recommend"
	"github.com/ramonehamilton/moba-draft/internal/roster"
)

// Config represents the application configuration.
type Config struct {
	// Recommendation engine tuning
	Engine EngineConfig `toml:"engine"`

	// Roster data source
	Roster RosterConfig `toml:"roster"`

	// SQLite roster store
	Storage StorageConfig `toml:"storage"`

	// REST API server
	API APIConfig `toml:"api"`

	// Logging
	Log LogConfig `toml:"log"`
}

// EngineConfig contains the scoring factors and role rules.
type EngineConfig struct {
	// Scale for counters held over enemies and for ally synergies
	AdvantageFactor float64 `toml:"advantage_factor" validate:"gte=0"`

	// Scale for counters enemies hold over the candidate
	DisadvantageFactor float64 `toml:"disadvantage_factor" validate:"gte=0"`

	// Allies per role unless overridden
	DefaultRoleCapacity int `toml:"default_role_capacity" validate:"gte=1"`

	// Per-role overrides, e.g. Mid = 2
	RoleCapacity map[string]int `toml:"role_capacity" validate:"dive,keys,required,endkeys,gte=0"`

	// How many suggestions to display
	ShortlistSize int `toml:"shortlist_size" validate:"gte=1"`
}

// RosterConfig contains the roster file settings.
type RosterConfig struct {
	File  string `toml:"file"`  // JSON or YAML roster table
	Watch bool   `toml:"watch"` // Reload the file when it changes
}

// StorageConfig contains the roster database settings.
type StorageConfig struct {
	Path        string `toml:"path"`         // SQLite file ("" = use the roster file)
	AutoMigrate bool   `toml:"auto_migrate"` // Apply migrations on open
}

// APIConfig contains REST server settings.
type APIConfig struct {
	Port           int      `toml:"port" validate:"gte=1,lte=65535"`
	RateLimit      float64  `toml:"rate_limit" validate:"gte=0"` // Requests per second (0 = unlimited)
	Burst          int      `toml:"burst" validate:"gte=0"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	factors := recommend.DefaultFactors()
	return &Config{
		Engine: EngineConfig{
			AdvantageFactor:     factors.Advantage,
			DisadvantageFactor:  factors.Disadvantage,
			DefaultRoleCapacity: 1,
			RoleCapacity:        map[string]int{},
			ShortlistSize:       2,
		},
		Roster: RosterConfig{
			File:  "data/characters.json",
			Watch: true,
		},
		Storage: StorageConfig{
			Path:        "",
			AutoMigrate: true,
		},
		API: APIConfig{
			Port:           8080,
			RateLimit:      20,
			Burst:          40,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.moba-draft/config.toml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".moba-draft", "config.toml"), nil
}

// Load loads the configuration from path, or from DefaultPath when path is empty.
// Returns the default config if the file doesn't exist. Keys missing from the
// file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save writes the configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

var validate = validator.New()

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	for name := range c.Engine.RoleCapacity {
		if !roster.Role(name).Valid() {
			return fmt.Errorf("invalid config: unknown role %q in role_capacity", name)
		}
	}

	return nil
}

// EngineSettings converts the engine section into recommendation engine settings.
func (c *Config) EngineSettings() recommend.Config {
	capacity := make(map[roster.Role]int, len(c.Engine.RoleCapacity))
	for name, n := range c.Engine.RoleCapacity {
		capacity[roster.Role(name)] = n
	}

	return recommend.Config{
		Factors: recommend.Factors{
			Advantage:    c.Engine.AdvantageFactor,
			Disadvantage: c.Engine.DisadvantageFactor,
		},
		RoleCapacity:        capacity,
		DefaultRoleCapacity: c.Engine.DefaultRoleCapacity,
	}
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds a text logger on stderr at the configured level.
func (c *Config) NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: c.SlogLevel()}))
}
