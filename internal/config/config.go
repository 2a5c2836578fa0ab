// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the application configuration.
type Config struct {
	Grid     GridConfig     `toml:"grid"`
	Sync     SyncConfig     `toml:"sync"`
	Calendar CalendarConfig `toml:"calendar"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// GridConfig holds the day-grid scale and gesture settings.
type GridConfig struct {
	HourHeight      int `toml:"hour_height"`       // pixels (terminal cells) per hour
	SnapStepMinutes int `toml:"snap_step_minutes"` // snapping granularity
	LongPressMs     int `toml:"long_press_ms"`     // create-gesture delay
	DefaultMinutes  int `toml:"default_minutes"`   // duration of created items
}

// SyncConfig holds the reconciliation daemon settings.
type SyncConfig struct {
	FilePath        string   `toml:"file_path"`         // local JSON mirror
	Collections     []string `toml:"collections"`       // mirrored collection names
	RepoDir         string   `toml:"repo_dir"`          // git working tree; empty disables VCS
	DebounceMs      int      `toml:"debounce_ms"`       // file-change debounce window
	PullIntervalMin int      `toml:"pull_interval_min"` // periodic VCS pull
}

// CalendarConfig holds external calendar sources.
type CalendarConfig struct {
	ICSSources []string `toml:"ics_sources"` // URLs or file paths
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			HourHeight:      60,
			SnapStepMinutes: 15,
			LongPressMs:     600,
			DefaultMinutes:  60,
		},
		Sync: SyncConfig{
			FilePath:        defaultSyncFile(),
			Collections:     []string{"tasks", "notes", "shopping"},
			RepoDir:         "",
			DebounceMs:      500,
			PullIntervalMin: 10,
		},
		Calendar: CalendarConfig{},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hermes.db"
	}
	return filepath.Join(home, ".local", "share", "hermes", "hermes.db")
}

// defaultSyncFile returns the default local mirror path.
func defaultSyncFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "hermes_full_database.json"
	}
	return filepath.Join(home, ".local", "share", "hermes", "hermes_full_database.json")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "hermes", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Sync.FilePath = expandPath(cfg.Sync.FilePath)
	cfg.Sync.RepoDir = expandPath(cfg.Sync.RepoDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HERMES_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("HERMES_SYNC_FILE"); v != "" {
		cfg.Sync.FilePath = v
	}
	if v := os.Getenv("HERMES_SYNC_REPO"); v != "" {
		cfg.Sync.RepoDir = v
	}
	if v := os.Getenv("HERMES_SYNC_COLLECTIONS"); v != "" {
		cfg.Sync.Collections = strings.Split(v, ",")
	}
	if v := os.Getenv("HERMES_ICS_SOURCES"); v != "" {
		cfg.Calendar.ICSSources = strings.Split(v, ",")
	}
	if v := os.Getenv("HERMES_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("HERMES_HOUR_HEIGHT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Grid.HourHeight = n
		}
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Save writes the configuration to the default config path, creating the
// directory if needed.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the given path.
func (c *Config) SaveTo(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Grid.HourHeight <= 0 {
		return errors.New("hour_height must be positive")
	}
	if c.Grid.SnapStepMinutes <= 0 || 60%c.Grid.SnapStepMinutes != 0 {
		return errors.New("snap_step_minutes must be a positive divisor of 60")
	}
	if c.Grid.LongPressMs <= 0 {
		return errors.New("long_press_ms must be positive")
	}
	if c.Grid.DefaultMinutes < c.Grid.SnapStepMinutes {
		return errors.New("default_minutes must be at least one snap step")
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if c.Sync.FilePath == "" {
		return errors.New("sync file_path must be set")
	}
	if len(c.Sync.Collections) == 0 {
		return errors.New("at least one sync collection must be configured")
	}
	for _, col := range c.Sync.Collections {
		if strings.TrimSpace(col) == "" {
			return errors.New("sync collections must be non-empty names")
		}
	}
	if c.Sync.DebounceMs <= 0 {
		return errors.New("debounce_ms must be positive")
	}
	if c.Sync.PullIntervalMin <= 0 {
		return errors.New("pull_interval_min must be positive")
	}
	return nil
}
