package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Layout   LayoutConfig   `mapstructure:"layout"`
	UI       UIConfig       `mapstructure:"ui"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LayoutConfig controls where the starting layout comes from and how the
// container behaves.
type LayoutConfig struct {
	// File is a layout description used when nothing is stored yet.
	File                 string `mapstructure:"file"`
	Name                 string `mapstructure:"name"`
	MinPaneCells         int    `mapstructure:"min_pane_cells"`
	CollapsedCells       int    `mapstructure:"collapsed_cells"`
	DisablePointerEvents bool   `mapstructure:"disable_pointer_events"`
	UnmountPolicy        string `mapstructure:"unmount_policy"`
	HistoryLimit         int    `mapstructure:"history_limit"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme         string `mapstructure:"theme"`
	MarkdownStyle string `mapstructure:"markdown_style"`
}

type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

func configPath() string {
	if p := os.Getenv("TILEWORK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "tilework", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix TILEWORK_.
func Load() (Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path falls back to
// TILEWORK_CONFIG and then to the default location.
func LoadFrom(path string) (Config, error) {
	v := viper.New()

	// default values
	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "tilework")
	v.SetDefault("database.path", filepath.Join(dataDir, "tilework.db"))
	v.SetDefault("layout.file", "")
	v.SetDefault("layout.name", "default")
	v.SetDefault("layout.min_pane_cells", 3)
	v.SetDefault("layout.collapsed_cells", 1)
	v.SetDefault("layout.disable_pointer_events", true)
	v.SetDefault("layout.unmount_policy", "keep")
	v.SetDefault("layout.history_limit", 20)
	v.SetDefault("ui.theme", "mocha")
	v.SetDefault("ui.markdown_style", "dark")
	v.SetDefault("log.path", filepath.Join(dataDir, "tilework.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	if path == "" {
		path = os.Getenv("TILEWORK_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tilework"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TILEWORK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every setting that is out of range.
func (c Config) Validate() error {
	var errs []error
	switch c.Layout.UnmountPolicy {
	case "keep", "discard":
	default:
		errs = append(errs, fmt.Errorf("layout.unmount_policy: %q is not keep or discard", c.Layout.UnmountPolicy))
	}
	if c.Layout.MinPaneCells < 0 {
		errs = append(errs, fmt.Errorf("layout.min_pane_cells: must not be negative"))
	}
	if c.Layout.CollapsedCells < 1 {
		errs = append(errs, fmt.Errorf("layout.collapsed_cells: must be at least 1"))
	}
	if strings.TrimSpace(c.Layout.Name) == "" {
		errs = append(errs, fmt.Errorf("layout.name: must not be empty"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level: %q is not debug, info, warn or error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("layout.file", cfg.Layout.File)
	v.Set("layout.name", cfg.Layout.Name)
	v.Set("layout.min_pane_cells", cfg.Layout.MinPaneCells)
	v.Set("layout.collapsed_cells", cfg.Layout.CollapsedCells)
	v.Set("layout.disable_pointer_events", cfg.Layout.DisablePointerEvents)
	v.Set("layout.unmount_policy", cfg.Layout.UnmountPolicy)
	v.Set("layout.history_limit", cfg.Layout.HistoryLimit)
	v.Set("ui.theme", cfg.UI.Theme)
	v.Set("ui.markdown_style", cfg.UI.MarkdownStyle)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
