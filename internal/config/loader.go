package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/tblcfg/pkg/persist"
)

// AppName names the per-user config and data directories.
const AppName = "tblcfg"

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Defaults decodes the embedded default config.
func Defaults() (Config, error) {
	var cfg Config
	if len(embeddedDefaultConfig) == 0 {
		return cfg, fmt.Errorf("embedded default config is empty")
	}
	if err := yaml.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	return cfg, nil
}

// Loader resolves a Config from layered sources. The zero value reads the
// embedded defaults and the process environment.
type Loader struct {
	// Defaults overrides the embedded default YAML.
	Defaults []byte
	// Environment overrides os.Environ for env overrides.
	Environment map[string]string
}

// Load returns defaults, overlaid with the YAML file at path (when non-empty),
// overlaid with environment variables, then validated.
func Load(path string) (Config, error) {
	return Loader{}.Load(path)
}

func (l Loader) Load(path string) (Config, error) {
	var cfg Config
	defaults := l.Defaults
	if defaults == nil {
		defaults = embeddedDefaultConfig
	}
	if err := yaml.Unmarshal(defaults, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: l.Environment}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the storage driver and every table definition.
func (c Config) Validate() error {
	var errs []error
	if !slices.Contains(persist.Drivers(), c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("storage.driver %q must be one of %s", c.Storage.Driver, strings.Join(persist.Drivers(), ", ")))
	}
	if c.Storage.MaxBytes < 0 {
		errs = append(errs, fmt.Errorf("storage.max_bytes must be non-negative, got %d", c.Storage.MaxBytes))
	}
	if c.Display.MaxColumnWidth < 0 {
		errs = append(errs, fmt.Errorf("display.max_column_width must be non-negative, got %d", c.Display.MaxColumnWidth))
	}
	for _, id := range c.TableIDs() {
		if strings.TrimSpace(id) == "" {
			errs = append(errs, fmt.Errorf("tables: empty table id"))
			continue
		}
		seen := map[string]bool{}
		for i, col := range c.Tables[id].Columns {
			switch {
			case strings.TrimSpace(col.ID) == "":
				errs = append(errs, fmt.Errorf("tables.%s.columns[%d]: id is required", id, i))
			case seen[col.ID]:
				errs = append(errs, fmt.Errorf("tables.%s.columns[%d]: duplicate id %q", id, i, col.ID))
			}
			seen[col.ID] = true
		}
	}
	return errors.Join(errs...)
}

// TableIDs returns the configured table identities in sorted order.
func (c Config) TableIDs() []string {
	ids := make([]string, 0, len(c.Tables))
	for id := range c.Tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveConfigPath returns explicit if set, otherwise
// $XDG_CONFIG_HOME/tblcfg/config.yaml or ~/.config/tblcfg/config.yaml when
// that file exists, otherwise "".
func ResolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, AppName, "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", AppName, "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}

// StoragePath returns the configured storage path, or the per-user default
// for the driver: settings.json for file, settings.db for sqlite.
func (s Storage) StoragePath() string {
	if s.Path != "" || s.Driver == persist.DriverMemory {
		return s.Path
	}
	name := "settings.json"
	if s.Driver == persist.DriverSQLite {
		name = "settings.db"
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName, name)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", AppName, name)
	}
	return filepath.Join(os.TempDir(), AppName, name)
}

// PersistOptions converts s into backend options.
func (s Storage) PersistOptions() persist.Options {
	return persist.Options{Driver: s.Driver, Path: s.StoragePath(), MaxBytes: s.MaxBytes}
}
