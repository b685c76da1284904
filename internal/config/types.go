// Package config defines the tblcfg configuration file and loads it from
// embedded defaults, an optional user file, and environment overrides.
package config

// Config is the resolved configuration for one run.
type Config struct {
	App     App              `yaml:"app" json:"app"`
	Storage Storage          `yaml:"storage" json:"storage"`
	Display Display          `yaml:"display" json:"display"`
	Tables  map[string]Table `yaml:"tables" json:"tables"`
}

// App holds descriptive metadata and process-wide switches.
type App struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Debug       bool   `yaml:"debug" json:"debug" env:"TBLCFG_DEBUG"`
}

// Storage selects the settings backend.
type Storage struct {
	Driver   string `yaml:"driver" json:"driver" env:"TBLCFG_STORAGE_DRIVER"`
	Path     string `yaml:"path" json:"path" env:"TBLCFG_STORAGE_PATH"`
	MaxBytes int    `yaml:"max_bytes" json:"max_bytes" env:"TBLCFG_STORAGE_MAX_BYTES"`
}

// Display controls terminal output.
type Display struct {
	NoColor        bool   `yaml:"no_color" json:"no_color" env:"TBLCFG_NO_COLOR"`
	MaxColumnWidth int    `yaml:"max_column_width" json:"max_column_width"`
	RowNumbers     bool   `yaml:"row_numbers" json:"row_numbers"`
	Colors         Colors `yaml:"colors" json:"colors"`
}

// Colors are lipgloss color strings for tables ("12", "#ff8800"). Empty keeps
// the built-in palette.
type Colors struct {
	HeaderFG  string `yaml:"header_fg" json:"header_fg"`
	HeaderBG  string `yaml:"header_bg" json:"header_bg"`
	Key       string `yaml:"key" json:"key"`
	Value     string `yaml:"value" json:"value"`
	Separator string `yaml:"separator" json:"separator"`
}

// Table is one table identity and its live column list.
type Table struct {
	Title   string   `yaml:"title" json:"title"`
	Columns []Column `yaml:"columns" json:"columns"`
}

// Column mirrors columns.Descriptor in configuration files.
type Column struct {
	ID             string `yaml:"id" json:"id"`
	Label          string `yaml:"label,omitempty" json:"label,omitempty"`
	DefaultVisible *bool  `yaml:"default_visible,omitempty" json:"default_visible,omitempty"`
	Fixed          bool   `yaml:"fixed,omitempty" json:"fixed,omitempty"`
}
