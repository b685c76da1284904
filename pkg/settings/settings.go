// Package settings provides build metadata, runtime configuration, and
// context helpers used across the tblcfg CLI and library packages.
package settings

import "github.com/oakwood-commons/tblcfg/internal/config"

// CliBinaryName is the canonical binary name for this tool.
const CliBinaryName = "tblcfg"

// VersionInformation is populated at build time via ldflags and holds the
// commit hash, semantic version, and build timestamp of the running binary.
var VersionInformation = VersionInfo{
	Commit:       "unknown",
	BuildVersion: "v0.0.0-nightly",
	BuildTime:    "unknown",
}

// VersionInfo holds metadata about the build, including the commit hash,
// build version, and build timestamp.
type VersionInfo struct {
	Commit       string
	BuildVersion string
	BuildTime    string
}

// Run holds the settings for a single execution of the application: the
// resolved configuration plus the flags that only make sense per invocation.
// It is created once at startup and passed down explicitly (or through a
// context), never mutated from the outside after the command starts.
type Run struct {
	MinLogLevel int8
	NoColor     bool
	ConfigPath  string
	Config      config.Config
}

// NewCliParams returns a Run seeded with the given configuration and CLI
// defaults (info logging, color output).
func NewCliParams(cfg config.Config) *Run {
	return &Run{
		MinLogLevel: 0,
		NoColor:     cfg.Display.NoColor,
		Config:      cfg,
	}
}

// Table returns the table definition for id from the run configuration.
func (r *Run) Table(id string) (config.Table, bool) {
	if r == nil {
		return config.Table{}, false
	}
	t, ok := r.Config.Tables[id]
	return t, ok
}
