package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tblcfg/internal/config"
	"github.com/oakwood-commons/tblcfg/pkg/logger"
	"github.com/oakwood-commons/tblcfg/pkg/settings"
)

// Persistent flags.
var (
	configFile    string
	storageDriver string
	storagePath   string
	noColor       bool
	debug         bool
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "Persisted column order and visibility for record tables",
	Long: `tblcfg keeps the column order and visibility of record tables across runs.

Stored settings are reconciled with each table's current column list: columns
that disappeared are dropped from the order, new columns are appended, and
hidden columns stay hidden.`,
	Example: "\n  tblcfg columns staff\n  tblcfg toggle staff phone\n  tblcfg move staff email 1\n  tblcfg show staff people.yaml --where 'row.status == \"active\"'\n  tblcfg edit staff\n",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// setupRun resolves the configuration and logger for the invoked command and
// attaches both to its context.
func setupRun(cmd *cobra.Command, _ []string) error {
	path := config.ResolveConfigPath(configFile)
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if storageDriver != "" {
		cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(storageDriver))
	}
	if storagePath != "" {
		cfg.Storage.Path = storagePath
	}
	if noColor {
		cfg.Display.NoColor = true
	}
	if debug {
		cfg.App.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	run := settings.NewCliParams(cfg)
	run.ConfigPath = path
	if cfg.App.Debug {
		run.MinLogLevel = -1
	}

	lgr := commandLogger(cmd, run.MinLogLevel)
	lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
	lgr.V(1).Info("configuration resolved", "configPath", path, logger.StorageKey, cfg.Storage.Driver)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	cmd.SetContext(settings.IntoContext(ctx, run))
	return nil
}

// commandLogger logs to the process-wide stderr logger unless the command's
// error stream was redirected.
func commandLogger(cmd *cobra.Command, level int8) *logr.Logger {
	if w := cmd.ErrOrStderr(); w != os.Stderr {
		return logger.New(level, w)
	}
	return logger.Get(level)
}

// runFrom returns the Run attached by setupRun.
func runFrom(cmd *cobra.Command) (*settings.Run, error) {
	run, ok := settings.FromContext(cmd.Context())
	if !ok || run == nil {
		return nil, fmt.Errorf("%s: configuration not initialized", cmd.Name())
	}
	return run, nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print tblcfg version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
		return nil
	},
}

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s, %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

//nolint:gochecknoinits // cobra command registration
func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "path to a YAML config file (tables, storage, display)")
	pf.StringVar(&storageDriver, "storage", "", "settings storage driver: memory|file|sqlite (default from config)")
	pf.StringVar(&storagePath, "storage-path", "", "settings file or database path (default under $XDG_DATA_HOME/tblcfg)")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	pf.BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(columnsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(editCmd)
	configCmd.AddCommand(configGetCmd)
	rootCmd.AddCommand(configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
