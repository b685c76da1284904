package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configOutput string

// configCmd groups configuration subcommands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect tblcfg configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the merged configuration (defaults, config file, environment, flags)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, err := runFrom(cmd)
		if err != nil {
			return err
		}
		var data []byte
		switch configOutput {
		case "yaml":
			data, err = yaml.Marshal(run.Config)
		case "json":
			data, err = json.MarshalIndent(run.Config, "", "  ")
			data = append(data, '\n')
		default:
			return fmt.Errorf("unsupported output format %q (use yaml or json)", configOutput)
		}
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		if run.ConfigPath != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "# config file: %s\n", run.ConfigPath)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

//nolint:gochecknoinits // cobra flag registration
func init() {
	configGetCmd.Flags().StringVarP(&configOutput, "output", "o", "yaml", "output format: yaml|json")
}
