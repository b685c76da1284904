package cmd

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tblcfg/internal/ui/editor"
)

var editCmd = &cobra.Command{
	Use:   "edit <table>",
	Short: "Reorder and show/hide columns interactively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()

		title := args[0]
		if t, ok := s.run.Table(args[0]); ok && t.Title != "" {
			title = fmt.Sprintf("%s (%s)", t.Title, args[0])
		}
		opts := []editor.Option{
			editor.WithTitle(title),
			editor.WithNoColor(s.run.Config.Display.NoColor),
			editor.WithMaxColumnWidth(s.run.Config.Display.MaxColumnWidth),
		}
		progOpts := []tea.ProgramOption{
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(cmd.OutOrStdout()),
		}
		if w, h := detectTerminalSize(); w > 0 && h > 0 {
			progOpts = append(progOpts, tea.WithWindowSize(w, h))
		}

		final, err := editor.Run(cmd.Context(), s.store, opts, progOpts...)
		if err != nil {
			return fmt.Errorf("editor: %w", err)
		}
		if final.Dirty() {
			fmt.Fprintln(cmd.ErrOrStderr(), "unsaved column changes discarded")
		}
		return nil
	},
}
