package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tblcfg/internal/formatter"
	"github.com/oakwood-commons/tblcfg/pkg/columns"
	"github.com/oakwood-commons/tblcfg/pkg/logger"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List configured tables and whether they have stored settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		run, err := runFrom(cmd)
		if err != nil {
			return err
		}
		adapter, closeFn, err := openAdapter(cmd.Context(), run)
		if err != nil {
			return err
		}
		defer closeFn()

		stored, err := adapter.StoredTables(cmd.Context())
		if err != nil {
			logger.Warn(logger.FromContext(cmd.Context()), err, "listing stored tables failed")
		}

		ids := run.Config.TableIDs()
		rows := make([]map[string]any, 0, len(ids)+len(stored))
		for _, id := range ids {
			t := run.Config.Tables[id]
			rows = append(rows, map[string]any{
				"table":   id,
				"title":   t.Title,
				"columns": len(t.Columns),
				"stored":  yesNo(slices.Contains(stored, id)),
			})
		}
		for _, id := range stored {
			if _, ok := run.Config.Tables[id]; !ok {
				rows = append(rows, map[string]any{
					"table":  id,
					"title":  "(not configured)",
					"stored": "yes",
				})
			}
		}

		header := []columns.Descriptor{
			{ID: "table", Label: "TABLE"},
			{ID: "title", Label: "TITLE"},
			{ID: "columns", Label: "COLUMNS"},
			{ID: "stored", Label: "STORED"},
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(header, rows, renderOptions(run)))
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
