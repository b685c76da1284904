package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tblcfg/internal/filter"
	"github.com/oakwood-commons/tblcfg/internal/formatter"
	"github.com/oakwood-commons/tblcfg/internal/limiter"
	"github.com/oakwood-commons/tblcfg/internal/records"
	"github.com/oakwood-commons/tblcfg/pkg/columns"
	"github.com/oakwood-commons/tblcfg/pkg/logger"
)

var (
	whereExpr     string
	limitRecords  int
	offsetRecords int
	tailRecords   int
	rowNumbers    bool
)

var showCmd = &cobra.Command{
	Use:   "show <table> <records-file>",
	Short: "Render records with the table's configured columns",
	Long: `Render records from a JSON, NDJSON, YAML, or TOML file ("-" for stdin) using
the table's stored column order and visibility.

A table missing from the configuration takes its columns from the record
fields, so its settings still persist under the given table name.`,
	Example: "  tblcfg show staff people.yaml\n  tblcfg show staff people.json --where 'row.status == \"active\"' --limit 20",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		window := limiter.Config{Limit: limitRecords, Offset: offsetRecords, Tail: tailRecords}
		if err := window.Validate(); err != nil {
			return fmt.Errorf("record limiting: %w", err)
		}
		run, err := runFrom(cmd)
		if err != nil {
			return err
		}

		rows, err := readRecords(cmd, args[1])
		if err != nil {
			return err
		}
		if whereExpr != "" {
			pred, err := filter.Compile(whereExpr)
			if err != nil {
				return err
			}
			if rows, err = filter.Rows(pred, rows); err != nil {
				return err
			}
		}

		var live []columns.Descriptor
		t, err := lookupTable(run, args[0])
		switch {
		case err == nil:
			live = descriptors(t)
		case errors.Is(err, errUnknownTable):
			live = fieldDescriptors(records.Fields(rows))
			logger.FromContext(cmd.Context()).V(1).Info("table not configured; using record fields", logger.TableKey, args[0], "columns", len(live))
		default:
			return err
		}

		s, err := openSessionWith(cmd, run, args[0], live)
		if err != nil {
			return err
		}
		defer s.close()

		start, _ := window.Window(len(rows))
		rows = limiter.Apply(window, rows)
		opts := renderOptions(run)
		opts.MaxColumnWidth = run.Config.Display.MaxColumnWidth
		opts.RowNumbers = run.Config.Display.RowNumbers || rowNumbers
		opts.FirstRow = start + 1
		if w, _ := detectTerminalSize(); opts.MaxColumnWidth == 0 || opts.MaxColumnWidth > w {
			opts.MaxColumnWidth = w
		}
		fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable(s.store.Columns(), rows, opts))
		return nil
	},
}

func readRecords(cmd *cobra.Command, path string) ([]map[string]any, error) {
	var (
		rows []records.Row
		err  error
	)
	if path == "-" {
		rows, err = records.LoadReader(cmd.InOrStdin())
	} else {
		rows, err = records.LoadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("load records from %s: %w", path, err)
	}
	return rows, nil
}

//nolint:gochecknoinits // cobra flag registration
func init() {
	f := showCmd.Flags()
	f.StringVarP(&whereExpr, "where", "w", "", "CEL filter over each record as 'row', e.g. 'row.ward == \"B\"'")
	f.IntVar(&limitRecords, "limit", 0, "limit the number of records displayed")
	f.IntVar(&offsetRecords, "offset", 0, "skip the first N records")
	f.IntVar(&tailRecords, "tail", 0, "show the last N records (mutually exclusive with --limit; ignores --offset)")
	f.BoolVarP(&rowNumbers, "row-numbers", "n", false, "number the rows even when display.row_numbers is off")
}
