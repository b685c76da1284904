package cmd

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/tblcfg/internal/formatter"
	"github.com/oakwood-commons/tblcfg/pkg/columns"
)

var (
	forceToggle  bool
	exportFormat string
)

// errFixedColumn is returned when hiding a fixed column without --force.
var errFixedColumn = errors.New("column is fixed")

var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "Show the reconciled column order and visibility of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()
		s.printColumns(cmd)
		return nil
	},
}

var orderCmd = &cobra.Command{
	Use:   "order <table> <id,id,...>",
	Short: "Set the column order of a table",
	Long: `Set the column order of a table. Ids may be separated by commas or spaces.
Live columns left out keep their current relative order after the given ones.`,
	Example: "  tblcfg order staff name,email,role",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()

		order, err := completeOrder(s.store, splitIDs(args[1:]))
		if err != nil {
			return err
		}
		if err := s.store.UpdateOrder(order); err != nil {
			return err
		}
		if err := s.save(cmd); err != nil {
			return err
		}
		s.printColumns(cmd)
		return nil
	},
}

// completeOrder validates requested ids against the live columns and appends
// the ones left out in their current order.
func completeOrder(store *columns.Store, requested []string) ([]string, error) {
	live := liveIDSet(store)
	order := make([]string, 0, len(live))
	for _, id := range requested {
		if _, ok := live[id]; !ok {
			return nil, fmt.Errorf("%w %q in %s", columns.ErrUnknownColumn, id, store.TableID())
		}
		if slices.Contains(order, id) {
			return nil, fmt.Errorf("column %q listed twice", id)
		}
		order = append(order, id)
	}
	for _, id := range store.Config().Order {
		if _, ok := live[id]; ok && !slices.Contains(order, id) {
			order = append(order, id)
		}
	}
	return order, nil
}

var moveCmd = &cobra.Command{
	Use:     "move <table> <id> <position>",
	Short:   "Move one column to a 0-based position",
	Example: "  tblcfg move staff email 1",
	Args:    cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := strconv.Atoi(args[2])
		if err != nil || pos < 0 {
			return fmt.Errorf("position must be a non-negative integer, got %q", args[2])
		}
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()

		if _, ok := liveIDSet(s.store)[args[1]]; !ok {
			return fmt.Errorf("%w %q in %s", columns.ErrUnknownColumn, args[1], args[0])
		}
		if err := s.store.Move(args[1], pos); err != nil {
			return err
		}
		if err := s.save(cmd); err != nil {
			return err
		}
		s.printColumns(cmd)
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <table> <id>...",
	Short: "Show hidden columns and hide shown ones",
	Long: `Flip the visibility of one or more columns. Fixed columns can only be
hidden with --force.`,
	Example: "  tblcfg toggle staff phone location",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()

		live := liveIDSet(s.store)
		ids := splitIDs(args[1:])
		for _, id := range ids {
			col, ok := live[id]
			if !ok {
				return fmt.Errorf("%w %q in %s", columns.ErrUnknownColumn, id, args[0])
			}
			if col.Fixed && s.store.Visible(id) && !forceToggle {
				return fmt.Errorf("%w: %q cannot be hidden without --force", errFixedColumn, id)
			}
		}
		for _, id := range ids {
			if err := s.store.ToggleVisibility(id); err != nil {
				return err
			}
		}
		if err := s.save(cmd); err != nil {
			return err
		}
		s.printColumns(cmd)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset <table>",
	Short: "Discard stored settings and restore the default columns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, args[0])
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.store.Reset(cmd.Context()); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "defaults restored for %s\n", args[0])
		s.printColumns(cmd)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Print the stored settings of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !slices.Contains(formatter.Formats(), exportFormat) {
			return fmt.Errorf("unsupported output format %q (use yaml, json, or toml)", exportFormat)
		}
		run, err := runFrom(cmd)
		if err != nil {
			return err
		}
		adapter, closeFn, err := openAdapter(cmd.Context(), run)
		if err != nil {
			return err
		}
		defer closeFn()

		stored := adapter.Read(cmd.Context(), args[0])
		if stored == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "no stored settings for %s\n", args[0])
			return nil
		}
		out, err := formatter.EncodeSettings(*stored, exportFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func renderColumnList(s *session) string {
	return formatter.RenderColumnList(s.store.Live(), s.store.Config(), renderOptions(s.run))
}

//nolint:gochecknoinits // cobra flag registration
func init() {
	toggleCmd.Flags().BoolVar(&forceToggle, "force", false, "allow hiding fixed columns")
	exportCmd.Flags().StringVarP(&exportFormat, "output", "o", formatter.FormatYAML, "output format: yaml|json|toml")
}
