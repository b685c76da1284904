package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/tblcfg/internal/config"
	"github.com/oakwood-commons/tblcfg/internal/formatter"
	"github.com/oakwood-commons/tblcfg/pkg/columns"
	"github.com/oakwood-commons/tblcfg/pkg/logger"
	"github.com/oakwood-commons/tblcfg/pkg/persist"
	"github.com/oakwood-commons/tblcfg/pkg/settings"
)

const defaultFallbackTermWidth = 120

// errUnknownTable is returned for table ids missing from the configuration.
var errUnknownTable = errors.New("unknown table")

// descriptors converts configured columns into live column descriptors.
func descriptors(t config.Table) []columns.Descriptor {
	out := make([]columns.Descriptor, 0, len(t.Columns))
	for _, c := range t.Columns {
		d := columns.Descriptor{ID: c.ID, Label: c.Label, Fixed: c.Fixed}
		if c.DefaultVisible != nil {
			d.DefaultVisible = columns.Visible(*c.DefaultVisible)
		}
		out = append(out, d)
	}
	return out
}

// fieldDescriptors builds live columns for an unconfigured table from the
// record field names.
func fieldDescriptors(fields []string) []columns.Descriptor {
	out := make([]columns.Descriptor, len(fields))
	for i, f := range fields {
		out[i] = columns.Descriptor{ID: f}
	}
	return out
}

func lookupTable(run *settings.Run, id string) (config.Table, error) {
	t, ok := run.Table(id)
	if !ok {
		return config.Table{}, fmt.Errorf("%w %q (configured: %s)", errUnknownTable, id, strings.Join(run.Config.TableIDs(), ", "))
	}
	return t, nil
}

// renderOptions carries the display colors and color switch from config.
func renderOptions(run *settings.Run) formatter.TableOptions {
	d := run.Config.Display
	return formatter.TableOptions{
		NoColor: d.NoColor,
		Colors:  formatter.ParseTableColors(d.Colors.HeaderFG, d.Colors.HeaderBG, d.Colors.Key, d.Colors.Value, d.Colors.Separator),
	}
}

// openAdapter opens the configured backend. The returned func closes it.
func openAdapter(ctx context.Context, run *settings.Run) (*columns.Adapter, func(), error) {
	opts := run.Config.Storage.PersistOptions()
	backend, err := persist.Open(opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", opts.Driver, err)
	}
	logger.FromContext(ctx).V(1).Info("storage opened", logger.StorageKey, opts.Driver, "path", opts.Path)
	closeFn := func() {
		if err := backend.Close(); err != nil {
			logger.Warn(logger.FromContext(ctx), err, "closing storage failed", logger.StorageKey, opts.Driver)
		}
	}
	return columns.NewAdapter(backend), closeFn, nil
}

// session is a loaded store for one command invocation.
type session struct {
	run   *settings.Run
	store *columns.Store
	close func()
}

// openSession loads the store for a configured table.
func openSession(cmd *cobra.Command, tableID string) (*session, error) {
	run, err := runFrom(cmd)
	if err != nil {
		return nil, err
	}
	t, err := lookupTable(run, tableID)
	if err != nil {
		return nil, err
	}
	return openSessionWith(cmd, run, tableID, descriptors(t))
}

func openSessionWith(cmd *cobra.Command, run *settings.Run, tableID string, live []columns.Descriptor) (*session, error) {
	ctx := cmd.Context()
	adapter, closeFn, err := openAdapter(ctx, run)
	if err != nil {
		return nil, err
	}
	store := columns.NewStore(adapter)
	store.Load(ctx, tableID, live)
	return &session{run: run, store: store, close: closeFn}, nil
}

// save persists the store. The store has already logged a storage failure
// as a warning; the returned error names the table.
func (s *session) save(cmd *cobra.Command) error {
	if err := s.store.Save(cmd.Context()); err != nil {
		return fmt.Errorf("%s: changes were not stored: %w", s.store.TableID(), err)
	}
	return nil
}

func (s *session) printColumns(cmd *cobra.Command) {
	fmt.Fprint(cmd.OutOrStdout(), renderColumnList(s))
}

// liveIDSet indexes the live columns of the store by id.
func liveIDSet(store *columns.Store) map[string]columns.Descriptor {
	live := store.Live()
	out := make(map[string]columns.Descriptor, len(live))
	for _, d := range live {
		if _, ok := out[d.ID]; !ok {
			out[d.ID] = d
		}
	}
	return out
}

// splitIDs accepts ids separated by commas, spaces, or both.
func splitIDs(args []string) []string {
	var out []string
	for _, arg := range args {
		for _, part := range strings.FieldsFunc(arg, func(r rune) bool { return r == ',' || r == ' ' }) {
			out = append(out, part)
		}
	}
	return out
}

// detectTerminalSize returns the terminal size of the first attached stream,
// falling back to $COLUMNS and then a wide default.
func detectTerminalSize() (int, int) {
	fds := []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()}
	for _, fd := range fds {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 0
		}
	}
	return defaultFallbackTermWidth, 0
}
