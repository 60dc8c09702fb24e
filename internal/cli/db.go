package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cchdo/params/internal/compiler"
	"github.com/cchdo/params/internal/config"
	"github.com/cchdo/params/internal/params"
	"github.com/cchdo/params/internal/store"
	"github.com/cchdo/params/internal/tables"
)

// DBResult reports the row counts of a parameter database.
type DBResult struct {
	Path   string            `json:"path"`
	LoadID string            `json:"load_id,omitempty"`
	Config map[string]string `json:"config"`
	Counts map[string]int    `json:"counts"`
}

// NewDBCommand creates the db command group.
func NewDBCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage SQLite parameter databases",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init <path>",
		Short: "Write the parameter tables into a SQLite database",
		Long: `Create (or replace the contents of) a SQLite parameter database.

The tables come from the embedded defaults, or from --tables when
--source cue is set. The database can then serve lookups with
--source sqlite --db <path>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInit(rootOpts, args[0], cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "info <path>",
		Short: "Show row counts and config of a parameter database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDBInfo(rootOpts, args[0], cmd)
		},
	})

	return cmd
}

func runDBInit(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	t, err := sourceTables(opts.Config)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, fmt.Sprintf("reading tables: %v", err), err)
	}
	// catches anything the sqlite constraints would not
	if _, err := params.FromTables(t); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRegistry, err.Error(), err)
	}

	st, err := store.Open(path, store.WithLogger(opts.Logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("opening database: %v", err), err)
	}
	defer st.Close()

	id, err := uuid.NewV7()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), err)
	}
	if err := st.Seed(cmd.Context(), t, id.String()); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("seeding database: %v", err), err)
	}

	return outputDB(formatter, st, path, id.String(), cmd)
}

func runDBInfo(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	st, err := store.Open(path, store.WithLogger(opts.Logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("opening database: %v", err), err)
	}
	defer st.Close()

	return outputDB(formatter, st, path, "", cmd)
}

func outputDB(formatter *OutputFormatter, st *store.Store, path, loadID string, cmd *cobra.Command) error {
	counts, err := st.Counts(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), err)
	}
	cfg, err := st.Config(cmd.Context())
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, err.Error(), err)
	}
	if loadID == "" {
		loadID = cfg[store.ConfigLoadID]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s (load %s)\n", path, loadID)
	tableNames := make([]string, 0, len(counts))
	for name := range counts {
		tableNames = append(tableNames, name)
	}
	sort.Strings(tableNames)
	for _, name := range tableNames {
		fmt.Fprintf(&b, "  %-10s %d\n", name, counts[name])
	}

	return formatter.SuccessWithLoadID(DBResult{Path: path, LoadID: loadID, Config: cfg, Counts: counts}, b.String(), loadID)
}

// sourceTables reads raw tables for the configured source. A sqlite source
// cannot seed another database.
func sourceTables(cfg config.Config) (*params.Tables, error) {
	switch cfg.Source {
	case config.SourceEmbedded, "":
		return tables.Load()
	case config.SourceCUE:
		result, err := LoadTablesDir(cfg.TablesDir)
		if err != nil {
			return nil, err
		}
		if errs := compiler.Validate(result.Tables); len(errs) > 0 {
			return nil, fmt.Errorf("%w (and %d more)", errs[0], len(errs)-1)
		}
		return result.Tables, nil
	}
	return nil, fmt.Errorf("db init reads embedded or cue tables, not %q", cfg.Source)
}
