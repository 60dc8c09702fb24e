package cli

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cchdo/params/internal/config"
	"github.com/cchdo/params/internal/loader"
	"github.com/cchdo/params/internal/logging"
)

// RootOptions holds global flags and the state PersistentPreRunE derives
// from them.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string

	Config config.Config
	Logger zerolog.Logger

	viper  *viper.Viper
	loader *loader.Loader
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the cchdo-params CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{viper: config.NewViper(), Logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:   "cchdo-params",
		Short: "CCHDO parameter registry",
		Long: `Look up, format and export CCHDO WHP exchange parameters.

Keys are written in ODV form, e.g. "CTDTMP [ITS-90]", and may carry the
_FLAG_W suffix, an _ALT_n alternate depth or a known error column name.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return opts.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVarP(&opts.ConfigFile, "config", "c", "", "config file (YAML)")
	flags.String("source", config.SourceEmbedded, "table source (embedded|sqlite|cue)")
	flags.String("db", "", "SQLite database for --source sqlite")
	flags.String("tables", "", "CUE tables directory for --source cue")
	flags.StringSlice("alias-file", nil, "YAML alias file applied after loading (repeatable)")
	flags.String("log-level", "warn", "log level (debug|info|warn|error)")
	flags.String("log-format", config.FormatConsole, "log format (console|json)")

	bindings := map[string]string{
		"source":      "source",
		"database":    "db",
		"tables_dir":  "tables",
		"alias_files": "alias-file",
		"log.level":   "log-level",
		"log.format":  "log-format",
	}
	for key, flag := range bindings {
		_ = opts.viper.BindPFlag(key, flags.Lookup(flag))
	}

	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewStrfexCommand(opts))
	cmd.AddCommand(NewAttrsCommand(opts))
	cmd.AddCommand(NewGroupsCommand(opts))
	cmd.AddCommand(NewJSONCommand(opts))
	cmd.AddCommand(NewCFCommand(opts))
	cmd.AddCommand(NewDBCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// init resolves configuration and builds the logger and loader.
func (o *RootOptions) init(cmd *cobra.Command) error {
	formatter := o.newFormatter(cmd)

	cfg, err := config.Load(o.viper, o.ConfigFile)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), err)
	}
	if o.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, fmt.Sprintf("invalid configuration: %v", err), err)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, err.Error(), err)
	}

	o.Config = cfg
	o.Logger = logger
	o.loader = loader.New(loader.Options{
		Source:     loader.Source(cfg.Source),
		Database:   cfg.Database,
		TablesDir:  cfg.TablesDir,
		AliasFiles: cfg.AliasFiles,
		Logger:     logger,
	})
	return nil
}

// Snapshot returns the registry for this invocation, loading it on first use.
func (o *RootOptions) Snapshot(ctx context.Context) (*loader.Snapshot, error) {
	if o.loader == nil {
		return nil, fmt.Errorf("registry requested before configuration was loaded")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return o.loader.Load(ctx)
}

// newFormatter builds the formatter every subcommand writes through.
func (o *RootOptions) newFormatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// loadSnapshot wraps Snapshot with the CLI's error reporting.
func (o *RootOptions) loadSnapshot(cmd *cobra.Command, f *OutputFormatter) (*loader.Snapshot, error) {
	snap, err := o.Snapshot(cmd.Context())
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeRegistry, fmt.Sprintf("loading registry: %v", err), err)
	}
	f.VerboseLog("registry %s loaded from %s (%d params)", snap.ID, snap.Source, snap.Registry.Len())
	return snap, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
