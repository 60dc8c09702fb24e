// Package loader is the single initialization point for the parameter
// registry. A Loader reads the tables from one source, builds the registry
// and CF registry, applies session alias files and caches the result.
//
// Load is safe for concurrent use. The first call does the work; every later
// call returns the same Snapshot (or the same error).
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/cchdo/params/internal/compiler"
	"github.com/cchdo/params/internal/params"
	"github.com/cchdo/params/internal/store"
	"github.com/cchdo/params/internal/tables"
)

// Source names where the tables come from.
type Source string

const (
	SourceEmbedded Source = "embedded"
	SourceSQLite   Source = "sqlite"
	SourceCUE      Source = "cue"
)

var ErrUnknownSource = errors.New("unknown table source")

// Options configures a Loader.
type Options struct {
	Source     Source
	Database   string   // sqlite file for SourceSQLite
	TablesDir  string   // CUE package directory for SourceCUE
	AliasFiles []string // applied in order after the registry is built
	Logger     zerolog.Logger
}

// Snapshot is one loaded registry.
type Snapshot struct {
	ID        uuid.UUID
	Source    Source
	LoadedAt  time.Time
	CFVersion string
	Registry  *params.Registry
	CF        *params.CFRegistry
}

// Loader builds a Snapshot at most once.
type Loader struct {
	opts Options

	once sync.Once
	snap *Snapshot
	err  error
}

// New creates a loader. Nothing is read until Load is called.
func New(opts Options) *Loader {
	if opts.Source == "" {
		opts.Source = SourceEmbedded
	}
	return &Loader{opts: opts}
}

// Load returns the loaded snapshot, building it on first use.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	l.once.Do(func() {
		l.snap, l.err = l.load(ctx)
	})
	return l.snap, l.err
}

func (l *Loader) load(ctx context.Context) (*Snapshot, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("load id: %w", err)
	}
	log := l.opts.Logger.With().
		Str("load_id", id.String()).
		Str("source", string(l.opts.Source)).
		Logger()

	t, err := l.readTables(ctx, log)
	if err != nil {
		return nil, err
	}

	reg, err := params.FromTables(t, params.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	for _, path := range l.opts.AliasFiles {
		f, err := ReadAliasFile(path)
		if err != nil {
			return nil, err
		}
		if err := f.Apply(reg); err != nil {
			return nil, fmt.Errorf("alias file %s: %w", path, err)
		}
		log.Debug().Str("file", path).Int("aliases", len(f.Aliases)).Msg("applied alias file")
	}

	log.Info().
		Int("params", reg.Len()).
		Int("cf_names", reg.CF().Len()).
		Msg("parameter registry loaded")

	return &Snapshot{
		ID:        id,
		Source:    l.opts.Source,
		LoadedAt:  time.Now().UTC(),
		CFVersion: t.CFVersion,
		Registry:  reg,
		CF:        reg.CF(),
	}, nil
}

func (l *Loader) readTables(ctx context.Context, log zerolog.Logger) (*params.Tables, error) {
	switch l.opts.Source {
	case SourceEmbedded:
		return tables.Load()

	case SourceCUE:
		t, files, err := compiler.LoadDir(l.opts.TablesDir)
		if err != nil {
			return nil, err
		}
		if errs := compiler.Validate(t); len(errs) > 0 {
			return nil, fmt.Errorf("%s: %w (and %d more)", l.opts.TablesDir, errs[0], len(errs)-1)
		}
		log.Debug().Int("files", files).Str("dir", l.opts.TablesDir).Msg("compiled CUE tables")
		return t, nil

	case SourceSQLite:
		s, err := store.Open(l.opts.Database, store.WithLogger(log))
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.LoadTables(ctx)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, l.opts.Source)
}

var defaultLoader = New(Options{Source: SourceEmbedded, Logger: zerolog.Nop()})

// Default returns the process-wide snapshot of the embedded tables.
func Default() (*Snapshot, error) {
	return defaultLoader.Load(context.Background())
}
