// Package config provides configuration types and defaults for cchdo-params.
//
// Values are resolved by viper with the usual precedence: bound flags, then
// CCHDO_PARAMS_* environment variables, then the YAML config file, then the
// defaults below. Nested keys map to env names with "." replaced by "_",
// e.g. log.level is CCHDO_PARAMS_LOG_LEVEL.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "CCHDO_PARAMS"

// Table sources.
const (
	SourceEmbedded = "embedded"
	SourceSQLite   = "sqlite"
	SourceCUE      = "cue"
)

// Log formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	ErrUnknownSource    = errors.New("unknown table source")
	ErrMissingDatabase  = errors.New("sqlite source needs a database path")
	ErrMissingTablesDir = errors.New("cue source needs a tables directory")
	ErrUnknownFormat    = errors.New("unknown log format")
)

// Config holds all configuration options.
type Config struct {
	Source     string    `mapstructure:"source"`      // embedded (default), sqlite or cue
	Database   string    `mapstructure:"database"`    // sqlite file, required for source=sqlite
	TablesDir  string    `mapstructure:"tables_dir"`  // CUE package dir, required for source=cue
	AliasFiles []string  `mapstructure:"alias_files"` // YAML session alias files
	Log        LogConfig `mapstructure:"log"`
}

// LogConfig holds logger options.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" (default) or "json"
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Source: SourceEmbedded,
		Log: LogConfig{
			Level:  "warn",
			Format: FormatConsole,
		},
	}
}

// NewViper returns a viper instance with defaults and env binding set up.
func NewViper() *viper.Viper {
	defaults := Defaults()

	v := viper.New()
	v.SetDefault("source", defaults.Source)
	v.SetDefault("database", defaults.Database)
	v.SetDefault("tables_dir", defaults.TablesDir)
	v.SetDefault("alias_files", []string{})
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and decodes the result.
// An empty path skips the file.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the source settings are usable.
func (c Config) Validate() error {
	switch c.Source {
	case SourceEmbedded:
	case SourceSQLite:
		if c.Database == "" {
			return ErrMissingDatabase
		}
	case SourceCUE:
		if c.TablesDir == "" {
			return ErrMissingTablesDir
		}
	default:
		return fmt.Errorf("%w: %q (want %s, %s or %s)", ErrUnknownSource, c.Source, SourceEmbedded, SourceSQLite, SourceCUE)
	}

	switch c.Log.Format {
	case FormatJSON, FormatConsole:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Log.Format)
	}
	return nil
}
