package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)

	assert.Equal(t, SourceEmbedded, cfg.Source)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, FormatConsole, cfg.Log.Format)
	assert.Empty(t, cfg.AliasFiles)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `source: sqlite
database: /tmp/params.db
alias_files:
  - cruise.yaml
  - lab.yaml
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, SourceSQLite, cfg.Source)
	assert.Equal(t, "/tmp/params.db", cfg.Database)
	assert.Equal(t, []string{"cruise.yaml", "lab.yaml"}, cfg.AliasFiles)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, FormatJSON, cfg.Log.Format)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(NewViper(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: info\n"), 0o644))

	t.Setenv("CCHDO_PARAMS_LOG_LEVEL", "error")
	t.Setenv("CCHDO_PARAMS_SOURCE", "cue")
	t.Setenv("CCHDO_PARAMS_TABLES_DIR", "/srv/tables")

	cfg, err := Load(NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, SourceCUE, cfg.Source)
	assert.Equal(t, "/srv/tables", cfg.TablesDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"sqlite with database", func(c *Config) { c.Source = SourceSQLite; c.Database = "p.db" }, nil},
		{"sqlite without database", func(c *Config) { c.Source = SourceSQLite }, ErrMissingDatabase},
		{"cue without dir", func(c *Config) { c.Source = SourceCUE }, ErrMissingTablesDir},
		{"unknown source", func(c *Config) { c.Source = "postgres" }, ErrUnknownSource},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, ErrUnknownFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
