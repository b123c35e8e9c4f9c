package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadIngestFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ingest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dsn: "postgres://localhost/reiz"
dialect: postgres
workers: 4
hard_limit: 1000
fast_mode: true
`), 0o644))

	cfg, err := LoadIngest(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/reiz", cfg.DSN)
	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 1000, cfg.HardLimit)
	assert.True(t, cfg.FastMode)
}

func TestLoadIngestMissingFileIsZeroValue(t *testing.T) {
	cfg, err := LoadIngest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Ingest{}, cfg)
}

func TestLoadIngestEmptyPathIsZeroValue(t *testing.T) {
	cfg, err := LoadIngest("")
	require.NoError(t, err)
	assert.Equal(t, Ingest{}, cfg)
}

func TestIngestRegisterFlagsOverridesYAMLDefault(t *testing.T) {
	cfg := Ingest{Workers: 2, Dialect: "postgres"}
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.RegisterFlags(fs)

	require.NoError(t, fs.Parse([]string{"-workers", "8"}))
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "postgres", cfg.Dialect)
}
