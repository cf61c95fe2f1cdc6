package main

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-emotive/internal/config"
)

func TestPassedFlagsOverrideConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 30\naddr: \":9000\"\n"), 0o644))

	fs := flag.NewFlagSet("emotived", flag.ContinueOnError)
	fl := newFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path, "-catalog", "my.yaml", "-store", "mascot", "-watch-catalog"}))

	cfg, err := config.Load(fl.configPath)
	require.NoError(t, err)
	fl.apply(fs, cfg)

	assert.Equal(t, 30, cfg.FPS, "unset flag keeps the file value")
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "my.yaml", cfg.CatalogPath)
	assert.Equal(t, "mascot", cfg.Storage.AppName)
	assert.True(t, cfg.WatchCatalog)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestPassedFlagBeatsConfigValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fps: 30\n"), 0o644))

	fs := flag.NewFlagSet("emotived", flag.ContinueOnError)
	fl := newFlags(fs)
	require.NoError(t, fs.Parse([]string{"-config", path, "-fps", "24"}))

	cfg, err := config.Load(fl.configPath)
	require.NoError(t, err)
	fl.apply(fs, cfg)
	assert.Equal(t, 24, cfg.FPS)
}
