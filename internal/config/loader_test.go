package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_MissingFileReturnsDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "nope.json"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoader_LoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"cards_dir": "/data/cards",
		"extension": ".vcard",
		"library_path": "/usr/lib/libvcparser.so",
		"refresh_schedule": "@every 5s",
		"logging": {"level": "debug"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "/data/cards", cfg.CardsDir)
	assert.Equal(t, ".vcard", cfg.Extension)
	assert.Equal(t, "@every 5s", cfg.RefreshSchedule)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset fields keep defaults.
	assert.Equal(t, 100, cfg.StabilityThresholdMs)
}

func TestLoader_RejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"cards_dir": "/data/cards",
		"extension": "vcf",
		"library_path": "/usr/lib/libvcparser.so",
		"refresh_schedule": "@every 5s"
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := NewLoader(path).Load()
	assert.ErrorContains(t, err, "extension")
}

func TestLoader_RejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestLoader_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	loader := NewLoader(path)

	cfg := DefaultConfig()
	cfg.CardsDir = "/srv/cards"
	cfg.Metrics.Enabled = true
	require.NoError(t, loader.Save(cfg))

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/cards", loaded.CardsDir)
	assert.True(t, loaded.Metrics.Enabled)
}
