package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEngineDefaults(t *testing.T) {
	cfg, err := LoadEngine("")
	require.NoError(t, err)
	assert.Equal(t, DefaultEngineConfig(), cfg)
}

func TestLoadEngineFileAndEnvLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	content := "weight_price: 0.4\nweight_nice: 0.15\nrelax_order: prevalent_first\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENGINE_BRAND_CAP_RATIO", "0")

	cfg, err := LoadEngine(path)
	require.NoError(t, err)

	assert.InDelta(t, 0.4, cfg.WeightPrice, 1e-9)
	assert.InDelta(t, 0.15, cfg.WeightNice, 1e-9)
	assert.InDelta(t, 0.25, cfg.WeightNumeric, 1e-9)
	assert.Equal(t, "prevalent_first", cfg.RelaxOrder)
	assert.Zero(t, cfg.BrandCapRatio)
	assert.Equal(t, 7*24*time.Hour, cfg.IssuedTTL)
}

func TestLoadEngineMissingFile(t *testing.T) {
	_, err := LoadEngine(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
