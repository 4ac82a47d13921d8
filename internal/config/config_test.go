package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "weekly", cfg.Velocity.Granularity)
	assert.Equal(t, 12, cfg.Velocity.MaxPeriods)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "workplan.yml")
	body := "store:\n  driver: file\n  path: data/tasks.json\nvelocity:\n  granularity: monthly\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "data/tasks.json", cfg.Store.Path)
	assert.Equal(t, "monthly", cfg.Velocity.Granularity)
	// Untouched sections keep defaults.
	assert.Equal(t, "count", cfg.Burndown.Variant)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("WORKPLAN_STORE_PATH", "/tmp/override.db")
	t.Setenv("WORKPLAN_VELOCITY_MAX_PERIODS", "4")
	t.Setenv("WORKPLAN_VELOCITY_GRANULARITY", "biweekly")

	cfg := FromEnv(Default())
	assert.Equal(t, "/tmp/override.db", cfg.Store.Path)
	assert.Equal(t, 4, cfg.Velocity.MaxPeriods)
	assert.Equal(t, "biweekly", cfg.Velocity.Granularity)
}

func TestFromEnv_IgnoresMalformedInt(t *testing.T) {
	t.Setenv("WORKPLAN_VELOCITY_MAX_PERIODS", "many")
	cfg := FromEnv(Default())
	assert.Equal(t, 12, cfg.Velocity.MaxPeriods)
}
