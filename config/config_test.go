package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.DatabaseURL)
	assert.Zero(t, cfg.Workers)
	assert.False(t, cfg.Debug)
}

func TestLoad(t *testing.T) {
	t.Setenv("LINTFX_DB", "libsql://findings.example.io")
	t.Setenv("LINTFX_WORKERS", "4")
	t.Setenv("LINTFX_DISABLE", "todo-comment, no-console,")
	t.Setenv("LINTFX_MIN_IMPACT", "high")
	t.Setenv("LINTFX_DEBUG", "true")

	cfg := Load()
	assert.Equal(t, "libsql://findings.example.io", cfg.DatabaseURL)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{"todo-comment", "no-console"}, cfg.Disabled)
	assert.Equal(t, "high", cfg.MinImpact)
	assert.True(t, cfg.Debug)
}

func TestLoad_BadValuesIgnored(t *testing.T) {
	t.Setenv("LINTFX_WORKERS", "not-a-number")
	t.Setenv("LINTFX_DEBUG", "maybe")

	cfg := Load()
	assert.Zero(t, cfg.Workers)
	assert.False(t, cfg.Debug)
}
