package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabulite/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.PreviewRows)
	assert.Equal(t, int64(52428800), cfg.MaxUploadBytes)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("PREVIEW_ROWS", "10")
	t.Setenv("WORK_DIR", "/tmp/conversions")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 10, cfg.PreviewRows)
	assert.Equal(t, "/tmp/conversions", cfg.WorkDir)
}

func TestLoadRejectsNonPositivePreview(t *testing.T) {
	t.Setenv("PREVIEW_ROWS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
