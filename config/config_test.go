package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig_IsValid(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, Validate(cfg))

	assert.Equal(t, "CLIPTextEncode", cfg.ViewerConfig.TextEncoderClass)
	assert.Equal(t, "Prompt", cfg.ViewerConfig.CompareFields[0])
	assert.Equal(t, "Version", cfg.ViewerConfig.CompareFields[len(cfg.ViewerConfig.CompareFields)-1])
	assert.Equal(t, DefaultLogLevel, cfg.LogConfig.LogLevel)
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pnginfo.yaml")
	content := `
log_config:
  log_level: debug
  log_format: json
viewer_config:
  compare_fields: [Prompt, Seed]
  filter: "masterpiece"
render_config:
  no_color: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogConfig.LogLevel)
	assert.Equal(t, "json", cfg.LogConfig.LogFormat)
	assert.Equal(t, []string{"Prompt", "Seed"}, cfg.ViewerConfig.CompareFields)
	assert.Equal(t, "masterpiece", cfg.ViewerConfig.Filter)
	assert.True(t, cfg.RenderConfig.NoColor)
	// untouched sections keep their defaults
	assert.Equal(t, "Prompt", cfg.ViewerConfig.DisplayFields[0])
	assert.Equal(t, DefaultMaxLogSizeMB, cfg.LogConfig.MaxLogSizeMB)
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pnginfo.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"viewer_config": {"text_encoder_class": "CLIPTextEncodeSDXL"}}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "CLIPTextEncodeSDXL", cfg.ViewerConfig.TextEncoderClass)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pnginfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_config:\n  log_level: loud\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loglevel")
}

func TestLoad_EmptyFieldName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pnginfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewer_config:\n  display_fields: [Prompt, \"\"]\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_BadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pnginfo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_config: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGetConfigPath_Env(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))
	t.Setenv(EnvConfigPath, path)

	assert.Equal(t, path, GetConfigPath(""))
	assert.Equal(t, "given.yaml", GetConfigPath("given.yaml"))
}
