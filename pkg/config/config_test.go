package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adminforms.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
listen_addr: ":9000"
api:
  base_url: https://cms.example.com/api
default_locale: th
theme:
  name: iconsiam
  variant: dark
allowed_origins:
  - https://admin.example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "https://cms.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, "th", cfg.DefaultLocale)
	assert.Equal(t, "iconsiam", cfg.Theme.Name)
	assert.Equal(t, "dark", cfg.Theme.Variant)
	assert.Equal(t, []string{"https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel, "defaults survive partial files")
}

func TestLoadEnvironmentWins(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://file.example.com/api
`)
	t.Setenv("ADMINFORMS_API_BASE_URL", "https://env.example.com/api")
	t.Setenv("ADMINFORMS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com/api", cfg.API.BaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadRequiresBaseURL(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api.base_url")
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
