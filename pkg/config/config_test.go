package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(&mapSource{})
	require.NoError(t, err)

	assert.Equal(t, 5000, cfg.Port)
	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, "local", cfg.StorageBackend)
	assert.Equal(t, "uploads", cfg.StorageDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Empty(t, cfg.JWTSecret)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := LoadConfig(&mapSource{values: map[string]string{
		"PORT":             "8080",
		"STORAGE_DIR":      "/var/pdfs",
		"MAX_UPLOAD_BYTES": "1024",
		"ALLOWED_ORIGINS":  "https://a.example, https://b.example",
		"RATE_LIMIT_RPS":   "2.5",
	}})
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/var/pdfs", cfg.StorageDir)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestLoadConfig_InvalidIntFallsBack(t *testing.T) {
	cfg, err := LoadConfig(&mapSource{values: map[string]string{"PORT": "not-a-port"}})
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Port)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Port)
}

func TestLoadConfigFromFile_YAMLWithEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("PORT: 7000\nSTORAGE_DIR: from-file\n"), 0o644))

	t.Setenv("STORAGE_DIR", "from-env")

	cfg, err := LoadConfigFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Port)
	assert.Equal(t, "from-env", cfg.StorageDir)
}

func TestNewFileConfigSource_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("port = 1"), 0o644))

	_, err := NewFileConfigSource(path)
	assert.Error(t, err)
}

type mapSource struct {
	values map[string]string
}

func (m *mapSource) Get(key string) (string, bool) {
	val, ok := m.values[key]
	return val, ok
}

func (m *mapSource) GetWithDefault(key, defaultValue string) string {
	if val, ok := m.values[key]; ok {
		return val
	}
	return defaultValue
}
