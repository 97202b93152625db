package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARTHPAGE_RUNTIME_PATH", dir)

	cfg, err := ParseAppConfig()
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.RuntimePath)
	assert.Equal(t, StoreSQLite, cfg.StoreBackend)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.MaxChats)
	assert.Equal(t, 300, cfg.MaxMessagesPerChat)
	assert.True(t, cfg.EnableHTTP)
	assert.False(t, cfg.IsTelegramSelected())

	assert.Equal(t, "http://localhost:11434", cfg.Providers.OllamaURL)
	assert.Equal(t, "gemini-1.5-flash", cfg.Providers.GeminiModel)
	assert.Equal(t, filepath.Join(dir, "settings.json"), cfg.GetSettingsPath())
	assert.Equal(t, filepath.Join(dir, "arthpage.db"), cfg.GetDatabasePath())
}

func TestParseAppConfig_Overrides(t *testing.T) {
	t.Setenv("ARTHPAGE_RUNTIME_PATH", t.TempDir())
	t.Setenv("ARTHPAGE_STORE", StoreBolt)
	t.Setenv("ARTHPAGE_REQUEST_TIMEOUT", "5s")
	t.Setenv("OLLAMA_DEFAULT_URL", "http://gpu-box:11434")

	cfg, err := ParseAppConfig()
	require.NoError(t, err)

	assert.Equal(t, StoreBolt, cfg.StoreBackend)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://gpu-box:11434", cfg.Providers.OllamaURL)
}

func TestParseAppConfig_Invalid(t *testing.T) {
	t.Setenv("ARTHPAGE_MAX_CHATS", "many")

	_, err := ParseAppConfig()
	assert.Error(t, err)
}

func TestGetRuntimePath_Relative(t *testing.T) {
	t.Setenv("ARTHPAGE_RUNTIME_PATH", "custom-dir")
	assert.True(t, filepath.IsAbs(GetRuntimePath()))
	assert.Equal(t, "custom-dir", filepath.Base(GetRuntimePath()))
}
