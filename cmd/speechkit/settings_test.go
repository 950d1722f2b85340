package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AltairaLabs/speechkit/pkg/config"
)

func TestResolveConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := resolveConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, config.Default().Spec.STT.Model, cfg.Spec.STT.Model)
	assert.Equal(t, config.DefaultServerAddr, cfg.Spec.Server.Addr)
}

func TestResolveConfig_EnvironmentOverlay(t *testing.T) {
	t.Setenv("SPEECHKIT_STT_BASE_URL", "https://stt.env")
	t.Setenv("SPEECHKIT_TTS_API_KEY", "tts-env-key")
	t.Setenv("SPEECHKIT_LOG_LEVEL", "debug")

	cfg, err := resolveConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "https://stt.env", cfg.Spec.STT.BaseURL)
	assert.Equal(t, "tts-env-key", cfg.Spec.TTS.APIKey)
	assert.Equal(t, "debug", cfg.Spec.Logging.DefaultLevel)
}

func TestResolveConfig_LegacyEnvNames(t *testing.T) {
	t.Setenv("STT_BASE_URL", "https://legacy.stt")
	t.Setenv("STT_API_KEY", "legacy-key")

	cfg, err := resolveConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "https://legacy.stt", cfg.Spec.STT.BaseURL)
	assert.Equal(t, "legacy-key", cfg.Spec.STT.APIKey)
}

func TestResolveConfig_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "speechkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
apiVersion: speechkit.altairalabs.ai/v1alpha1
kind: SpeechConfig
spec:
  stt:
    baseURL: https://from.file
    apiKey: file-key
    model: stt-telephony
`), 0o600))
	t.Setenv("SPEECHKIT_CONFIG", path)
	t.Setenv("SPEECHKIT_STT_API_KEY", "env-key")

	cfg, err := resolveConfig(newViper())
	require.NoError(t, err)
	assert.Equal(t, "https://from.file", cfg.Spec.STT.BaseURL)
	assert.Equal(t, "env-key", cfg.Spec.STT.APIKey)
	assert.Equal(t, "stt-telephony", cfg.Spec.STT.Model)
}

func TestResolveConfig_InvalidOverlay(t *testing.T) {
	t.Setenv("SPEECHKIT_LOG_FORMAT", "xml")

	_, err := resolveConfig(newViper())
	assert.ErrorContains(t, err, "logging.format")
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(""))
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "speech.env")
		require.NoError(t, os.WriteFile(path, []byte("SPEECHKIT_TEST_DOTENV=loaded\n"), 0o600))
		t.Setenv("SPEECHKIT_TEST_DOTENV", "")
		require.NoError(t, os.Unsetenv("SPEECHKIT_TEST_DOTENV"))

		require.NoError(t, loadEnvFile(path))
		assert.Equal(t, "loaded", os.Getenv("SPEECHKIT_TEST_DOTENV"))
	})

	t.Run("missing explicit file", func(t *testing.T) {
		assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	})

	t.Run("missing default file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		assert.NoError(t, loadEnvFile(defaultEnvFile))
	})
}
