package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearModelEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MODEL_PROVIDER", "GEMINI_API_KEY", "VITE_GEMINI_API_KEY", "GIGACHAT_API_KEY",
		"LOCALE", "GITHUB_REPO", "GITHUB_TOKEN", "MODEL_TIMEOUT_SECONDS", "MODEL_EXTRACT_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearModelEnv(t)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.Port)
	assert.Equal(t, ModelProviderNone, cfg.Model.Provider)
	assert.Equal(t, "zh-TW", cfg.Locale)
	assert.Equal(t, 20*time.Second, cfg.Model.Timeout)
	assert.Equal(t, 60*time.Second, cfg.Model.ExtractTimeout)
	assert.InDelta(t, 0.3, cfg.Model.Temperature, 0.0001)
	assert.InDelta(t, 40, cfg.Model.TopK, 0.0001)
	assert.InDelta(t, 0.95, cfg.Model.TopP, 0.0001)
	assert.Equal(t, int32(1024), cfg.Model.MaxTokens)
	assert.False(t, cfg.GitHub.Enabled())
}

func TestLoad_ModelProvider(t *testing.T) {
	t.Run("gemini key selects gemini by default", func(t *testing.T) {
		clearModelEnv(t)
		t.Setenv("GEMINI_API_KEY", "g-key")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, ModelProviderGemini, cfg.Model.Provider)
		assert.Equal(t, "g-key", cfg.Gemini.APIKey)
	})

	t.Run("gigachat without key is rejected", func(t *testing.T) {
		clearModelEnv(t)
		t.Setenv("MODEL_PROVIDER", "gigachat")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "GIGACHAT_API_KEY")
	})

	t.Run("unknown provider is rejected", func(t *testing.T) {
		clearModelEnv(t)
		t.Setenv("MODEL_PROVIDER", "openai")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoad_LocaleAndGitHub(t *testing.T) {
	t.Run("unknown locale", func(t *testing.T) {
		clearModelEnv(t)
		t.Setenv("LOCALE", "fr")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("github repo must contain owner", func(t *testing.T) {
		clearModelEnv(t)
		t.Setenv("GITHUB_REPO", "just-a-repo")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("github enabled with token and repo", func(t *testing.T) {
		clearModelEnv(t)
		t.Setenv("GITHUB_REPO", "owner/repo")
		t.Setenv("GITHUB_TOKEN", "tok")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.GitHub.Enabled())
	})
}
