package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "test")

	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 3001, cfg.Server.HTTP.Port)
	assert.Equal(t, "openai", cfg.GenerationProvider())

	openai := cfg.LLM.Providers["openai"]
	assert.Equal(t, ProviderTypeOpenAI, openai.Type)
	assert.Equal(t, "gpt-4o", openai.Model)
	assert.Equal(t, 500, openai.MaxTokens)
	assert.InDelta(t, 0.7, openai.Temperature, 1e-9)

	assert.Equal(t, 60*time.Second, cfg.Generation.Timeout)
	assert.InDelta(t, 0.01, cfg.Generation.SumTolerance, 1e-12)
	assert.Equal(t, "0xe22EAfa82934Be3049B5AD3B2514A123bb7F74F3", cfg.Contract.Address)
	assert.Equal(t, int64(84532), cfg.Contract.ChainID)
	assert.Equal(t, 6, cfg.Contract.USDCDecimals)
	assert.False(t, cfg.Cache.Redis.Enabled)
	assert.Equal(t, 10, cfg.Security.RateLimit.Limit)
	assert.Equal(t, time.Minute, cfg.Security.RateLimit.Window)
	assert.Equal(t, []string{"base", "freelance", "ai", "agents", "smart-wallet"}, cfg.MiniApp.Tags)
}

func TestLoadFrom_FileEnvExpansionAndOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("APP_ENV", "staging")
	t.Setenv("FI_TEST_GEMINI_KEY", "g-key")

	writeFile(t, dir, "config.yaml", `
llm:
  default_provider: gemini
  providers:
    gemini:
      type: gemini
      api_key: ${FI_TEST_GEMINI_KEY}
      model: ${FI_TEST_GEMINI_MODEL:gemini-2.5-flash}
generation:
  sum_tolerance: 0.5
  timeout: 15s
`)
	writeFile(t, dir, "config.staging.yaml", `
generation:
  timeout: 20s
server:
  http:
    port: 8080
`)

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	gemini := cfg.LLM.Providers["gemini"]
	assert.Equal(t, "g-key", gemini.APIKey)
	assert.Equal(t, "gemini-2.5-flash", gemini.Model)
	assert.Equal(t, "gemini", cfg.GenerationProvider())
	assert.InDelta(t, 0.5, cfg.Generation.SumTolerance, 1e-12)
	assert.Equal(t, 20*time.Second, cfg.Generation.Timeout)
	assert.Equal(t, 8080, cfg.Server.HTTP.Port)
}

func TestLoadFrom_ValidationErrors(t *testing.T) {
	cases := map[string]string{
		"negative tolerance": "generation:\n  sum_tolerance: -1\n",
		"unknown provider":   "generation:\n  provider: anthropic\n",
		"bad provider type":  "llm:\n  providers:\n    openai:\n      type: grpc\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "config.yaml", content)
			_, err := LoadFrom(dir)
			assert.Error(t, err)
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FI_TEST_SET", "value")

	assert.Equal(t, "a: value", expandEnv("a: ${FI_TEST_SET}"))
	assert.Equal(t, "a: value", expandEnv("a: ${FI_TEST_SET:other}"))
	assert.Equal(t, "a: https://x.io", expandEnv("a: ${FI_TEST_UNSET_URL:https://x.io}"))
	assert.Equal(t, "a: ", expandEnv("a: ${FI_TEST_UNSET_EMPTY:}"))
	assert.Equal(t, "a: ${FI_TEST_UNSET}", expandEnv("a: ${FI_TEST_UNSET}"))
}

func TestGenerationProviderFallback(t *testing.T) {
	cfg := &Config{LLM: LLMConfig{DefaultProvider: " openai "}}
	assert.Equal(t, "openai", cfg.GenerationProvider())

	cfg.Generation.Provider = "gemini"
	assert.Equal(t, "gemini", cfg.GenerationProvider())
}
