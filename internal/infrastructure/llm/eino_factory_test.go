package llm

import (
	"context"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"freelance-invoice-api/internal/config"
)

func newTestFactory(providers map[string]config.ProviderConfig) *EinoFactory {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "openai"
	cfg.LLM.Providers = providers
	return NewEinoFactory(cfg)
}

func TestEinoFactory_Errors(t *testing.T) {
	f := newTestFactory(map[string]config.ProviderConfig{
		"openai":  {Type: "openai"},
		"unknown": {Type: "anthropic", APIKey: "k"},
	})

	_, err := f.Get(context.Background(), "missing")
	assert.ErrorContains(t, err, "provider missing not found")

	_, err = f.Default(context.Background())
	assert.ErrorContains(t, err, "api key not configured")

	_, err = f.Get(context.Background(), "unknown")
	assert.ErrorContains(t, err, `unsupported provider type "anthropic"`)
}

func TestEinoFactory_CachesModels(t *testing.T) {
	f := newTestFactory(map[string]config.ProviderConfig{
		"openai": {Type: "openai", APIKey: "sk-test", Model: "gpt-4o", MaxTokens: 500, Temperature: 0.7, Timeout: time.Second},
	})

	first, err := f.Default(context.Background())
	require.NoError(t, err)
	second, err := f.Get(context.Background(), "openai")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestNewGeminiChatModel(t *testing.T) {
	_, err := NewGeminiChatModel(context.Background(), config.ProviderConfig{Type: "gemini"})
	assert.ErrorContains(t, err, "API key is required")

	m, err := NewGeminiChatModel(context.Background(), config.ProviderConfig{Type: "gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, geminiDefaultModel, m.model)
	assert.Equal(t, "Gemini", m.GetType())
	assert.True(t, m.IsCallbacksEnabled())
}

func TestToGenAIRequest(t *testing.T) {
	contents, cfg := toGenAIRequest([]*schema.Message{
		schema.SystemMessage("You plan milestones."),
		schema.SystemMessage("Reply with JSON."),
		nil,
		schema.UserMessage("Design a logo"),
		schema.AssistantMessage("[]", nil),
	})

	require.NotNil(t, cfg.SystemInstruction)
	require.Len(t, cfg.SystemInstruction.Parts, 1)
	assert.Equal(t, "You plan milestones.\n\nReply with JSON.", cfg.SystemInstruction.Parts[0].Text)

	require.Len(t, contents, 2)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	assert.Equal(t, "Design a logo", contents[0].Parts[0].Text)
	assert.Equal(t, string(genai.RoleModel), contents[1].Role)

	_, cfg = toGenAIRequest([]*schema.Message{schema.UserMessage("hi")})
	assert.Nil(t, cfg.SystemInstruction)
}
