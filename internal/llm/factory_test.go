package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/cobalt/internal/config"
)

func TestNewClient_GeminiRequiresKey(t *testing.T) {
	_, err := NewClient(context.Background(), config.LLMConfig{Provider: "gemini"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	// The empty provider defaults to gemini and needs the same key.
	_, err = NewClient(context.Background(), config.LLMConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestNewClient_OpenAI(t *testing.T) {
	client, err := NewClient(context.Background(), config.LLMConfig{Provider: "openai", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)

	_, err = NewClient(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)
}

func TestNewClient_Claude(t *testing.T) {
	client, err := NewClient(context.Background(), config.LLMConfig{Provider: "claude", APIKey: "sk-ant-test"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, client)
}

func TestNewClient_OllamaNeedsNoKey(t *testing.T) {
	client, err := NewClient(context.Background(), config.LLMConfig{Provider: "ollama"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), config.LLMConfig{Provider: "bard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported llm provider")
}

func TestNewClient_ProviderCaseInsensitive(t *testing.T) {
	client, err := NewClient(context.Background(), config.LLMConfig{Provider: "OpenAI", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, client)
}
