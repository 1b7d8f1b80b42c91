package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/cobalt/internal/config"
)

func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key is required for provider gemini (set GEMINI_API_KEY)")
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-1.5-flash"
		}
		return NewGeminiClient(ctx, cfg.APIKey, model)

	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key is required for provider openai (set LLM_API_KEY)")
		}
		model := cfg.Model
		if model == "" {
			model = "gpt-4o-mini"
		}
		return NewOpenAIClient(cfg.APIKey, model, cfg.BaseURL), nil

	case "claude":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key is required for provider claude (set LLM_API_KEY)")
		}
		model := cfg.Model
		if model == "" {
			model = "claude-3-5-haiku-latest"
		}
		return NewClaudeClient(cfg.APIKey, model, cfg.BaseURL), nil

	case "ollama":
		// Ollama speaks the OpenAI API under /v1; the key is ignored but
		// the client requires one.
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		model := cfg.Model
		if model == "" {
			model = "llama3.2"
		}
		return NewOpenAIClient(apiKey, model, baseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}
