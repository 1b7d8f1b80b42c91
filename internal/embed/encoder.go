package embed

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/cobalt/internal/config"
)

// Encoder maps text to a fixed-length vector. Implementations are read-only
// after construction and safe for concurrent use; construction may be
// expensive (model download and load) and happens once per process.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

// New builds the encoder named by the config. The zero provider is the
// local MiniLM model, which matches the dimensionality the vector index
// declares without any external service.
func New(ctx context.Context, cfg config.EmbeddingConfig) (Encoder, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "native":
		model := cfg.Model
		if model == "" {
			model = "sentence-transformers/all-MiniLM-L6-v2"
		}
		return NewNativeEncoder(model)

	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("embedding api key is required for provider openai (set EMBEDDING_API_KEY)")
		}
		model := cfg.Model
		if model == "" {
			model = "text-embedding-3-small"
		}
		return NewOpenAIEncoder(cfg.APIKey, model, cfg.BaseURL, cfg.Dimensions), nil

	case "ollama":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434"
		}
		if !strings.HasSuffix(baseURL, "/v1") {
			baseURL = fmt.Sprintf("%s/v1", strings.TrimRight(baseURL, "/"))
		}
		// Ollama ignores the key but the client requires one.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		model := cfg.Model
		if model == "" {
			model = "all-minilm"
		}
		// Dimensions stay unset: the request parameter is an OpenAI
		// extension Ollama does not accept.
		return NewOpenAIEncoder(apiKey, model, baseURL, 0), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}
