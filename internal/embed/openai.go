package embed

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEncoder calls an embeddings endpoint speaking the OpenAI API. With
// a non-zero dimensions value the request asks the model to project down to
// that size (text-embedding-3-* supports this); zero leaves the parameter
// off for compatible servers like Ollama that reject it.
type OpenAIEncoder struct {
	client     *openai.Client
	model      string
	dimensions int
}

func NewOpenAIEncoder(apiKey, model, baseURL string, dimensions int) *OpenAIEncoder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIEncoder{
		client:     openai.NewClientWithConfig(cfg),
		model:      model,
		dimensions: dimensions,
	}
}

func (e *OpenAIEncoder) Dimensions() int {
	return e.dimensions
}

func (e *OpenAIEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	}
	if e.dimensions > 0 {
		req.Dimensions = e.dimensions
	}

	resp, err := e.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding data in response")
	}
	return resp.Data[0].Embedding, nil
}
