package core

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/cobalt/internal/core/model"
)

type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]interface{}
	Queries       []string
	MockResult    neo4j.EagerResult
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	m.Queries = append(m.Queries, query)
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	return m.MockResult, nil
}

func (m *MockDriver) VerifyConnectivity(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}

type MockEncoder struct {
	Vector   []float32
	Err      error
	LastText string
}

func (m *MockEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	m.LastText = text
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Vector, nil
}

func (m *MockEncoder) Dimensions() int {
	return len(m.Vector)
}

type MockSearcher struct {
	Embedding []float32
	K         int
	Matches   []model.ProductMatch
	Err       error
}

func (m *MockSearcher) FindTopK(ctx context.Context, embedding []float32, k int) ([]model.ProductMatch, error) {
	m.Embedding = embedding
	m.K = k
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Matches, nil
}

type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
