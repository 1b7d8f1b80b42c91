package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type QueryCall struct {
	Query  string
	Params map[string]interface{}
}

// MockDriver records every executed query. QueryExecuted and QueryParams
// hold the last call; Calls holds all of them in order.
type MockDriver struct {
	QueryExecuted string
	QueryParams   map[string]interface{}
	Calls         []QueryCall
	MockResult    neo4j.EagerResult
	Err           error
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	m.QueryExecuted = query
	m.QueryParams = params
	m.Calls = append(m.Calls, QueryCall{Query: query, Params: params})
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
