package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/cobalt/internal/config"
	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/graph"
	"github.com/agenthands/cobalt/internal/llm"
	"github.com/agenthands/cobalt/internal/logging"
)

func newTestEngine() (*Engine, *MockSearcher, *MockEncoder, *MockLLM) {
	cfg := config.Default()
	cfg.Embedding.Dimensions = 3

	searcher := &MockSearcher{}
	encoder := &MockEncoder{Vector: []float32{0.1, 0.2, 0.3}}
	mockLLM := &MockLLM{Response: "An answer."}

	e := NewEngine(nil, mockLLM, encoder, cfg, logging.NewNop())
	e.Searcher = searcher
	return e, searcher, encoder, mockLLM
}

func TestRetrieve(t *testing.T) {
	e, searcher, encoder, _ := newTestEngine()
	searcher.Matches = []model.ProductMatch{
		{
			ID:          "p1",
			Name:        "Wireless Headphones",
			Description: "Noise cancelling headphones.",
			Score:       0.92,
			Suppliers:   []model.SupplierRef{{Name: "Nordwind Electronics"}},
			Warehouses:  []model.WarehouseRef{{Name: "Berlin Central", Location: "Berlin"}},
		},
	}

	got := e.Retrieve(context.Background(), "What headphones are in stock?")

	expected := "Product: Wireless Headphones\n" +
		"Description: Noise cancelling headphones.\n" +
		"Supplied by: Nordwind Electronics\n" +
		"Stored at: Berlin Central in Berlin\n" +
		"---\n"
	assert.Equal(t, expected, got)

	// The question embedding and configured k reach the searcher unchanged.
	assert.Equal(t, "What headphones are in stock?", encoder.LastText)
	assert.Equal(t, encoder.Vector, searcher.Embedding)
	assert.Equal(t, e.Config.Retrieval.TopK, searcher.K)
}

func TestRetrieve_MultipleMatches(t *testing.T) {
	e, searcher, _, _ := newTestEngine()
	searcher.Matches = []model.ProductMatch{
		{Name: "Wireless Headphones", Description: "Headphones.", Score: 0.9},
		{Name: "Bluetooth Speaker", Description: "Speaker.", Score: 0.7},
	}

	got := e.Retrieve(context.Background(), "audio gear")

	// Best match first, one block per product, no supplier or warehouse
	// lines when the lists are empty.
	expected := "Product: Wireless Headphones\n" +
		"Description: Headphones.\n" +
		"---\n" +
		"Product: Bluetooth Speaker\n" +
		"Description: Speaker.\n" +
		"---\n"
	assert.Equal(t, expected, got)
}

func TestRetrieve_NoMatches(t *testing.T) {
	e, _, _, _ := newTestEngine()

	got := e.Retrieve(context.Background(), "anything")
	assert.Equal(t, "No relevant context found.", got)
}

func TestRetrieve_EncodeError(t *testing.T) {
	e, _, encoder, _ := newTestEngine()
	encoder.Err = fmt.Errorf("model not loaded")

	got := e.Retrieve(context.Background(), "anything")
	assert.Equal(t, "Error retrieving context.", got)
}

func TestRetrieve_WrongDimensions(t *testing.T) {
	e, _, encoder, _ := newTestEngine()
	encoder.Vector = []float32{0.1, 0.2}

	got := e.Retrieve(context.Background(), "anything")
	assert.Equal(t, "Error retrieving context.", got)
}

func TestRetrieve_SearchError(t *testing.T) {
	e, searcher, _, _ := newTestEngine()
	searcher.Err = fmt.Errorf("db down")

	got := e.Retrieve(context.Background(), "anything")
	assert.Equal(t, "Error retrieving context.", got)
}

func TestGenerate(t *testing.T) {
	e, _, _, mockLLM := newTestEngine()
	mockLLM.Response = "Stocked in Berlin."

	got := e.Generate(context.Background(), "some context", "Where are they?")
	assert.Equal(t, "Stocked in Berlin.", got)

	require.Len(t, mockLLM.Prompts, 1)
	prompt := mockLLM.Prompts[0]
	assert.Contains(t, prompt, "Use the following context to answer the question.")
	assert.Contains(t, prompt, "Context: some context")
	assert.Contains(t, prompt, "Question: Where are they?")
	assert.Contains(t, prompt, "Answer:")
}

func TestGenerate_SentinelContextStillSent(t *testing.T) {
	e, _, _, mockLLM := newTestEngine()

	// A degraded retrieval hands its sentinel to the model like any other
	// context; the turn is never aborted.
	e.Generate(context.Background(), NoContextSentinel, "Where are they?")

	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], "Context: No relevant context found.")
}

func TestGenerate_EmptyResponse(t *testing.T) {
	e, _, _, mockLLM := newTestEngine()
	mockLLM.Err = llm.ErrEmptyResponse

	got := e.Generate(context.Background(), "ctx", "q")
	assert.Equal(t, "No response received from Gemini.", got)
}

func TestGenerate_BlankResponse(t *testing.T) {
	e, _, _, mockLLM := newTestEngine()
	mockLLM.Response = "   \n"

	got := e.Generate(context.Background(), "ctx", "q")
	assert.Equal(t, "No response received from Gemini.", got)
}

func TestGenerate_Error(t *testing.T) {
	e, _, _, mockLLM := newTestEngine()
	mockLLM.Err = fmt.Errorf("quota exceeded")

	got := e.Generate(context.Background(), "ctx", "q")
	assert.Equal(t, "Error generating response.", got)
}

func writeLoadFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"products.json": `[
			{"id": "p1", "name": "Widget", "description": "A widget.", "price": 9.99, "category": "Tools"},
			{"id": "p2", "name": "Gadget", "description": "A gadget.", "price": 19.5, "category": "Tools"}
		]`,
		"suppliers.json":     `[{"id": "s1", "name": "Acme", "location": "Berlin", "specialization": "Tools"}]`,
		"warehouses.json":    `[{"id": "w1", "name": "Central", "location": "Berlin", "capacity": 100}]`,
		"routes.json":        `[{"from": "w1", "to": "w1", "distance": 0, "duration": 0}]`,
		"relationships.json": `[{"supplier_id": "s1", "product_id": "p1", "warehouse_id": "w1"}]`,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

func newLoadEngine(mockDriver *MockDriver) (*Engine, *MockEncoder) {
	cfg := config.Default()
	cfg.Embedding.Dimensions = 3

	encoder := &MockEncoder{Vector: []float32{0.1, 0.2, 0.3}}
	store := graph.NewStore(mockDriver, cfg.Embedding.Dimensions)
	e := NewEngine(store, &MockLLM{}, encoder, cfg, logging.NewNop())
	return e, encoder
}

func TestLoadFixtures(t *testing.T) {
	dir := writeLoadFixtures(t)
	mockDriver := &MockDriver{}
	e, encoder := newLoadEngine(mockDriver)

	report, err := e.LoadFixtures(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Products)
	assert.Equal(t, 1, report.Suppliers)
	assert.Equal(t, 1, report.Warehouses)
	assert.Equal(t, 1, report.Routes)
	assert.Equal(t, 1, report.Relationships)

	// Strict phase order: index, products, suppliers, warehouses, routes,
	// then both edges per relationship record.
	require.Len(t, mockDriver.Queries, 8)
	assert.Contains(t, mockDriver.Queries[0], "CREATE VECTOR INDEX")
	assert.Contains(t, mockDriver.Queries[1], "MERGE (p:Product")
	assert.Contains(t, mockDriver.Queries[2], "MERGE (p:Product")
	assert.Contains(t, mockDriver.Queries[3], "MERGE (s:Supplier")
	assert.Contains(t, mockDriver.Queries[4], "MERGE (w:Warehouse")
	assert.Contains(t, mockDriver.Queries[5], "CONNECTED_TO")
	assert.Contains(t, mockDriver.Queries[6], "SUPPLIES")
	assert.Contains(t, mockDriver.Queries[7], "STORED_AT")

	// Embeddings come from the description text.
	assert.Equal(t, "A gadget.", encoder.LastText)
}

func TestLoadFixtures_Rerun(t *testing.T) {
	dir := writeLoadFixtures(t)
	mockDriver := &MockDriver{}
	e, _ := newLoadEngine(mockDriver)

	_, err := e.LoadFixtures(context.Background(), dir)
	require.NoError(t, err)
	report, err := e.LoadFixtures(context.Background(), dir)
	require.NoError(t, err)

	// Rerunning issues the same merge-by-id queries; dedup happens in the
	// store, not here.
	assert.Equal(t, 2, report.Products)
	assert.Len(t, mockDriver.Queries, 16)
}

func TestLoadFixtures_EncodeError(t *testing.T) {
	dir := writeLoadFixtures(t)
	e, encoder := newLoadEngine(&MockDriver{})
	encoder.Err = fmt.Errorf("model not loaded")

	_, err := e.LoadFixtures(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed")
}

func TestLoadFixtures_DimensionMismatch(t *testing.T) {
	dir := writeLoadFixtures(t)
	e, encoder := newLoadEngine(&MockDriver{})
	encoder.Vector = []float32{0.1, 0.2}

	_, err := e.LoadFixtures(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimensions")
}

func TestLoadFixtures_MissingFile(t *testing.T) {
	e, _ := newLoadEngine(&MockDriver{})

	_, err := e.LoadFixtures(context.Background(), t.TempDir())
	assert.Error(t, err)
}

func TestLoadFixtures_StoreError(t *testing.T) {
	dir := writeLoadFixtures(t)
	mockDriver := &MockDriver{Err: fmt.Errorf("db down")}
	e, _ := newLoadEngine(mockDriver)

	_, err := e.LoadFixtures(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}
