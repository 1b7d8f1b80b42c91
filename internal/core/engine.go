package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/agenthands/cobalt/internal/config"
	"github.com/agenthands/cobalt/internal/core/fixture"
	"github.com/agenthands/cobalt/internal/core/model"
	"github.com/agenthands/cobalt/internal/embed"
	"github.com/agenthands/cobalt/internal/graph"
	"github.com/agenthands/cobalt/internal/llm"
	"github.com/agenthands/cobalt/internal/logging"
)

// Sentinel strings returned by the chat path instead of errors. Callers
// treat all of them as printable answers or context; none of them aborts a
// turn.
const (
	NoContextSentinel       = "No relevant context found."
	RetrievalErrorSentinel  = "Error retrieving context."
	EmptyResponseSentinel   = "No response received from Gemini."
	GenerationErrorSentinel = "Error generating response."
)

const answerPromptTmpl = "Use the following context to answer the question.\n\nContext: %s\nQuestion: %s\nAnswer:"

// Searcher ranks stored products against a query vector. The production
// implementation is the store's brute-force scan; an indexed one can slot
// in without touching the retrieval path.
type Searcher interface {
	FindTopK(ctx context.Context, embedding []float32, k int) ([]model.ProductMatch, error)
}

// Engine wires the store, the encoder and the generation client into the
// ingestion and question-answering flows. All dependencies are passed in;
// the Engine is read-only after construction and shared across sessions.
type Engine struct {
	Store    *graph.Store
	Searcher Searcher
	LLM      llm.LLMClient
	Encoder  embed.Encoder
	Config   *config.Config
	Log      *logging.Logger
}

func NewEngine(store *graph.Store, llmClient llm.LLMClient, encoder embed.Encoder, cfg *config.Config, log *logging.Logger) *Engine {
	return &Engine{
		Store:    store,
		Searcher: store,
		LLM:      llmClient,
		Encoder:  encoder,
		Config:   cfg,
		Log:      log,
	}
}

type LoadReport struct {
	Products      int `json:"products"`
	Suppliers     int `json:"suppliers"`
	Warehouses    int `json:"warehouses"`
	Routes        int `json:"routes"`
	Relationships int `json:"relationships"`
}

// LoadFixtures populates the graph from the JSON fixtures under dir. The
// phases are strictly ordered: later phases MATCH nodes created by earlier
// ones. Any file, encode or store error aborts the whole run; relationship
// records naming unknown ids are silently skipped by the store queries.
func (e *Engine) LoadFixtures(ctx context.Context, dir string) (*LoadReport, error) {
	d := fixture.Dir(dir)
	report := &LoadReport{}

	if err := e.Store.EnsureVectorIndex(ctx); err != nil {
		return nil, err
	}
	e.Log.Info("vector index ready", "dimensions", e.Config.Embedding.Dimensions)

	products, err := fixture.Products(d.Products())
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		vec, err := e.Encoder.Encode(ctx, p.Description)
		if err != nil {
			return nil, fmt.Errorf("failed to embed description of product %s: %w", p.ID, err)
		}
		if len(vec) != e.Config.Embedding.Dimensions {
			return nil, fmt.Errorf("embedding for product %s has %d dimensions, index declares %d",
				p.ID, len(vec), e.Config.Embedding.Dimensions)
		}
		p.DescriptionEmbedding = vec
		if err := e.Store.UpsertProduct(ctx, p); err != nil {
			return nil, err
		}
	}
	report.Products = len(products)
	e.Log.Info("loaded products", "count", len(products))

	suppliers, err := fixture.Suppliers(d.Suppliers())
	if err != nil {
		return nil, err
	}
	for _, s := range suppliers {
		if err := e.Store.UpsertSupplier(ctx, s); err != nil {
			return nil, err
		}
	}
	report.Suppliers = len(suppliers)
	e.Log.Info("loaded suppliers", "count", len(suppliers))

	warehouses, err := fixture.Warehouses(d.Warehouses())
	if err != nil {
		return nil, err
	}
	for _, w := range warehouses {
		if err := e.Store.UpsertWarehouse(ctx, w); err != nil {
			return nil, err
		}
	}
	report.Warehouses = len(warehouses)
	e.Log.Info("loaded warehouses", "count", len(warehouses))

	routes, err := fixture.Routes(d.Routes())
	if err != nil {
		return nil, err
	}
	for _, r := range routes {
		if err := e.Store.MergeRoute(ctx, r); err != nil {
			return nil, err
		}
	}
	report.Routes = len(routes)
	e.Log.Info("loaded routes", "count", len(routes))

	links, err := fixture.Relationships(d.Relationships())
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		if err := e.Store.MergeSupplyLink(ctx, l); err != nil {
			return nil, err
		}
	}
	report.Relationships = len(links)
	e.Log.Info("loaded relationships", "count", len(links))

	return report, nil
}

// Retrieve embeds the question, ranks products and renders the context
// block. Failures come back as sentinel strings, never as errors: the chat
// path must always have something to hand to generation.
func (e *Engine) Retrieve(ctx context.Context, question string) string {
	vec, err := e.Encoder.Encode(ctx, question)
	if err != nil {
		e.Log.Error("failed to embed question", "error", err)
		return RetrievalErrorSentinel
	}
	if len(vec) != e.Config.Embedding.Dimensions {
		e.Log.Error("question embedding has wrong dimensionality",
			"got", len(vec), "want", e.Config.Embedding.Dimensions)
		return RetrievalErrorSentinel
	}

	matches, err := e.Searcher.FindTopK(ctx, vec, e.Config.Retrieval.TopK)
	if err != nil {
		e.Log.Error("similarity search failed", "error", err)
		return RetrievalErrorSentinel
	}
	if len(matches) == 0 {
		return NoContextSentinel
	}

	return renderContext(matches)
}

// Generate submits the context and question to the model and returns its
// text, degrading to a sentinel when the call fails or carries no text.
func (e *Engine) Generate(ctx context.Context, contextText, question string) string {
	prompt := fmt.Sprintf(answerPromptTmpl, contextText, question)

	answer, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, llm.ErrEmptyResponse) {
			e.Log.Warn("model returned no text")
			return EmptyResponseSentinel
		}
		e.Log.Error("generation failed", "error", err)
		return GenerationErrorSentinel
	}
	if strings.TrimSpace(answer) == "" {
		return EmptyResponseSentinel
	}

	return answer
}

// renderContext flattens ranked matches into the line-oriented block handed
// to the model, best match first.
func renderContext(matches []model.ProductMatch) string {
	var b strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&b, "Product: %s\n", m.Name)
		fmt.Fprintf(&b, "Description: %s\n", m.Description)
		for _, s := range m.Suppliers {
			fmt.Fprintf(&b, "Supplied by: %s\n", s.Name)
		}
		for _, w := range m.Warehouses {
			fmt.Fprintf(&b, "Stored at: %s in %s\n", w.Name, w.Location)
		}
		b.WriteString("---\n")
	}
	return b.String()
}
