package app

import (
	"context"
	"fmt"
	"os"

	"github.com/agenthands/cobalt/internal/config"
	"github.com/agenthands/cobalt/internal/core"
	"github.com/agenthands/cobalt/internal/driver"
	"github.com/agenthands/cobalt/internal/embed"
	"github.com/agenthands/cobalt/internal/graph"
	"github.com/agenthands/cobalt/internal/llm"
	"github.com/agenthands/cobalt/internal/logging"
)

// App is the wired service: config, logger, store and engine, shared by
// every binary. Construction order is logger, config, driver, encoder,
// generation client, engine; the first failure wins.
type App struct {
	Config *config.Config
	Log    *logging.Logger
	Driver *driver.Neo4jDriver
	Store  *graph.Store
	Engine *core.Engine
}

type Options struct {
	ConfigPath string
	// SkipLLM leaves the generation client out for binaries that never
	// generate (the loader). Engine.LLM is nil in that case.
	SkipLLM bool
}

func New(ctx context.Context, opts Options) (*App, error) {
	log, err := logging.New(os.Getenv("LOG_MODE"))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = os.Getenv("CONFIG_PATH")
	}
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d, err := driver.NewNeo4jDriver(ctx, cfg.Neo4j.URI, cfg.Neo4j.Username, cfg.Neo4j.Password)
	if err != nil {
		return nil, err
	}
	log.Info("connected to neo4j", "uri", cfg.Neo4j.URI)

	store := graph.NewStore(d, cfg.Embedding.Dimensions)

	encoder, err := embed.New(ctx, cfg.Embedding)
	if err != nil {
		_ = d.Close(ctx)
		return nil, fmt.Errorf("failed to initialize encoder: %w", err)
	}
	log.Info("encoder ready", "provider", cfg.Embedding.Provider, "model", cfg.Embedding.Model)

	var llmClient llm.LLMClient
	if !opts.SkipLLM {
		llmClient, err = llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			_ = d.Close(ctx)
			return nil, fmt.Errorf("failed to initialize llm client: %w", err)
		}
		log.Info("llm client ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)
	}

	engine := core.NewEngine(store, llmClient, encoder, cfg, log)

	return &App{
		Config: cfg,
		Log:    log,
		Driver: d,
		Store:  store,
		Engine: engine,
	}, nil
}

func (a *App) Close(ctx context.Context) {
	if a.Driver != nil {
		_ = a.Driver.Close(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
