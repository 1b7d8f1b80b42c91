package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/agenthands/cobalt/internal/app"
)

func main() {
	dataDir := flag.String("data", "", "fixture directory (defaults to the configured data dir)")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	ctx := context.Background()
	a, err := app.New(ctx, app.Options{ConfigPath: *configPath, SkipLLM: true})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close(ctx)

	dir := *dataDir
	if dir == "" {
		dir = a.Config.Data.Dir
	}

	report, err := a.Engine.LoadFixtures(ctx, dir)
	if err != nil {
		a.Log.Fatal("fixture load failed", "dir", dir, "error", err)
	}

	nodes, err := a.Store.CountNodes(ctx)
	if err != nil {
		a.Log.Warn("failed to count nodes", "error", err)
	}
	rels, err := a.Store.CountRelationships(ctx)
	if err != nil {
		a.Log.Warn("failed to count relationships", "error", err)
	}

	a.Log.Info("load complete",
		"products", report.Products,
		"suppliers", report.Suppliers,
		"warehouses", report.Warehouses,
		"routes", report.Routes,
		"relationships", report.Relationships,
		"graph_nodes", nodes,
		"graph_relationships", rels)
}
