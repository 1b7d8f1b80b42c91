package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/agenthands/cobalt/internal/app"
)

// doctor probes every external dependency once and reports per check, so a
// broken credential or endpoint is identified before the server or loader
// trips over it.
func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	fmt.Println("Running connectivity checks...")

	a, err := app.New(ctx, app.Options{})
	if err != nil {
		fmt.Printf("FAILED: bootstrap: %v\n", err)
		os.Exit(1)
	}
	defer a.Close(ctx)

	failed := false

	fmt.Println("1. Checking store connectivity...")
	if err := a.Store.Ping(ctx); err != nil {
		fmt.Printf("FAILED: store ping: %v\n", err)
		failed = true
	} else {
		fmt.Println("PASSED: store reachable")
	}

	fmt.Println("2. Checking loaded data...")
	if count, err := a.Store.CountEmbeddedProducts(ctx); err != nil {
		fmt.Printf("FAILED: count embedded products: %v\n", err)
		failed = true
	} else {
		fmt.Printf("PASSED: %d products with embeddings\n", count)
	}

	fmt.Println("3. Checking encoder...")
	if vec, err := a.Engine.Encoder.Encode(ctx, "Hello!"); err != nil {
		fmt.Printf("FAILED: encode: %v\n", err)
		failed = true
	} else if len(vec) != a.Config.Embedding.Dimensions {
		fmt.Printf("FAILED: encoder produced %d dimensions, config declares %d\n",
			len(vec), a.Config.Embedding.Dimensions)
		failed = true
	} else {
		fmt.Printf("PASSED: encoder produces %d-dimensional vectors\n", len(vec))
	}

	fmt.Println("4. Checking generation...")
	if reply, err := a.Engine.LLM.Generate(ctx, "Hello!"); err != nil {
		fmt.Printf("FAILED: generate: %v\n", err)
		failed = true
	} else {
		if len(reply) > 80 {
			reply = reply[:80] + "..."
		}
		fmt.Printf("PASSED: model replied: %s\n", reply)
	}

	if failed {
		os.Exit(1)
	}
	fmt.Println("All checks passed.")
}
