package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/agenthands/cobalt/internal/app"
	"github.com/agenthands/cobalt/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as-is")
	}

	ctx := context.Background()
	a, err := app.New(ctx, app.Options{})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close(ctx)

	srv := server.New(a.Engine, a.Log)
	r := srv.SetupRouter()

	a.Log.Info("starting server", "port", a.Config.Server.Port)
	if err := r.Run(":" + a.Config.Server.Port); err != nil {
		a.Log.Fatal("server stopped", "error", err)
	}
}
