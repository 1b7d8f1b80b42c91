package main

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/agenthands/cobalt/internal/app"
	"github.com/agenthands/cobalt/internal/logging"
	"github.com/agenthands/cobalt/internal/tui"
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

	// Engine log lines would tear the alternate screen; failures still
	// surface as sentinel answers in the transcript.
	a.Engine.Log = logging.NewNop()

	session := a.Engine.NewSession()
	defer session.Close()

	p := tea.NewProgram(tui.New(session), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Chat UI failed: %v", err)
	}
}
