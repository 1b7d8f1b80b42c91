package core

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/agenthands/cobalt/internal/core/model"
)

// ErrSessionClosed reports a turn attempted after Close. It is the only
// error a session surfaces; pipeline failures come back as sentinel
// answers, not errors.
var ErrSessionClosed = errors.New("session is closed")

// Session holds one conversation: an ordered, append-only transcript living
// in process memory. Created by Engine.NewSession and disposed with Close;
// nothing is persisted. Turns within one session are serialized, separate
// sessions are independent.
type Session struct {
	ID string

	engine *Engine

	mu     sync.Mutex
	turns  []model.Turn
	closed bool
}

func (e *Engine) NewSession() *Session {
	return &Session{
		ID:     uuid.New().String(),
		engine: e,
	}
}

// TurnResult carries one completed turn: the answer plus the context block
// that was handed to generation (a sentinel when retrieval degraded).
type TurnResult struct {
	Answer  string `json:"answer"`
	Context string `json:"context"`
}

// Ask runs one turn: append the user turn, retrieve context, generate the
// answer, append the assistant turn. Both turns land in the transcript even
// when retrieval or generation degrades to a sentinel.
func (s *Session) Ask(ctx context.Context, question string) (TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return TurnResult{}, ErrSessionClosed
	}

	s.turns = append(s.turns, model.Turn{Role: model.RoleUser, Content: question})

	contextText := s.engine.Retrieve(ctx, question)
	answer := s.engine.Generate(ctx, contextText, question)

	s.turns = append(s.turns, model.Turn{Role: model.RoleAssistant, Content: answer})
	s.trim()

	return TurnResult{Answer: answer, Context: contextText}, nil
}

// History returns a copy of the transcript in order.
func (s *Session) History() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Close disposes the session and drops its transcript. Idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	s.turns = nil
}

// trim enforces the configured history cap, dropping whole user/assistant
// pairs from the front. A cap of zero keeps everything.
func (s *Session) trim() {
	max := s.engine.Config.Chat.MaxTurns
	if max <= 0 || len(s.turns) <= max {
		return
	}
	excess := len(s.turns) - max
	if excess%2 == 1 {
		excess++
	}
	if excess >= len(s.turns) {
		s.turns = s.turns[:0]
		return
	}
	s.turns = append([]model.Turn(nil), s.turns[excess:]...)
}
