package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse reports a call that succeeded at the transport level but
// carried no usable text. Callers distinguish it from transport failures.
var ErrEmptyResponse = errors.New("empty model response")

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
