// Package llm holds the provider-neutral completion types shared by the
// chatgpt and claude adapters.
package llm

import (
	"context"

	"github.com/yanqian/faq-admin/pkg/metrics"
)

// CompletionRequest is a single-turn prompt.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completion is the model's text reply.
type Completion struct {
	Text  string
	Usage metrics.TokenUsage
}

// Completer is implemented by every provider adapter.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// Embedder turns text into a vector. Only some providers implement it.
type Embedder interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}
