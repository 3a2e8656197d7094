package session

import (
	"context"
	"time"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
)

// Store persists session state between requests.
type Store interface {
	Get(ctx context.Context, id string) (State, bool, error)
	Save(ctx context.Context, state State, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Records is the slice of the FAQ service the dashboard session drives.
type Records interface {
	Get(ctx context.Context, id string) (faq.Record, error)
	Update(ctx context.Context, id string, req faq.UpdateRequest) (faq.Record, error)
}

// Suggester computes suggestion bundles.
type Suggester interface {
	Suggest(ctx context.Context, req enhancer.AnswerRequest) (enhancer.SuggestionResult, error)
}
