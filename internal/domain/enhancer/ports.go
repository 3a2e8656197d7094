package enhancer

import (
	"context"
	"time"

	"github.com/yanqian/faq-admin/internal/domain/faq"
)

// RecordSource exposes the current FAQ collection.
type RecordSource interface {
	All(ctx context.Context) []faq.Record
}

// Cache stores raw model replies keyed by prompt fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// IndexedQuestion is one record question with its embedding.
type IndexedQuestion struct {
	ID        string
	Question  string
	Embedding []float32
}

// Match is a nearest-neighbour hit. Lower distance is closer.
type Match struct {
	ID       string
	Question string
	Distance float64
}

// SimilarityIndex stores question embeddings for near-duplicate hints.
type SimilarityIndex interface {
	Upsert(ctx context.Context, item IndexedQuestion) error
	Delete(ctx context.Context, ids []string) error
	// Indexed maps every stored id to the question text it was embedded from.
	Indexed(ctx context.Context) (map[string]string, error)
	Nearest(ctx context.Context, embedding []float32, limit int) ([]Match, error)
}
