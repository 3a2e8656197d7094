package faq

import "context"

// SearchLog records dashboard searches for the trending panel.
type SearchLog interface {
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// Structurer proposes category, tags and alternate questions for a Q/A pair.
type Structurer interface {
	Structure(ctx context.Context, question, answer string) (Suggestion, error)
}
