package faq

import "context"

// Repository persists the record collection.
type Repository interface {
	// Load replaces the in-memory collection with the backing file's content.
	Load(ctx context.Context) error
	// Save writes the collection, backing up the previous file first.
	Save(ctx context.Context) error
	Add(ctx context.Context, record Record) error
	// Replace swaps the record with id for replacement, keeping its position.
	Replace(ctx context.Context, id string, replacement Record) error
	// Remove drops id. Unknown ids are not an error.
	Remove(ctx context.Context, id string) error
	All(ctx context.Context) []Record
	// Export returns the bytes Save would write.
	Export(ctx context.Context) ([]byte, error)
	// Mutate applies fn to a copy of the collection and persists the result
	// when fn reports at least one change.
	Mutate(ctx context.Context, fn func(records []Record) ([]Record, int)) (int, error)
}
