package similarity

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
)

// MemoryIndex is an in-memory SimilarityIndex used for tests/dev.
type MemoryIndex struct {
	mu    sync.RWMutex
	items map[string]enhancer.IndexedQuestion
}

// NewMemoryIndex constructs an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{items: make(map[string]enhancer.IndexedQuestion)}
}

func (r *MemoryIndex) Upsert(_ context.Context, item enhancer.IndexedQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.Embedding = append([]float32(nil), item.Embedding...)
	r.items[item.ID] = item
	return nil
}

func (r *MemoryIndex) Delete(_ context.Context, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

func (r *MemoryIndex) Indexed(_ context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.items))
	for id, item := range r.items {
		out[id] = item.Question
	}
	return out, nil
}

func (r *MemoryIndex) Nearest(_ context.Context, embedding []float32, limit int) ([]enhancer.Match, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]enhancer.Match, 0, len(r.items))
	for _, item := range r.items {
		matches = append(matches, enhancer.Match{
			ID:       item.ID,
			Question: item.Question,
			Distance: cosineDistance(embedding, item.Embedding),
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance == matches[j].Distance {
			return matches[i].ID < matches[j].ID
		}
		return matches[i].Distance < matches[j].Distance
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// cosineDistance mirrors pgvector's <=> operator: 1 - cosine similarity.
func cosineDistance(a, b []float32) float64 {
	length := len(a)
	if len(b) < length {
		length = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < length; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}

var _ enhancer.SimilarityIndex = (*MemoryIndex)(nil)
