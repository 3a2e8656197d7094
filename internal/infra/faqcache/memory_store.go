package faqcache

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/pkg/util"
)

type cachedValue struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps enhancer replies and dashboard search counts in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]cachedValue
	trending map[string]int64
	displays map[string]string
	now      util.Clock
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]cachedValue),
		trending: make(map[string]int64),
		displays: make(map[string]string),
		now:      util.NowUTC,
	}
}

// Get implements enhancer.Cache.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	entry, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if s.hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.values, key)
		s.mu.Unlock()
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores value with an optional TTL.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.values[key] = cachedValue{value: value, expiresAt: exp}
	return nil
}

// IncrementQuery bumps the counter for a canonical query and records a display string.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trending[canonical]++
	if _, exists := s.displays[canonical]; !exists {
		s.displays[canonical] = display
	}
	return nil
}

// TopQueries returns the most frequent canonical searches.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]faq.TrendingQuery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 {
		limit = len(s.trending)
	}
	items := make([]faq.TrendingQuery, 0, len(s.trending))
	for canonical, count := range s.trending {
		display := s.displays[canonical]
		if display == "" {
			display = canonical
		}
		items = append(items, faq.TrendingQuery{Query: display, Count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Count == items[j].Count {
			return items[i].Query < items[j].Query
		}
		return items[i].Count > items[j].Count
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (s *MemoryStore) hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var (
	_ faq.SearchLog  = (*MemoryStore)(nil)
	_ enhancer.Cache = (*MemoryStore)(nil)
)
