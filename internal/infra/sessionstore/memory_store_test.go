package sessionstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/domain/session"
)

func TestMemoryStore_SaveGetExpire(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	pending := &faq.Suggestion{Category: faq.CategoryDashboard, Tags: []string{"ui"}}
	require.NoError(t, store.Save(ctx, session.State{ID: "s1", EditingID: "faq-1", Pending: pending, PendingFor: "faq-1"}, time.Minute))

	pending.Tags[0] = "mutated"
	got, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "faq-1", got.EditingID)
	require.Equal(t, []string{"ui"}, got.Pending.Tags)

	now = now.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, session.State{ID: "s1"}, 0))
	require.NoError(t, store.Delete(ctx, "s1"))
	_, ok, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.False(t, ok)
}
