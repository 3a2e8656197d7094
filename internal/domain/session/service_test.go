package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
	"github.com/yanqian/faq-admin/pkg/util"
)

func TestService_EditingLifecycle(t *testing.T) {
	records := newStubRecords(faq.Record{ID: "faq-1", Question: "How do I post a job?", Answer: "Use the jobs page.", Category: faq.CategoryGeneral, Tags: []string{"jobs"}})
	svc := NewService(Config{}, newMapStore(), records, &stubSuggester{}, newTestLogger())
	stamp := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	svc.(*service).now = util.FixedClock(stamp)
	ctx := context.Background()

	view, err := svc.Current(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "s1", view.ID)
	require.Nil(t, view.Editing)

	view, err = svc.SetEditing(ctx, "s1", "faq-1")
	require.NoError(t, err)
	require.Equal(t, "faq-1", view.EditingID)
	require.NotNil(t, view.Editing)
	require.Equal(t, stamp, view.UpdatedAt)

	view, err = svc.Current(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "faq-1", view.EditingID)

	_, err = svc.SetEditing(ctx, "s1", "missing")
	require.True(t, apperrors.IsCode(err, faq.CodeNotFound))

	view, err = svc.ClearEditing(ctx, "s1")
	require.NoError(t, err)
	require.Empty(t, view.EditingID)
}

func TestService_SuggestApplyMergesIntoRecord(t *testing.T) {
	records := newStubRecords(faq.Record{ID: "faq-1", Question: "How do I post a job?", Answer: "Use the jobs page.", Category: faq.CategoryGeneral, Tags: []string{"Jobs"}})
	suggester := &stubSuggester{result: enhancer.SuggestionResult{
		Available: true,
		Suggestion: faq.Suggestion{
			Category:           faq.CategoryJobPosting,
			Tags:               []string{"jobs", "posting"},
			AlternateQuestions: []string{"Where do I create a job?"},
		},
	}}
	svc := NewService(Config{}, newMapStore(), records, suggester, newTestLogger())
	ctx := context.Background()

	_, err := svc.Suggest(ctx, "s1")
	require.True(t, apperrors.IsCode(err, faq.CodeInvalidInput))

	_, err = svc.SetEditing(ctx, "s1", "faq-1")
	require.NoError(t, err)

	suggested, err := svc.Suggest(ctx, "s1")
	require.NoError(t, err)
	require.True(t, suggested.Available)
	require.NotNil(t, suggested.Pending)
	require.Equal(t, "faq-1", suggested.PendingFor)

	applied, err := svc.Apply(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, applied.Pending)
	require.Equal(t, faq.CategoryJobPosting, applied.Editing.Category)
	require.Equal(t, []string{"Jobs", "posting"}, applied.Editing.Tags)
	require.Equal(t, []string{"Where do I create a job?"}, applied.Editing.AlternateQuestions)
	require.Equal(t, 1, records.updates)

	_, err = svc.Apply(ctx, "s1")
	require.True(t, apperrors.IsCode(err, faq.CodeInvalidInput))
}

func TestService_SuggestUnavailableKeepsState(t *testing.T) {
	records := newStubRecords(faq.Record{ID: "faq-1", Question: "How do I post a job?", Answer: "Use the jobs page."})
	svc := NewService(Config{}, newMapStore(), records, &stubSuggester{}, newTestLogger())
	ctx := context.Background()

	_, err := svc.SetEditing(ctx, "s1", "faq-1")
	require.NoError(t, err)
	out, err := svc.Suggest(ctx, "s1")
	require.NoError(t, err)
	require.False(t, out.Available)
	require.Nil(t, out.Pending)
}

func TestService_SwitchingRecordDropsPending(t *testing.T) {
	records := newStubRecords(
		faq.Record{ID: "a", Question: "Question A?", Answer: "Answer A here."},
		faq.Record{ID: "b", Question: "Question B?", Answer: "Answer B here."},
	)
	suggester := &stubSuggester{result: enhancer.SuggestionResult{Available: true, Suggestion: faq.Suggestion{Category: faq.CategoryDashboard}}}
	svc := NewService(Config{}, newMapStore(), records, suggester, newTestLogger())
	ctx := context.Background()

	_, err := svc.SetEditing(ctx, "s1", "a")
	require.NoError(t, err)
	_, err = svc.Suggest(ctx, "s1")
	require.NoError(t, err)

	view, err := svc.SetEditing(ctx, "s1", "b")
	require.NoError(t, err)
	require.Nil(t, view.Pending)

	view, err = svc.Discard(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "b", view.EditingID)
}

func TestService_StoreFailure(t *testing.T) {
	svc := NewService(Config{}, failingStore{}, newStubRecords(), &stubSuggester{}, newTestLogger())
	_, err := svc.Current(context.Background(), "s1")
	require.True(t, apperrors.IsCode(err, "session_error"))

	_, err = svc.Current(context.Background(), "")
	require.True(t, apperrors.IsCode(err, faq.CodeInvalidInput))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mapStore struct {
	states map[string]State
}

func newMapStore() *mapStore {
	return &mapStore{states: make(map[string]State)}
}

func (m *mapStore) Get(_ context.Context, id string) (State, bool, error) {
	state, ok := m.states[id]
	return state, ok, nil
}

func (m *mapStore) Save(_ context.Context, state State, _ time.Duration) error {
	m.states[state.ID] = state
	return nil
}

func (m *mapStore) Delete(_ context.Context, id string) error {
	delete(m.states, id)
	return nil
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) (State, bool, error) {
	return State{}, false, errors.New("boom")
}
func (failingStore) Save(context.Context, State, time.Duration) error { return errors.New("boom") }
func (failingStore) Delete(context.Context, string) error             { return errors.New("boom") }

type stubRecords struct {
	records map[string]faq.Record
	updates int
}

func newStubRecords(records ...faq.Record) *stubRecords {
	out := &stubRecords{records: make(map[string]faq.Record)}
	for _, r := range records {
		out.records[r.ID] = r
	}
	return out
}

func (s *stubRecords) Get(_ context.Context, id string) (faq.Record, error) {
	r, ok := s.records[id]
	if !ok {
		return faq.Record{}, apperrors.Wrap(faq.CodeNotFound, "not found", faq.ErrNotFound)
	}
	return r, nil
}

func (s *stubRecords) Update(_ context.Context, id string, req faq.UpdateRequest) (faq.Record, error) {
	s.updates++
	r := s.records[id]
	r.Question = req.Question
	r.Answer = req.Answer
	r.Category = faq.ParseCategory(req.Category)
	r.Tags = req.Tags
	r.AlternateQuestions = req.AlternateQuestions
	s.records[id] = r
	return r, nil
}

type stubSuggester struct {
	result enhancer.SuggestionResult
}

func (s *stubSuggester) Suggest(context.Context, enhancer.AnswerRequest) (enhancer.SuggestionResult, error) {
	return s.result, nil
}
