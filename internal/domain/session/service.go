package session

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
	"github.com/yanqian/faq-admin/pkg/util"
)

const defaultTTL = 24 * time.Hour

// Service manages explicit dashboard state: which record is being edited and
// which suggestion bundle is waiting to be applied.
type Service interface {
	Current(ctx context.Context, id string) (View, error)
	SetEditing(ctx context.Context, id, recordID string) (View, error)
	ClearEditing(ctx context.Context, id string) (View, error)
	Suggest(ctx context.Context, id string) (SuggestionView, error)
	Apply(ctx context.Context, id string) (View, error)
	Discard(ctx context.Context, id string) (View, error)
}

type service struct {
	cfg       Config
	store     Store
	records   Records
	suggester Suggester
	now       util.Clock
	logger    *slog.Logger
}

// NewService constructs the session service.
func NewService(cfg Config, store Store, records Records, suggester Suggester, logger *slog.Logger) Service {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	return &service{
		cfg:       cfg,
		store:     store,
		records:   records,
		suggester: suggester,
		now:       util.NowUTC,
		logger:    logger.With("component", "session.service"),
	}
}

func (s *service) Current(ctx context.Context, id string) (View, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, state), nil
}

func (s *service) SetEditing(ctx context.Context, id, recordID string) (View, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	record, err := s.records.Get(ctx, recordID)
	if err != nil {
		return View{}, err
	}
	if state.EditingID != record.ID {
		state.Pending = nil
		state.PendingFor = ""
	}
	state.EditingID = record.ID
	if err := s.save(ctx, &state); err != nil {
		return View{}, err
	}
	return View{State: state, Editing: &record}, nil
}

func (s *service) ClearEditing(ctx context.Context, id string) (View, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	state.EditingID = ""
	state.Pending = nil
	state.PendingFor = ""
	if err := s.save(ctx, &state); err != nil {
		return View{}, err
	}
	return View{State: state}, nil
}

func (s *service) Suggest(ctx context.Context, id string) (SuggestionView, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return SuggestionView{}, err
	}
	record, err := s.editing(ctx, state)
	if err != nil {
		return SuggestionView{}, err
	}
	result, err := s.suggester.Suggest(ctx, enhancer.AnswerRequest{Question: record.Question, Answer: record.Answer})
	if err != nil {
		return SuggestionView{}, err
	}
	if !result.Available {
		return SuggestionView{View: View{State: state, Editing: &record}}, nil
	}
	suggestion := result.Suggestion
	state.Pending = &suggestion
	state.PendingFor = record.ID
	if err := s.save(ctx, &state); err != nil {
		return SuggestionView{}, err
	}
	return SuggestionView{Available: true, View: View{State: state, Editing: &record}}, nil
}

func (s *service) Apply(ctx context.Context, id string) (View, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	if state.Pending == nil || state.PendingFor == "" {
		return View{}, apperrors.Wrap(faq.CodeInvalidInput, "no pending suggestion to apply", nil)
	}
	if state.PendingFor != state.EditingID {
		return View{}, apperrors.Wrap(faq.CodeInvalidInput, "pending suggestion belongs to another record", nil)
	}
	record, err := s.records.Get(ctx, state.PendingFor)
	if err != nil {
		return View{}, err
	}
	updated, err := s.records.Update(ctx, record.ID, applySuggestion(record, *state.Pending))
	if err != nil {
		return View{}, err
	}
	state.Pending = nil
	state.PendingFor = ""
	if err := s.save(ctx, &state); err != nil {
		return View{}, err
	}
	s.logger.Info("suggestion applied", "session", state.ID, "record", updated.ID)
	return View{State: state, Editing: &updated}, nil
}

func (s *service) Discard(ctx context.Context, id string) (View, error) {
	state, err := s.load(ctx, id)
	if err != nil {
		return View{}, err
	}
	state.Pending = nil
	state.PendingFor = ""
	if err := s.save(ctx, &state); err != nil {
		return View{}, err
	}
	return s.view(ctx, state), nil
}

func (s *service) load(ctx context.Context, id string) (State, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return State{}, apperrors.Wrap(faq.CodeInvalidInput, "session id missing", nil)
	}
	state, found, err := s.store.Get(ctx, id)
	if err != nil {
		return State{}, apperrors.Wrap("session_error", "failed to load session", err)
	}
	if !found {
		return State{ID: id}, nil
	}
	state.ID = id
	return state, nil
}

func (s *service) save(ctx context.Context, state *State) error {
	state.UpdatedAt = s.now()
	if err := s.store.Save(ctx, *state, s.cfg.TTL); err != nil {
		return apperrors.Wrap("session_error", "failed to save session", err)
	}
	return nil
}

func (s *service) editing(ctx context.Context, state State) (faq.Record, error) {
	if state.EditingID == "" {
		return faq.Record{}, apperrors.Wrap(faq.CodeInvalidInput, "no record is being edited", nil)
	}
	return s.records.Get(ctx, state.EditingID)
}

// view resolves the editing record. A record deleted since it was selected is
// dropped from the view without failing the request.
func (s *service) view(ctx context.Context, state State) View {
	if state.EditingID == "" {
		return View{State: state}
	}
	record, err := s.records.Get(ctx, state.EditingID)
	if err != nil {
		s.logger.Warn("editing record unavailable", "session", state.ID, "record", state.EditingID, "error", err)
		return View{State: state}
	}
	return View{State: state, Editing: &record}
}

// applySuggestion replaces the category and appends tags and alternate
// questions the record does not already carry.
func applySuggestion(record faq.Record, suggestion faq.Suggestion) faq.UpdateRequest {
	req := faq.UpdateRequest{
		Question:           record.Question,
		Answer:             record.Answer,
		Category:           string(record.Category),
		Tags:               append([]string{}, record.Tags...),
		AlternateQuestions: append([]string{}, record.AlternateQuestions...),
	}
	if suggestion.Category != "" {
		req.Category = string(suggestion.Category)
	}
	for _, tag := range suggestion.Tags {
		if !containsFold(req.Tags, tag) {
			req.Tags = append(req.Tags, tag)
		}
	}
	for _, alt := range suggestion.AlternateQuestions {
		if !containsFold(req.AlternateQuestions, alt) {
			req.AlternateQuestions = append(req.AlternateQuestions, alt)
		}
	}
	return req
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return true
		}
	}
	return false
}
