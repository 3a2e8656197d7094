package enhancer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/infra/llm"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
	"github.com/yanqian/faq-admin/pkg/jsonutil"
	"github.com/yanqian/faq-admin/pkg/metrics"
)

// CodeLLMError marks provider failures on operations that cannot degrade.
const CodeLLMError = "llm_error"

// ErrUnavailable is returned by Structure when no model is configured.
var ErrUnavailable = errors.New("enhancer unavailable")

// Service drafts and rephrases FAQ content with a language model. Every
// operation degrades to an "unavailable" result when no model is configured.
type Service interface {
	Status(ctx context.Context, live bool) Status
	ImproveQuestion(ctx context.Context, req QuestionRequest) (TextResult, error)
	ImproveAnswer(ctx context.Context, req AnswerRequest) (TextResult, error)
	GenerateAnswer(ctx context.Context, req QuestionRequest) (TextResult, error)
	GenerateFAQs(ctx context.Context, req TopicRequest) (DraftsResult, error)
	Categorize(ctx context.Context, req AnswerRequest) (CategoryResult, error)
	Suggest(ctx context.Context, req AnswerRequest) (SuggestionResult, error)
	Structure(ctx context.Context, question, answer string) (faq.Suggestion, error)
	Related(ctx context.Context, req AnswerRequest) (RelatedResult, error)
	Similar(ctx context.Context, req SimilarRequest) (SimilarResult, error)
}

type service struct {
	cfg      Config
	chat     llm.Completer
	embedder llm.Embedder
	records  RecordSource
	cache    Cache
	index    SimilarityIndex
	count    TokenCounter
	logger   *slog.Logger
}

// NewService wires the enhancer. chat, embedder, cache and index may be nil.
func NewService(cfg Config, chat llm.Completer, embedder llm.Embedder, records RecordSource, cache Cache, index SimilarityIndex, count TokenCounter, logger *slog.Logger) Service {
	if count == nil {
		count = WordCounter
	}
	return &service{
		cfg:      cfg.withDefaults(),
		chat:     chat,
		embedder: embedder,
		records:  records,
		cache:    cache,
		index:    index,
		count:    count,
		logger:   logger.With("component", "enhancer.service"),
	}
}

func (s *service) Status(ctx context.Context, live bool) Status {
	status := Status{
		Available: s.chat != nil,
		Provider:  s.cfg.Provider,
		Model:     s.cfg.Model,
		Embedding: s.embedder != nil && s.index != nil,
	}
	if !status.Available || !live {
		return status
	}
	_, err := s.chat.Complete(ctx, llm.CompletionRequest{Model: s.cfg.Model, Prompt: "Hello", MaxTokens: 5})
	if err != nil {
		s.logger.Warn("enhancer connection test failed", "error", err)
		status.Available = false
		status.Error = err.Error()
	}
	return status
}

func (s *service) ImproveQuestion(ctx context.Context, req QuestionRequest) (TextResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return TextResult{}, apperrors.Wrap(faq.CodeInvalidInput, "question cannot be empty", nil)
	}
	return s.rewrite(ctx, question, improveQuestionPrompt(question)), nil
}

func (s *service) ImproveAnswer(ctx context.Context, req AnswerRequest) (TextResult, error) {
	question, answer, err := trimPair(req)
	if err != nil {
		return TextResult{}, err
	}
	return s.rewrite(ctx, answer, improveAnswerPrompt(question, answer)), nil
}

func (s *service) GenerateAnswer(ctx context.Context, req QuestionRequest) (TextResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return TextResult{}, apperrors.Wrap(faq.CodeInvalidInput, "question cannot be empty", nil)
	}
	if s.chat == nil {
		return TextResult{Original: question}, nil
	}
	spec := generateAnswerPrompt(question, s.contextBlock(ctx))
	out, cached, err := s.complete(ctx, spec)
	if err != nil {
		return TextResult{}, apperrors.Wrap(CodeLLMError, "failed to generate answer", err)
	}
	return TextResult{Available: true, Original: question, Text: out.Text, Cached: cached, TokenUsage: usagePtr(out.Usage)}, nil
}

func (s *service) GenerateFAQs(ctx context.Context, req TopicRequest) (DraftsResult, error) {
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		return DraftsResult{}, apperrors.Wrap(faq.CodeInvalidInput, "topic cannot be empty", nil)
	}
	if s.chat == nil {
		return DraftsResult{Drafts: []Draft{}}, nil
	}
	out, _, err := s.complete(ctx, generateFAQsPrompt(topic, s.contextBlock(ctx)))
	if err != nil {
		return DraftsResult{}, apperrors.Wrap(CodeLLMError, "failed to generate faqs", err)
	}
	drafts, err := jsonutil.Decode[[]Draft](out.Text)
	if err != nil {
		return DraftsResult{}, apperrors.Wrap(CodeLLMError, "model returned malformed drafts", err)
	}
	clean := make([]Draft, 0, len(drafts))
	for _, d := range drafts {
		d.Question = strings.TrimSpace(d.Question)
		d.Answer = strings.TrimSpace(d.Answer)
		if d.Question == "" || d.Answer == "" {
			continue
		}
		clean = append(clean, d)
	}
	return DraftsResult{Available: true, Drafts: clean, TokenUsage: usagePtr(out.Usage)}, nil
}

func (s *service) Categorize(ctx context.Context, req AnswerRequest) (CategoryResult, error) {
	question, answer, err := trimPair(req)
	if err != nil {
		return CategoryResult{}, err
	}
	if s.chat == nil {
		return CategoryResult{Category: faq.CategoryGeneral}, nil
	}
	out, _, err := s.complete(ctx, categorizePrompt(question, answer))
	if err != nil {
		s.logger.Warn("enhancer categorize failed", "error", err)
		return CategoryResult{Category: faq.CategoryGeneral}, nil
	}
	return CategoryResult{Available: true, Category: faq.ParseCategory(firstLine(out.Text))}, nil
}

func (s *service) Suggest(ctx context.Context, req AnswerRequest) (SuggestionResult, error) {
	question, answer, err := trimPair(req)
	if err != nil {
		return SuggestionResult{}, err
	}
	suggestion, err := s.Structure(ctx, question, answer)
	if err != nil {
		if !errors.Is(err, ErrUnavailable) {
			s.logger.Warn("enhancer structure failed", "error", err)
		}
		return SuggestionResult{Suggestion: emptySuggestion()}, nil
	}
	return SuggestionResult{Available: true, Suggestion: suggestion}, nil
}

// Structure proposes category, tags and alternate questions. It returns an
// error instead of degrading so callers can fall back to defaults.
func (s *service) Structure(ctx context.Context, question, answer string) (faq.Suggestion, error) {
	if s.chat == nil {
		return faq.Suggestion{}, ErrUnavailable
	}
	out, _, err := s.complete(ctx, structurePrompt(strings.TrimSpace(question), strings.TrimSpace(answer)))
	if err != nil {
		return faq.Suggestion{}, apperrors.Wrap(CodeLLMError, "structure request failed", err)
	}
	raw, err := jsonutil.Decode[structuredReply](out.Text)
	if err != nil {
		return faq.Suggestion{}, apperrors.Wrap(CodeLLMError, "model returned malformed structure", err)
	}
	suggestion := faq.Suggestion{
		Category:           faq.ParseCategory(raw.Category),
		Tags:               normalizeTags(raw.Tags),
		AlternateQuestions: dropBlank(raw.AlternateQuestions),
	}
	return suggestion, nil
}

func (s *service) Related(ctx context.Context, req AnswerRequest) (RelatedResult, error) {
	question, answer, err := trimPair(req)
	if err != nil {
		return RelatedResult{}, err
	}
	if s.chat == nil {
		return RelatedResult{Questions: []string{}}, nil
	}
	records := s.allRecords(ctx)
	out, _, err := s.complete(ctx, relatedPrompt(question, answer, questionList(records, s.cfg.MaxContextTokens, s.count)))
	if err != nil {
		s.logger.Warn("enhancer related failed", "error", err)
		return RelatedResult{Questions: []string{}}, nil
	}
	candidates, err := jsonutil.Decode[[]string](out.Text)
	if err != nil {
		s.logger.Warn("enhancer related returned malformed list", "error", err)
		return RelatedResult{Questions: []string{}}, nil
	}
	known := make(map[string]struct{}, len(records)+1)
	known[strings.ToLower(question)] = struct{}{}
	for _, r := range records {
		known[strings.ToLower(r.Question)] = struct{}{}
	}
	questions := make([]string, 0, len(candidates))
	for _, c := range dropBlank(candidates) {
		key := strings.ToLower(c)
		if _, dup := known[key]; dup {
			continue
		}
		known[key] = struct{}{}
		questions = append(questions, c)
	}
	return RelatedResult{Available: true, Questions: questions}, nil
}

func (s *service) Similar(ctx context.Context, req SimilarRequest) (SimilarResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return SimilarResult{}, apperrors.Wrap(faq.CodeInvalidInput, "question cannot be empty", nil)
	}
	if s.embedder == nil || s.index == nil {
		return SimilarResult{Matches: []SimilarRecord{}}, nil
	}
	records := s.allRecords(ctx)
	if err := s.syncIndex(ctx, records); err != nil {
		s.logger.Warn("similarity index sync failed", "error", err)
		return SimilarResult{Matches: []SimilarRecord{}}, nil
	}
	embedding, err := s.embedder.Embed(ctx, s.cfg.EmbeddingModel, question)
	if err != nil {
		s.logger.Warn("similarity embedding failed", "error", err)
		return SimilarResult{Matches: []SimilarRecord{}}, nil
	}
	hits, err := s.index.Nearest(ctx, embedding, s.cfg.SimilarLimit+1)
	if err != nil {
		s.logger.Warn("similarity lookup failed", "error", err)
		return SimilarResult{Matches: []SimilarRecord{}}, nil
	}

	byID := make(map[string]faq.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}
	matches := make([]SimilarRecord, 0, len(hits))
	for _, hit := range hits {
		if hit.ID == req.ExcludeID || hit.Distance > s.cfg.SimilarityThreshold {
			continue
		}
		rec, ok := byID[hit.ID]
		if !ok {
			continue
		}
		matches = append(matches, SimilarRecord{ID: rec.ID, Question: rec.Question, Category: rec.Category, Distance: hit.Distance})
		if len(matches) == s.cfg.SimilarLimit {
			break
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	return SimilarResult{Available: true, Matches: matches}, nil
}

// syncIndex embeds records whose question is missing or changed in the index
// and deletes ids that no longer exist.
func (s *service) syncIndex(ctx context.Context, records []faq.Record) error {
	indexed, err := s.index.Indexed(ctx)
	if err != nil {
		return err
	}
	live := make(map[string]struct{}, len(records))
	for _, r := range records {
		live[r.ID] = struct{}{}
		if text, ok := indexed[r.ID]; ok && text == r.Question {
			continue
		}
		embedding, err := s.embedder.Embed(ctx, s.cfg.EmbeddingModel, r.Question)
		if err != nil {
			return err
		}
		if err := s.index.Upsert(ctx, IndexedQuestion{ID: r.ID, Question: r.Question, Embedding: embedding}); err != nil {
			return err
		}
	}
	var stale []string
	for id := range indexed {
		if _, ok := live[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return nil
	}
	sort.Strings(stale)
	return s.index.Delete(ctx, stale)
}

// rewrite runs a prompt whose reply replaces original, degrading to the
// original text on any failure.
func (s *service) rewrite(ctx context.Context, original string, spec promptSpec) TextResult {
	result := TextResult{Original: original, Text: original}
	if s.chat == nil {
		return result
	}
	out, cached, err := s.complete(ctx, spec)
	if err != nil {
		s.logger.Warn("enhancer rewrite failed", "op", spec.op, "error", err)
		return result
	}
	if text := strings.Trim(strings.TrimSpace(out.Text), `"`); text != "" {
		result.Text = text
	}
	result.Available = true
	result.Cached = cached
	result.TokenUsage = usagePtr(out.Usage)
	return result
}

func (s *service) complete(ctx context.Context, spec promptSpec) (llm.Completion, bool, error) {
	key := s.cacheKey(spec)
	if s.cache != nil {
		if text, ok, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("enhancer cache lookup failed", "error", err)
		} else if ok {
			return llm.Completion{Text: text}, true, nil
		}
	}
	out, err := s.chat.Complete(ctx, llm.CompletionRequest{
		Model:       s.cfg.Model,
		System:      systemPrompt,
		Prompt:      spec.text,
		MaxTokens:   spec.maxTokens,
		Temperature: spec.temperature,
	})
	if err != nil {
		return llm.Completion{}, false, err
	}
	s.logger.Debug("enhancer completion", "op", spec.op, "total_tokens", out.Usage.TotalTokens)
	if s.cache != nil && s.cfg.CacheTTL > 0 {
		if err := s.cache.Set(ctx, key, out.Text, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("enhancer cache store failed", "error", err)
		}
	}
	return out, false, nil
}

func (s *service) cacheKey(spec promptSpec) string {
	sum := sha256.Sum256([]byte(s.cfg.Model + "\x00" + spec.op + "\x00" + spec.text))
	return "enhance:" + spec.op + ":" + hex.EncodeToString(sum[:16])
}

func (s *service) contextBlock(ctx context.Context) string {
	return buildContext(s.allRecords(ctx), s.cfg.ContextSample, s.cfg.MaxContextTokens, s.count)
}

func (s *service) allRecords(ctx context.Context) []faq.Record {
	if s.records == nil {
		return nil
	}
	return s.records.All(ctx)
}

type structuredReply struct {
	Category           string   `json:"category"`
	Tags               []string `json:"tags"`
	AlternateQuestions []string `json:"alternate_questions"`
}

func trimPair(req AnswerRequest) (string, string, error) {
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if question == "" || answer == "" {
		return "", "", apperrors.Wrap(faq.CodeInvalidInput, "question and answer are required", nil)
	}
	return question, answer, nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.Join(strings.Fields(t), "_"))
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

func dropBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func firstLine(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.Trim(text, ` "'.-*`)
}

func emptySuggestion() faq.Suggestion {
	return faq.Suggestion{Category: faq.CategoryGeneral, Tags: []string{}, AlternateQuestions: []string{}}
}

func usagePtr(u metrics.TokenUsage) *metrics.TokenUsage {
	if u.IsZero() {
		return nil
	}
	return &u
}

var _ faq.Structurer = (*service)(nil)
