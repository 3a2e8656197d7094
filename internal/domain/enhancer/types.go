package enhancer

import (
	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/pkg/metrics"
)

// Status reports whether model-backed features can be used.
type Status struct {
	Available bool   `json:"available"`
	Provider  string `json:"provider,omitempty"`
	Model     string `json:"model,omitempty"`
	Embedding bool   `json:"embedding"`
	Error     string `json:"error,omitempty"`
}

// QuestionRequest carries a single question.
type QuestionRequest struct {
	Question string `json:"question" binding:"required"`
}

// AnswerRequest carries a question and its current answer.
type AnswerRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// TopicRequest asks for new drafts about a topic.
type TopicRequest struct {
	Topic string `json:"topic" binding:"required"`
}

// SimilarRequest looks up existing records close to Question. ExcludeID skips
// the record being edited.
type SimilarRequest struct {
	Question  string `json:"question" binding:"required"`
	ExcludeID string `json:"excludeId"`
}

// TextResult is returned by the rewrite and generation operations. When
// Available is false, Text equals Original.
type TextResult struct {
	Available  bool                `json:"available"`
	Original   string              `json:"original"`
	Text       string              `json:"text"`
	Cached     bool                `json:"cached,omitempty"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// Draft is a generated question and answer pair.
type Draft struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// DraftsResult lists generated drafts.
type DraftsResult struct {
	Available  bool                `json:"available"`
	Drafts     []Draft             `json:"drafts"`
	TokenUsage *metrics.TokenUsage `json:"tokenUsage,omitempty"`
}

// CategoryResult carries a suggested category.
type CategoryResult struct {
	Available bool         `json:"available"`
	Category  faq.Category `json:"category"`
}

// SuggestionResult wraps a structured suggestion bundle.
type SuggestionResult struct {
	Available  bool           `json:"available"`
	Suggestion faq.Suggestion `json:"suggestion"`
}

// RelatedResult lists new questions worth adding.
type RelatedResult struct {
	Available bool     `json:"available"`
	Questions []string `json:"questions"`
}

// SimilarRecord is an existing record close to the question being checked.
type SimilarRecord struct {
	ID       string       `json:"id"`
	Question string       `json:"question"`
	Category faq.Category `json:"category"`
	Distance float64      `json:"distance"`
}

// SimilarResult lists advisory near-duplicates.
type SimilarResult struct {
	Available bool            `json:"available"`
	Matches   []SimilarRecord `json:"matches"`
}
