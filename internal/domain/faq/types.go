package faq

import (
	"strings"
	"unicode/utf8"

	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

// Minimum lengths for records entered through the dashboard, in runes after
// trimming.
const (
	MinQuestionLength = 5
	MinAnswerLength   = 10
)

// ListRequest narrows the dashboard listing. Empty fields do not filter.
type ListRequest struct {
	Query    string `form:"q"`
	Category string `form:"category"`
	Tag      string `form:"tag"`
}

// CreateRequest is the add-record form.
type CreateRequest struct {
	Question           string   `json:"question" binding:"required"`
	Answer             string   `json:"answer" binding:"required"`
	Category           string   `json:"category"`
	Tags               []string `json:"tags"`
	AlternateQuestions []string `json:"alternate_questions"`
}

// UpdateRequest replaces every editable field of an existing record.
type UpdateRequest = CreateRequest

// CheckLengths rejects questions and answers that are too short once
// surrounding whitespace is removed.
func (r CreateRequest) CheckLengths() error {
	if utf8.RuneCountInString(strings.TrimSpace(r.Question)) < MinQuestionLength {
		return apperrors.Wrap(CodeInvalidInput, "question must be at least 5 characters", nil)
	}
	if utf8.RuneCountInString(strings.TrimSpace(r.Answer)) < MinAnswerLength {
		return apperrors.Wrap(CodeInvalidInput, "answer must be at least 10 characters", nil)
	}
	return nil
}

// ExportRequest scopes a download. Category wins over Tags when both are set.
// Format is json (the default) or csv.
type ExportRequest struct {
	Category string   `form:"category"`
	Tags     []string `form:"tags"`
	Format   string   `form:"format"`
}

// ExportResult carries the serialised payload and a suggested file name.
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	Count       int
}

// RecategorizeRequest moves records to Target. An empty From means every record.
type RecategorizeRequest struct {
	From   string `json:"from"`
	Target string `json:"target" binding:"required"`
}

// TagsRequest lists tags to append to every record.
type TagsRequest struct {
	Tags []string `json:"tags" binding:"required,min=1"`
}

// BulkResult reports how many records a bulk operation touched.
type BulkResult struct {
	Updated int `json:"updated"`
}

// MigrationReport summarises a legacy import.
type MigrationReport struct {
	Total      int      `json:"total"`
	Imported   int      `json:"imported"`
	Enhanced   int      `json:"enhanced"`
	Skipped    int      `json:"skipped"`
	Duplicates []string `json:"duplicates"`
}

// TrendingQuery represents a frequently searched phrase.
type TrendingQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
