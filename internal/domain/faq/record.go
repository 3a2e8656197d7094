package faq

import (
	"strconv"
	"strings"
	"time"

	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

const idWords = 4

// Clock returns the current time. Tests inject a fixed clock.
type Clock func() time.Time

// Record is a single FAQ entry.
type Record struct {
	ID                 string    `json:"id"`
	Category           Category  `json:"category"`
	Tags               []string  `json:"tags"`
	Question           string    `json:"question"`
	AlternateQuestions []string  `json:"alternate_questions"`
	Answer             string    `json:"answer"`
	CreatedAt          time.Time `json:"-"`
}

// RecordInput carries the optional fields a record is built from.
type RecordInput struct {
	ID                 string
	Question           string
	Answer             string
	Category           string
	Tags               []string
	AlternateQuestions []string
}

// ValidateInput rejects input that would produce an empty question or answer.
func ValidateInput(in RecordInput) error {
	if strings.TrimSpace(in.Question) == "" {
		return apperrors.Wrap(CodeInvalidInput, "question is required", nil)
	}
	if strings.TrimSpace(in.Answer) == "" {
		return apperrors.Wrap(CodeInvalidInput, "answer is required", nil)
	}
	return nil
}

// NewRecord builds a record from validated input, deriving an id when none is given.
func NewRecord(in RecordInput, clock Clock) Record {
	if clock == nil {
		clock = time.Now
	}
	now := clock()
	category := ParseCategory(in.Category)
	question := strings.TrimSpace(in.Question)
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = GenerateID(question, category, now)
	}
	return Record{
		ID:                 id,
		Category:           category,
		Tags:               cleanList(in.Tags),
		Question:           question,
		AlternateQuestions: cleanList(in.AlternateQuestions),
		Answer:             strings.TrimSpace(in.Answer),
		CreatedAt:          now,
	}
}

// GenerateID derives "faq-<category>-<first four words>-<last six digits of unix seconds>".
func GenerateID(question string, category Category, now time.Time) string {
	if category == "" {
		category = CategoryGeneral
	}
	stamp := strconv.FormatInt(now.Unix(), 10)
	if len(stamp) > 6 {
		stamp = stamp[len(stamp)-6:]
	}
	parts := []string{"faq", string(category)}
	if words := slugWords(question, idWords); len(words) > 0 {
		parts = append(parts, strings.Join(words, "-"))
	}
	parts = append(parts, stamp)
	return strings.Join(parts, "-")
}

// Clone returns a copy that shares no slices with r.
func (r Record) Clone() Record {
	out := r
	out.Tags = append([]string{}, r.Tags...)
	out.AlternateQuestions = append([]string{}, r.AlternateQuestions...)
	return out
}

// Input converts a record back into constructor input, keeping its id.
func (r Record) Input() RecordInput {
	return RecordInput{
		ID:                 r.ID,
		Question:           r.Question,
		Answer:             r.Answer,
		Category:           string(r.Category),
		Tags:               append([]string{}, r.Tags...),
		AlternateQuestions: append([]string{}, r.AlternateQuestions...),
	}
}

// HasTag reports whether r carries tag, ignoring case.
func (r Record) HasTag(tag string) bool {
	for _, existing := range r.Tags {
		if strings.EqualFold(existing, tag) {
			return true
		}
	}
	return false
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// CloneAll deep-copies a slice of records.
func CloneAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	return out
}
