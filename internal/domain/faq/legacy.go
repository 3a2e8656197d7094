package faq

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LegacyRecord is the first-generation {question, answer} file entry.
type LegacyRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Suggestion is the structured metadata an enhancer proposes for a record.
type Suggestion struct {
	Category           Category `json:"category"`
	Tags               []string `json:"tags"`
	AlternateQuestions []string `json:"alternate_questions"`
}

// DecodeLegacy parses a legacy JSON array.
func DecodeLegacy(data []byte) ([]LegacyRecord, error) {
	var items []LegacyRecord
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode legacy records: %w", err)
	}
	return items, nil
}

// MigrateLegacy converts a legacy entry into record input. A nil suggestion
// leaves category, tags and alternate questions at their defaults.
func MigrateLegacy(item LegacyRecord, suggestion *Suggestion) RecordInput {
	in := RecordInput{
		Question: strings.TrimSpace(item.Question),
		Answer:   strings.TrimSpace(item.Answer),
	}
	if suggestion != nil {
		in.Category = string(suggestion.Category)
		in.Tags = append([]string{}, suggestion.Tags...)
		in.AlternateQuestions = append([]string{}, suggestion.AlternateQuestions...)
	}
	return in
}
