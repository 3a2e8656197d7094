package enhancer

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/faq-admin/internal/domain/faq"
)

// TokenCounter estimates how many model tokens text consumes.
type TokenCounter func(text string) int

// NewTiktokenCounter counts with the model's BPE encoding, falling back to
// cl100k_base and finally to whitespace-separated words when no encoding loads.
func NewTiktokenCounter(model string) TokenCounter {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
	}
	if err != nil {
		return WordCounter
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}
}

// WordCounter approximates tokens by counting words.
func WordCounter(text string) int {
	return len(strings.Fields(text))
}

// buildContext formats up to sample records as Q/A pairs while the running
// total stays within budget tokens.
func buildContext(records []faq.Record, sample, budget int, count TokenCounter) string {
	if len(records) > sample {
		records = records[:sample]
	}
	var (
		parts []string
		used  int
	)
	for _, r := range records {
		entry := fmt.Sprintf("Q: %s\nA: %s", r.Question, r.Answer)
		cost := count(entry)
		if used+cost > budget {
			break
		}
		used += cost
		parts = append(parts, entry)
	}
	return strings.Join(parts, "\n")
}

func questionList(records []faq.Record, budget int, count TokenCounter) string {
	var (
		lines []string
		used  int
	)
	for _, r := range records {
		line := "- " + r.Question
		cost := count(line)
		if used+cost > budget {
			break
		}
		used += cost
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
