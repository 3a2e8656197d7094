package faq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// fileRecord is the flat on-disk shape. created_at is not persisted.
type fileRecord struct {
	ID                 string   `json:"id"`
	Category           string   `json:"category"`
	Tags               []string `json:"tags"`
	Question           string   `json:"question"`
	AlternateQuestions []string `json:"alternate_questions"`
	Answer             string   `json:"answer"`
}

// EncodeRecords renders records as an indented JSON array, leaving non-ASCII and
// HTML characters unescaped.
func EncodeRecords(records []Record) ([]byte, error) {
	out := make([]fileRecord, 0, len(records))
	for _, r := range records {
		out = append(out, fileRecord{
			ID:                 r.ID,
			Category:           string(r.Category),
			Tags:               nonNil(r.Tags),
			Question:           r.Question,
			AlternateQuestions: nonNil(r.AlternateQuestions),
			Answer:             r.Answer,
		})
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode records: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decoded is a parsed collection file. Skipped holds the zero-based positions
// of entries that were dropped for lacking a question or answer.
type Decoded struct {
	Records []Record
	Skipped []int
}

// DecodeRecords parses a JSON array of records and re-applies constructor
// defaults. Entries without a question or answer are dropped.
func DecodeRecords(data []byte, clock Clock) ([]Record, error) {
	decoded, err := DecodeFile(data, clock)
	if err != nil {
		return nil, err
	}
	return decoded.Records, nil
}

// DecodeFile is DecodeRecords that also reports which entries were dropped.
func DecodeFile(data []byte, clock Clock) (Decoded, error) {
	out := Decoded{Records: []Record{}}
	if len(bytes.TrimSpace(data)) == 0 {
		return out, nil
	}
	var raw []fileRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return Decoded{}, fmt.Errorf("decode records: %w", err)
	}
	for i, item := range raw {
		if strings.TrimSpace(item.Question) == "" || strings.TrimSpace(item.Answer) == "" {
			out.Skipped = append(out.Skipped, i)
			continue
		}
		out.Records = append(out.Records, NewRecord(RecordInput{
			ID:                 item.ID,
			Question:           item.Question,
			Answer:             item.Answer,
			Category:           item.Category,
			Tags:               item.Tags,
			AlternateQuestions: item.AlternateQuestions,
		}, clock))
	}
	return out, nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
