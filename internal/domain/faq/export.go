package faq

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"unicode/utf8"

	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

// ExportFormat selects the download encoding.
type ExportFormat string

const (
	FormatJSON ExportFormat = "json"
	FormatCSV  ExportFormat = "csv"

	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

var csvHeader = []string{"id", "category", "question", "answer", "question_length", "answer_length"}

// ParseExportFormat accepts json or csv, case-insensitively. Blank means json.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(FormatJSON):
		return FormatJSON, nil
	case string(FormatCSV):
		return FormatCSV, nil
	default:
		return "", apperrors.Wrap(CodeInvalidInput, "export format must be json or csv", nil)
	}
}

// EncodeCSV writes one row per record with rune lengths for the question and answer.
func EncodeCSV(records []Record) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.ID,
			string(r.Category),
			r.Question,
			r.Answer,
			strconv.Itoa(utf8.RuneCountInString(r.Question)),
			strconv.Itoa(utf8.RuneCountInString(r.Answer)),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeExport(format ExportFormat, baseName string, records []Record) (ExportResult, error) {
	var (
		data        []byte
		err         error
		contentType string
	)
	switch format {
	case FormatCSV:
		data, err = EncodeCSV(records)
		contentType = contentTypeCSV
	default:
		data, err = EncodeRecords(records)
		contentType = contentTypeJSON
	}
	if err != nil {
		return ExportResult{}, apperrors.Wrap("faq_error", "failed to encode export", err)
	}
	return ExportResult{
		FileName:    baseName + "." + string(format),
		ContentType: contentType,
		Data:        data,
		Count:       len(records),
	}, nil
}
