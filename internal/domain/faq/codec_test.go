package faq

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	clock := fixedClock(time.Unix(1718000000, 0))
	records := []Record{
		NewRecord(RecordInput{
			Question:           "How do I post a job?",
			Answer:             "Open Jobs & click <New>.",
			Category:           "job_posting",
			Tags:               []string{"jobs", "posting"},
			AlternateQuestions: []string{"Where do I create a job?"},
		}, clock),
		NewRecord(RecordInput{
			ID:       "faq-general-café",
			Question: "¿Dónde está el panel?",
			Answer:   "Arriba a la izquierda.",
		}, clock),
	}

	data, err := EncodeRecords(records)
	require.NoError(t, err)
	require.Contains(t, string(data), "Jobs & click <New>")
	require.Contains(t, string(data), "¿Dónde está el panel?")
	require.Contains(t, string(data), "\n  {\n    \"id\"")

	decoded, err := DecodeRecords(data, clock)
	require.NoError(t, err)
	if diff := cmp.Diff(records, decoded, cmpopts.IgnoreFields(Record{}, "CreatedAt")); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeRecords_EmptyCollection(t *testing.T) {
	data, err := EncodeRecords(nil)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestDecodeRecords_AppliesDefaults(t *testing.T) {
	data := []byte(`[{"question":"Reset password please","answer":"Use the link.","tags":null,"category":"Unknown"}]`)
	records, err := DecodeRecords(data, fixedClock(time.Unix(1718000000, 0)))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, CategoryGeneral, records[0].Category)
	require.Equal(t, "faq-general-reset-password-please-000000", records[0].ID)
	require.Equal(t, []string{}, records[0].Tags)
	require.Equal(t, []string{}, records[0].AlternateQuestions)
}

func TestDecodeRecords_DropsIncompleteEntries(t *testing.T) {
	records, err := DecodeRecords([]byte(`[{"id":"x","question":"","answer":"a"}]`), nil)
	require.NoError(t, err)
	require.Empty(t, records)

	_, err = DecodeRecords([]byte(`{not json`), nil)
	require.Error(t, err)
}

func TestDecodeFile_ReportsSkippedPositions(t *testing.T) {
	data := []byte(`[
  {"id":"a","question":"Where is billing?","answer":"Settings."},
  {"id":"b","question":"   ","answer":"Orphaned answer."},
  {"id":"c","question":"How do I log in?","answer":"Use SSO."},
  {"id":"d","question":"No answer yet?","answer":""}
]`)
	decoded, err := DecodeFile(data, nil)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, decoded.Skipped)
	require.Len(t, decoded.Records, 2)
	require.Equal(t, "a", decoded.Records[0].ID)
	require.Equal(t, "c", decoded.Records[1].ID)
}

func TestDecodeRecords_EmptyFile(t *testing.T) {
	records, err := DecodeRecords([]byte("  \n"), nil)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestMigrateLegacy(t *testing.T) {
	items, err := DecodeLegacy([]byte(`[{"question":" How do I log in? ","answer":"Use SSO."}]`))
	require.NoError(t, err)
	require.Len(t, items, 1)

	plain := MigrateLegacy(items[0], nil)
	require.Equal(t, "How do I log in?", plain.Question)
	require.Empty(t, plain.Category)

	enhanced := MigrateLegacy(items[0], &Suggestion{
		Category:           CategoryAccountSettings,
		Tags:               []string{"login"},
		AlternateQuestions: []string{"How to sign in?"},
	})
	rec := NewRecord(enhanced, fixedClock(time.Unix(1718000000, 0)))
	require.Equal(t, CategoryAccountSettings, rec.Category)
	require.Equal(t, []string{"login"}, rec.Tags)
	require.Equal(t, []string{"How to sign in?"}, rec.AlternateQuestions)
}
