package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/infra/config"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
)

const legacyFixture = `[
  {"question": "How do I post a new job?", "answer": "Open Job Postings and click Create."},
  {"question": "How do I invite a teammate?", "answer": "Go to Team Settings and send an invite."},
  {"question": "How do I post a new job?", "answer": "Duplicate entry."},
  {"question": "", "answer": "Missing question."}
]`

func testDefaults(dir string) config.FAQConfig {
	return config.FAQConfig{
		Path:       filepath.Join(dir, "enhanced_faqs.json"),
		Purpose:    "faq",
		LegacyPath: filepath.Join(dir, "faq.json"),
		Backup:     config.BackupConfig{Keep: 20},
	}
}

func run(t *testing.T, defaults config.FAQConfig, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(defaults, &out, io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func migrated(t *testing.T) config.FAQConfig {
	t.Helper()
	dir := t.TempDir()
	defaults := testDefaults(dir)
	require.NoError(t, os.WriteFile(defaults.LegacyPath, []byte(legacyFixture), 0o644))

	out, err := run(t, defaults, "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "imported 2 of 4 records")
	require.Contains(t, out, "(skipped 2)")
	require.Contains(t, out, "duplicate: How do I post a new job?")
	return defaults
}

func storedRecords(t *testing.T, path string) []faq.Record {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := faq.DecodeRecords(data, time.Now)
	require.NoError(t, err)
	return records
}

func TestMigrateWritesEnhancedFile(t *testing.T) {
	defaults := migrated(t)

	records := storedRecords(t, defaults.Path)
	require.Len(t, records, 2)
	require.Equal(t, "How do I post a new job?", records[0].Question)
	require.Equal(t, faq.CategoryGeneral, records[0].Category)

	out, err := run(t, defaults, "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "imported 0 of 4 records")
}

func TestMigrateKeepsQuestionsSharingAPrefix(t *testing.T) {
	defaults := testDefaults(t.TempDir())
	legacy := `[
  {"question": "How do I reset my password?", "answer": "Use the Forgot password link."},
  {"question": "How do I reset my email address?", "answer": "Change it under Account settings."}
]`
	require.NoError(t, os.WriteFile(defaults.LegacyPath, []byte(legacy), 0o644))

	out, err := run(t, defaults, "migrate")
	require.NoError(t, err)
	require.Contains(t, out, "imported 2 of 2 records")

	records := storedRecords(t, defaults.Path)
	require.Len(t, records, 2)
	require.NotEqual(t, records[0].ID, records[1].ID)
}

func TestMigrateMissingLegacyFile(t *testing.T) {
	_, err := run(t, testDefaults(t.TempDir()), "migrate")
	require.Error(t, err)
}

func TestSearchAndShow(t *testing.T) {
	defaults := migrated(t)

	out, err := run(t, defaults, "search", "teammate")
	require.NoError(t, err)
	require.Contains(t, out, "How do I invite a teammate?")
	require.NotContains(t, out, "post a new job")

	out, err = run(t, defaults, "search", "nothing-matches-this")
	require.NoError(t, err)
	require.Contains(t, out, "no matching FAQs")

	id := storedRecords(t, defaults.Path)[1].ID
	out, err = run(t, defaults, "show", id, "--raw")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "# How do I invite a teammate?\n"))
	require.Contains(t, out, "Go to Team Settings and send an invite.")

	out, err = run(t, defaults, "show", id)
	require.NoError(t, err)
	require.Contains(t, out, "teammate")

	_, err = run(t, defaults, "show", "faq-general-missing-000000")
	require.Error(t, err)
}

func TestExport(t *testing.T) {
	defaults := migrated(t)
	target := filepath.Join(filepath.Dir(defaults.Path), "all.json")

	out, err := run(t, defaults, "export", "--out", target)
	require.NoError(t, err)
	require.Contains(t, out, "wrote 2 records")
	require.Len(t, storedRecords(t, target), 2)

	out, err = run(t, defaults, "export", "--category", "job_posting", "--out", "-")
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(out))
}

func TestExportCSV(t *testing.T) {
	defaults := migrated(t)

	out, err := run(t, defaults, "export", "--format", "csv", "--out", "-")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "id,category,question,answer,question_length,answer_length", lines[0])

	_, err = run(t, defaults, "export", "--format", "xml", "--out", "-")
	require.Error(t, err)
}

func TestPruneBackups(t *testing.T) {
	dir := t.TempDir()
	defaults := testDefaults(dir)
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		name := faqfile.BackupName("faq", base.Add(time.Duration(i)*time.Second))
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644))
	}

	out, err := run(t, defaults, "prune-backups", "--keep", "1")
	require.NoError(t, err)
	require.Contains(t, out, "3 backups removed")

	left, err := faqfile.ListBackups(dir, "faq")
	require.NoError(t, err)
	require.Equal(t, []string{faqfile.BackupName("faq", base.Add(3*time.Second))}, left)

	_, err = run(t, defaults, "prune-backups", "--keep", "0")
	require.Error(t, err)
}
