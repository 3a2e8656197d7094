package faq

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	clock := fixedClock(time.Unix(1718000000, 0))
	return []Record{
		NewRecord(RecordInput{
			ID:       "faq-job",
			Question: "How do I post a job?",
			Answer:   "Open the Jobs tab.",
			Category: "job_posting",
			Tags:     []string{"Jobs"},
		}, clock),
		NewRecord(RecordInput{
			ID:                 "faq-dash",
			Question:           "Where is the dashboard?",
			Answer:             "Top left.",
			Category:           "dashboard",
			Tags:               []string{"navigation"},
			AlternateQuestions: []string{"How do I find the home screen?"},
		}, clock),
	}
}

func TestFilter(t *testing.T) {
	records := sampleRecords()

	got := Filter(records, "job")
	require.Len(t, got, 1)
	require.Equal(t, "faq-job", got[0].ID)

	all := Filter(records, "   ")
	require.Len(t, all, 2)
	require.Equal(t, "faq-job", all[0].ID)
	require.Equal(t, "faq-dash", all[1].ID)

	byAlternate := Filter(records, "HOME SCREEN")
	require.Len(t, byAlternate, 1)
	require.Equal(t, "faq-dash", byAlternate[0].ID)

	byTag := Filter(records, "navig")
	require.Len(t, byTag, 1)

	require.Empty(t, Filter(records, "payroll"))
}

func TestByCategoryAndTags(t *testing.T) {
	records := sampleRecords()

	require.Len(t, ByCategory(records, CategoryDashboard), 1)
	require.Empty(t, ByCategory(records, CategoryIntegrations))

	tagged := ByAnyTag(records, []string{"jobs", "missing"})
	require.Len(t, tagged, 1)
	require.Equal(t, "faq-job", tagged[0].ID)
	require.Empty(t, ByAnyTag(records, nil))
}
