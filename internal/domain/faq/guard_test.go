package faq

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

func TestCheckDuplicate(t *testing.T) {
	clock := fixedClock(time.Unix(1718000000, 0))
	existing := []Record{
		NewRecord(RecordInput{ID: "a", Question: "How do I post a job?", Answer: "Jobs tab."}, clock),
	}

	err := CheckDuplicate(existing, NewRecord(RecordInput{ID: "b", Question: "how do i POST a job?", Answer: "x"}, clock))
	require.True(t, errors.Is(err, ErrDuplicateQuestion))
	require.True(t, apperrors.IsCode(err, CodeDuplicateQuestion))
	require.Contains(t, err.Error(), "How do I post a job?")

	err = CheckDuplicate(existing, NewRecord(RecordInput{ID: "a", Question: "Something else", Answer: "x"}, clock))
	require.True(t, errors.Is(err, ErrDuplicateID))
	require.True(t, apperrors.IsCode(err, CodeDuplicateID))

	require.NoError(t, CheckDuplicate(existing, NewRecord(RecordInput{ID: "c", Question: "Something else", Answer: "x"}, clock)))
	require.NoError(t, CheckDuplicate(nil, existing[0]))
}

func TestCheckDuplicate_FirstMatchingRecordWins(t *testing.T) {
	existing := []Record{
		{ID: "first", Question: "Alpha"},
		{ID: "second", Question: "Beta"},
	}
	err := CheckDuplicate(existing, Record{ID: "first", Question: "beta"})
	require.True(t, errors.Is(err, ErrDuplicateID))

	err = CheckDuplicate(existing, Record{ID: "second", Question: "beta"})
	require.True(t, errors.Is(err, ErrDuplicateQuestion))
}
