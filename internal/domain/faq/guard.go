package faq

import (
	"fmt"

	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

// CheckDuplicate scans existing in order and rejects candidate at the first
// record whose question matches case-insensitively or whose id is equal. When
// a single record matches both, the question collision is reported.
func CheckDuplicate(existing []Record, candidate Record) error {
	for _, r := range existing {
		if sameQuestion(r.Question, candidate.Question) {
			return apperrors.Wrap(CodeDuplicateQuestion, fmt.Sprintf("question already exists: %s", r.Question), ErrDuplicateQuestion)
		}
		if r.ID == candidate.ID {
			return apperrors.Wrap(CodeDuplicateID, fmt.Sprintf("id already exists: %s", r.ID), ErrDuplicateID)
		}
	}
	return nil
}
