package faq

import "errors"

// Error codes surfaced through apperrors.AppError.
const (
	CodeInvalidInput      = "invalid_input"
	CodeDuplicateQuestion = "duplicate_question"
	CodeDuplicateID       = "duplicate_id"
	CodeNotFound          = "not_found"
	CodeLoadFailed        = "load_failed"
	CodeSaveFailed        = "save_failed"
)

var (
	// ErrDuplicateQuestion is returned when a record with the same case-folded question exists.
	ErrDuplicateQuestion = errors.New("duplicate question")
	// ErrDuplicateID is returned when a record with the same id exists.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrNotFound is returned when an id does not match any record.
	ErrNotFound = errors.New("faq not found")
)
