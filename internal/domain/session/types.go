package session

import (
	"time"

	"github.com/yanqian/faq-admin/internal/domain/faq"
)

// State is the dashboard presentation state of one browser session.
type State struct {
	ID        string `json:"id"`
	EditingID string `json:"editingId,omitempty"`
	// PendingFor is the record the pending suggestion was computed for.
	PendingFor string          `json:"pendingFor,omitempty"`
	Pending    *faq.Suggestion `json:"pending,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// View is returned to the dashboard.
type View struct {
	State
	Editing *faq.Record `json:"editing,omitempty"`
}

// SuggestionView reports the outcome of a suggestion request.
type SuggestionView struct {
	Available bool `json:"available"`
	View
}

// Config holds session knobs.
type Config struct {
	TTL time.Duration
}
