package faq

import (
	"strings"
	"unicode"
)

// Category groups records on the dashboard.
type Category string

const (
	CategoryDashboard           Category = "dashboard"
	CategoryCandidateManagement Category = "candidate_management"
	CategoryJobPosting          Category = "job_posting"
	CategoryInterviewScheduling Category = "interview_scheduling"
	CategoryResumeApplications  Category = "resume_applications"
	CategoryAnalyticsReporting  Category = "analytics_reporting"
	CategoryTeamCollaboration   Category = "team_collaboration"
	CategoryAIFeatures          Category = "ai_features"
	CategoryIntegrations        Category = "integrations"
	CategoryAccountSettings     Category = "account_settings"
	CategoryGeneral             Category = "general"
)

var knownCategories = []Category{
	CategoryDashboard,
	CategoryCandidateManagement,
	CategoryJobPosting,
	CategoryInterviewScheduling,
	CategoryResumeApplications,
	CategoryAnalyticsReporting,
	CategoryTeamCollaboration,
	CategoryAIFeatures,
	CategoryIntegrations,
	CategoryAccountSettings,
	CategoryGeneral,
}

// Categories lists the accepted categories in display order.
func Categories() []Category {
	out := make([]Category, len(knownCategories))
	copy(out, knownCategories)
	return out
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range knownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory maps free text such as "Analytics & Reporting" onto a known
// category. Empty or unrecognised input yields CategoryGeneral.
func ParseCategory(raw string) Category {
	var builder strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(raw)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && builder.Len() > 0 {
				builder.WriteByte('_')
			}
			pendingSep = false
			builder.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	candidate := Category(builder.String())
	if candidate.Valid() {
		return candidate
	}
	return CategoryGeneral
}
