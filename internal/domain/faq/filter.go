package faq

import "strings"

// Filter returns the records whose question, answer, tags or alternate questions
// contain query, ignoring case. A blank query returns every record. Order is kept.
func Filter(records []Record, query string) []Record {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return CloneAll(records)
	}
	out := make([]Record, 0)
	for _, r := range records {
		if matches(r, needle) {
			out = append(out, r.Clone())
		}
	}
	return out
}

func matches(r Record, needle string) bool {
	if strings.Contains(strings.ToLower(r.Question), needle) || strings.Contains(strings.ToLower(r.Answer), needle) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	for _, alt := range r.AlternateQuestions {
		if strings.Contains(strings.ToLower(alt), needle) {
			return true
		}
	}
	return false
}

// ByCategory keeps records in the given category.
func ByCategory(records []Record, category Category) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if r.Category == category {
			out = append(out, r.Clone())
		}
	}
	return out
}

// ByAnyTag keeps records carrying at least one of tags, ignoring case.
func ByAnyTag(records []Record, tags []string) []Record {
	wanted := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			wanted[t] = struct{}{}
		}
	}
	out := make([]Record, 0)
	for _, r := range records {
		for _, tag := range r.Tags {
			if _, ok := wanted[strings.ToLower(tag)]; ok {
				out = append(out, r.Clone())
				break
			}
		}
	}
	return out
}
