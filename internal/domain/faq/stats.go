package faq

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	topTagLimit        = 10
	lengthRankingLimit = 5

	shortAnswerRunes   = 50
	longAnswerRunes    = 500
	shortQuestionRunes = 20
	belowAverageFactor = 0.7
)

// CategoryCount is one slice of the category distribution.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Percent  float64  `json:"percent"`
}

// TagCount is one entry of the tag leaderboard.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// LengthEntry ranks one FAQ by its combined question and answer length.
type LengthEntry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Length   int    `json:"length"`
}

// Quality counts entries that likely need editorial attention.
type Quality struct {
	ShortAnswers        int `json:"shortAnswers"`
	LongAnswers         int `json:"longAnswers"`
	ShortQuestions      int `json:"shortQuestions"`
	BelowAverageAnswers int `json:"belowAverageAnswers"`
}

// Stats summarises a collection for the dashboard.
type Stats struct {
	Total                 int             `json:"total"`
	Categories            []CategoryCount `json:"categories"`
	TopCategory           Category        `json:"topCategory,omitempty"`
	TopTags               []TagCount      `json:"topTags"`
	UniqueTags            int             `json:"uniqueTags"`
	AvgAlternateQuestions float64         `json:"avgAlternateQuestions"`
	AvgQuestionLength     float64         `json:"avgQuestionLength"`
	AvgAnswerLength       float64         `json:"avgAnswerLength"`
	LongestAnswerID       string          `json:"longestAnswerId,omitempty"`
	ShortestQuestion      int             `json:"shortestQuestion"`
	LongestQuestion       int             `json:"longestQuestion"`
	ShortestAnswer        int             `json:"shortestAnswer"`
	LongestAnswer         int             `json:"longestAnswer"`
	AvgQuestionWords      float64         `json:"avgQuestionWords"`
	AvgAnswerWords        float64         `json:"avgAnswerWords"`
	Quality               Quality         `json:"quality"`
	LongestEntries        []LengthEntry   `json:"longestEntries"`
	ShortestEntries       []LengthEntry   `json:"shortestEntries"`
}

// ComputeStats derives dashboard analytics. Lengths are counted in runes.
// Categories follow the known order; ties in tag counts are broken
// alphabetically.
func ComputeStats(records []Record) Stats {
	stats := Stats{
		Total:      len(records),
		Categories:      []CategoryCount{},
		TopTags:         []TagCount{},
		LongestEntries:  []LengthEntry{},
		ShortestEntries: []LengthEntry{},
	}
	if len(records) == 0 {
		return stats
	}

	categoryCounts := make(map[Category]int)
	tagCounts := make(map[string]int)
	answerLens := make([]int, len(records))
	entries := make([]LengthEntry, len(records))
	var altTotal, questionRunes, answerRunes, questionWords, answerWords int
	for i, r := range records {
		categoryCounts[r.Category]++
		for _, tag := range r.Tags {
			tagCounts[strings.ToLower(tag)]++
		}
		altTotal += len(r.AlternateQuestions)
		questionLen := utf8.RuneCountInString(r.Question)
		answerLen := utf8.RuneCountInString(r.Answer)
		questionRunes += questionLen
		answerRunes += answerLen
		questionWords += len(strings.Fields(r.Question))
		answerWords += len(strings.Fields(r.Answer))
		answerLens[i] = answerLen
		entries[i] = LengthEntry{ID: r.ID, Question: r.Question, Length: questionLen + answerLen}

		if i == 0 || questionLen < stats.ShortestQuestion {
			stats.ShortestQuestion = questionLen
		}
		if questionLen > stats.LongestQuestion {
			stats.LongestQuestion = questionLen
		}
		if i == 0 || answerLen < stats.ShortestAnswer {
			stats.ShortestAnswer = answerLen
		}
		if answerLen > stats.LongestAnswer {
			stats.LongestAnswer = answerLen
			stats.LongestAnswerID = r.ID
		}

		if answerLen < shortAnswerRunes {
			stats.Quality.ShortAnswers++
		}
		if answerLen > longAnswerRunes {
			stats.Quality.LongAnswers++
		}
		if questionLen < shortQuestionRunes {
			stats.Quality.ShortQuestions++
		}
	}

	total := float64(len(records))
	best := 0
	for _, c := range knownCategories {
		n := categoryCounts[c]
		if n == 0 {
			continue
		}
		stats.Categories = append(stats.Categories, CategoryCount{
			Category: c,
			Count:    n,
			Percent:  round1(float64(n) / total * 100),
		})
		if n > best {
			best = n
			stats.TopCategory = c
		}
	}

	for tag, n := range tagCounts {
		stats.TopTags = append(stats.TopTags, TagCount{Tag: tag, Count: n})
	}
	sort.Slice(stats.TopTags, func(i, j int) bool {
		if stats.TopTags[i].Count != stats.TopTags[j].Count {
			return stats.TopTags[i].Count > stats.TopTags[j].Count
		}
		return stats.TopTags[i].Tag < stats.TopTags[j].Tag
	})
	stats.UniqueTags = len(stats.TopTags)
	if len(stats.TopTags) > topTagLimit {
		stats.TopTags = stats.TopTags[:topTagLimit]
	}

	avgAnswer := float64(answerRunes) / total
	for _, n := range answerLens {
		if float64(n) < avgAnswer*belowAverageFactor {
			stats.Quality.BelowAverageAnswers++
		}
	}

	stats.AvgAlternateQuestions = round1(float64(altTotal) / total)
	stats.AvgQuestionLength = round1(float64(questionRunes) / total)
	stats.AvgAnswerLength = round1(avgAnswer)
	stats.AvgQuestionWords = round1(float64(questionWords) / total)
	stats.AvgAnswerWords = round1(float64(answerWords) / total)
	stats.LongestEntries, stats.ShortestEntries = rankByLength(entries)
	return stats
}

// rankByLength returns the longest and shortest entries. Ties keep collection
// order.
func rankByLength(entries []LengthEntry) (longest, shortest []LengthEntry) {
	limit := min(lengthRankingLimit, len(entries))

	desc := append([]LengthEntry(nil), entries...)
	sort.SliceStable(desc, func(i, j int) bool { return desc[i].Length > desc[j].Length })
	asc := append([]LengthEntry(nil), entries...)
	sort.SliceStable(asc, func(i, j int) bool { return asc[i].Length < asc[j].Length })
	return desc[:limit], asc[:limit]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
