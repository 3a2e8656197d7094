package enhancer

import "time"

// Config holds runtime knobs for the enhancer.
type Config struct {
	Provider       string
	Model          string
	EmbeddingModel string
	// MaxContextTokens caps the existing-FAQ context block sent with generation prompts.
	MaxContextTokens int
	// ContextSample is how many existing records are offered as context.
	ContextSample       int
	CacheTTL            time.Duration
	SimilarLimit        int
	SimilarityThreshold float64
}

func (c Config) withDefaults() Config {
	if c.MaxContextTokens <= 0 {
		c.MaxContextTokens = 1500
	}
	if c.ContextSample <= 0 {
		c.ContextSample = 5
	}
	if c.SimilarLimit <= 0 {
		c.SimilarLimit = 3
	}
	if c.SimilarityThreshold <= 0 {
		c.SimilarityThreshold = 0.25
	}
	return c
}
