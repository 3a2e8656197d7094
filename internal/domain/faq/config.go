package faq

// Config holds runtime knobs for the FAQ service.
type Config struct {
	TrendingLimit int
	// EnhanceOnMigrate asks the Structurer for metadata during legacy imports.
	EnhanceOnMigrate bool
}
