package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	FAQ     FAQConfig     `yaml:"faq"`
	Session SessionConfig `yaml:"session"`
	Auth    AuthConfig    `yaml:"auth"`
	MCP     MCPConfig     `yaml:"mcp"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
	// EnhanceRequestsPerMinute is a separate, usually tighter, budget for the
	// model-backed /enhance endpoints. Zero shares RequestsPerMinute.
	EnhanceRequestsPerMinute int `yaml:"enhanceRequestsPerMinute"`
}

// RetryConfig configures best-effort retries. Only paths under Include are retried.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Include     []string      `yaml:"include"`
}

// LLMConfig selects the model provider used by the enhancer. An empty APIKey
// disables model-backed features.
type LLMConfig struct {
	Provider         string `yaml:"provider"`
	APIKey           string `yaml:"apiKey"`
	BaseURL          string `yaml:"baseUrl"`
	Model            string `yaml:"model"`
	EmbeddingModel   string `yaml:"embeddingModel"`
	EmbeddingAPIKey  string `yaml:"embeddingApiKey"`
	MaxContextTokens int    `yaml:"maxContextTokens"`
}

// FAQConfig controls the record store and its supporting services.
type FAQConfig struct {
	Path                string         `yaml:"path"`
	Purpose             string         `yaml:"purpose"`
	LegacyPath          string         `yaml:"legacyPath"`
	Backup              BackupConfig   `yaml:"backup"`
	Watch               WatchConfig    `yaml:"watch"`
	EnhanceOnMigrate    bool           `yaml:"enhanceOnMigrate"`
	CacheTTL            time.Duration  `yaml:"cacheTtl"`
	TrendingLimit       int            `yaml:"trendingLimit"`
	SimilarLimit        int            `yaml:"similarLimit"`
	SimilarityThreshold float64        `yaml:"similarityThreshold"`
	Redis               RedisConfig    `yaml:"redis"`
	Postgres            PostgresConfig `yaml:"postgres"`
	Mirror              MirrorConfig   `yaml:"mirror"`
}

// BackupConfig sets backup retention. Keep 0 retains every backup, -1 disables them.
type BackupConfig struct {
	Keep int `yaml:"keep"`
}

// WatchConfig controls reloading when another tool edits the backing file.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// RedisConfig contains connection information for cache storage.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings for the similarity index.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// MirrorConfig uploads every backup to an S3-compatible bucket.
type MirrorConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// SessionConfig controls the dashboard session cookie.
type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	CookieName string        `yaml:"cookieName"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
}

// AuthConfig enables bearer-token protection of the admin API.
type AuthConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"tokenTtl"`
	Admins   []AdminConfig `yaml:"admins"`
}

// AdminConfig declares one operator. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Username     string `yaml:"username"`
	PasswordHash string `yaml:"passwordHash"`
}

// MCPConfig toggles the read-only MCP endpoint.
type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setInt(&cfg.HTTP.RateLimit.EnhanceRequestsPerMinute, "HTTP_RATE_LIMIT_ENHANCE_RPM")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")

	setString(&cfg.LLM.Provider, "LLM_PROVIDER")
	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	setString(&cfg.LLM.EmbeddingAPIKey, "LLM_EMBEDDING_API_KEY")
	setInt(&cfg.LLM.MaxContextTokens, "LLM_MAX_CONTEXT_TOKENS")

	setString(&cfg.FAQ.Path, "FAQ_PATH")
	setString(&cfg.FAQ.Purpose, "FAQ_PURPOSE")
	setString(&cfg.FAQ.LegacyPath, "FAQ_LEGACY_PATH")
	setInt(&cfg.FAQ.Backup.Keep, "FAQ_BACKUP_KEEP")
	setBool(&cfg.FAQ.Watch.Enabled, "FAQ_WATCH_ENABLED")
	setDuration(&cfg.FAQ.Watch.Debounce, "FAQ_WATCH_DEBOUNCE")
	setBool(&cfg.FAQ.EnhanceOnMigrate, "FAQ_ENHANCE_ON_MIGRATE")
	setDuration(&cfg.FAQ.CacheTTL, "FAQ_CACHE_TTL")
	setInt(&cfg.FAQ.TrendingLimit, "FAQ_TRENDING_LIMIT")
	setInt(&cfg.FAQ.SimilarLimit, "FAQ_SIMILAR_LIMIT")
	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	setBool(&cfg.FAQ.Redis.Enabled, "FAQ_REDIS_ENABLED")
	setString(&cfg.FAQ.Redis.Addr, "FAQ_REDIS_ADDR")
	setString(&cfg.FAQ.Postgres.DSN, "FAQ_POSTGRES_DSN")
	if v := os.Getenv("FAQ_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.FAQ.Postgres.MaxConns = int32(parsed)
		}
	}
	setBool(&cfg.FAQ.Mirror.Enabled, "FAQ_MIRROR_ENABLED")
	setString(&cfg.FAQ.Mirror.Endpoint, "FAQ_MIRROR_ENDPOINT")
	setString(&cfg.FAQ.Mirror.AccessKey, "FAQ_MIRROR_ACCESS_KEY")
	setString(&cfg.FAQ.Mirror.SecretKey, "FAQ_MIRROR_SECRET_KEY")
	setString(&cfg.FAQ.Mirror.Bucket, "FAQ_MIRROR_BUCKET")

	setString(&cfg.Session.Secret, "SESSION_SECRET")
	setDuration(&cfg.Session.TTL, "SESSION_TTL")
	setBool(&cfg.Session.Secure, "SESSION_SECURE")

	setBool(&cfg.Auth.Enabled, "AUTH_ENABLED")
	setString(&cfg.Auth.Secret, "AUTH_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "AUTH_TOKEN_TTL")

	setBool(&cfg.MCP.Enabled, "MCP_ENABLED")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 60 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute:        120,
				Burst:                    30,
				EnhanceRequestsPerMinute: 30,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 2,
				BaseBackoff: 250 * time.Millisecond,
				Include: []string{
					"/api/v1/enhance/question",
					"/api/v1/enhance/answer",
					"/api/v1/enhance/categorize",
					"/api/v1/enhance/structure",
				},
			},
		},
		LLM: LLMConfig{
			Provider:         "openai",
			Model:            "gpt-4o-mini",
			EmbeddingModel:   "text-embedding-3-small",
			MaxContextTokens: 1500,
		},
		FAQ: FAQConfig{
			Path:                "enhanced_faqs.json",
			Purpose:             "faq",
			LegacyPath:          "faq.json",
			Backup:              BackupConfig{Keep: 20},
			Watch:               WatchConfig{Enabled: true, Debounce: 300 * time.Millisecond},
			EnhanceOnMigrate:    true,
			CacheTTL:            6 * time.Hour,
			TrendingLimit:       10,
			SimilarLimit:        3,
			SimilarityThreshold: 0.25,
			Redis:               RedisConfig{Prefix: "faq"},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
			Mirror: MirrorConfig{
				Region: "auto",
				Prefix: "faq-backups",
			},
		},
		Session: SessionConfig{
			CookieName: "faq_admin_session",
			TTL:        24 * time.Hour,
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
		if c.HTTP.RateLimit.EnhanceRequestsPerMinute < 0 {
			return errors.New("http.rateLimit.enhanceRequestsPerMinute cannot be negative")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	switch strings.ToLower(strings.TrimSpace(c.LLM.Provider)) {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("llm.provider %q must be openai or anthropic", c.LLM.Provider)
	}
	if strings.TrimSpace(c.FAQ.Path) == "" {
		return errors.New("faq.path cannot be empty")
	}
	if strings.TrimSpace(c.FAQ.Purpose) == "" {
		return errors.New("faq.purpose cannot be empty")
	}
	if c.FAQ.Backup.Keep < -1 {
		return errors.New("faq.backup.keep must be -1, 0 or positive")
	}
	if c.FAQ.CacheTTL < 0 {
		return errors.New("faq.cacheTtl cannot be negative")
	}
	if c.FAQ.TrendingLimit < 0 {
		return errors.New("faq.trendingLimit cannot be negative")
	}
	if c.FAQ.SimilarityThreshold < 0 || c.FAQ.SimilarityThreshold > 2 {
		return errors.New("faq.similarityThreshold must be between 0 and 2")
	}
	if c.FAQ.Redis.Enabled && strings.TrimSpace(c.FAQ.Redis.Addr) == "" {
		return errors.New("faq.redis.addr cannot be empty when redis cache is enabled")
	}
	if c.FAQ.Mirror.Enabled {
		if strings.TrimSpace(c.FAQ.Mirror.Endpoint) == "" || strings.TrimSpace(c.FAQ.Mirror.Bucket) == "" {
			return errors.New("faq.mirror.endpoint and faq.mirror.bucket are required when the mirror is enabled")
		}
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if strings.TrimSpace(c.Session.CookieName) == "" {
		return errors.New("session.cookieName cannot be empty")
	}
	if c.Auth.Enabled {
		if len(c.Auth.Secret) < 16 {
			return errors.New("auth.secret must be at least 16 characters when auth is enabled")
		}
		if len(c.Auth.Admins) == 0 {
			return errors.New("auth.admins cannot be empty when auth is enabled")
		}
		for i, admin := range c.Auth.Admins {
			if strings.TrimSpace(admin.Username) == "" || strings.TrimSpace(admin.PasswordHash) == "" {
				return fmt.Errorf("auth.admins[%d] needs username and passwordHash", i)
			}
		}
	}
	return nil
}
