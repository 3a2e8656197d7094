package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/faq-admin/internal/domain/auth"
	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/domain/session"
	"github.com/yanqian/faq-admin/internal/infra/backupmirror"
	"github.com/yanqian/faq-admin/internal/infra/config"
	"github.com/yanqian/faq-admin/internal/infra/faqcache"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
	"github.com/yanqian/faq-admin/internal/infra/llm"
	"github.com/yanqian/faq-admin/internal/infra/llm/chatgpt"
	"github.com/yanqian/faq-admin/internal/infra/llm/claude"
	"github.com/yanqian/faq-admin/internal/infra/sessionstore"
	"github.com/yanqian/faq-admin/internal/infra/similarity"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

// cacheStore is satisfied by both faqcache adapters.
type cacheStore interface {
	faq.SearchLog
	enhancer.Cache
}

func provideClock() faq.Clock {
	return time.Now
}

func provideFAQConfig(cfg *config.Config) faq.Config {
	return faq.Config{
		TrendingLimit:    cfg.FAQ.TrendingLimit,
		EnhanceOnMigrate: cfg.FAQ.EnhanceOnMigrate,
	}
}

func provideEnhancerConfig(cfg *config.Config) enhancer.Config {
	return enhancer.Config{
		Provider:            strings.ToLower(cfg.LLM.Provider),
		Model:               cfg.LLM.Model,
		EmbeddingModel:      cfg.LLM.EmbeddingModel,
		MaxContextTokens:    cfg.LLM.MaxContextTokens,
		CacheTTL:            cfg.FAQ.CacheTTL,
		SimilarLimit:        cfg.FAQ.SimilarLimit,
		SimilarityThreshold: cfg.FAQ.SimilarityThreshold,
	}
}

func provideSessionConfig(cfg *config.Config) session.Config {
	return session.Config{TTL: cfg.Session.TTL}
}

func provideAuthConfig(cfg *config.Config) auth.Config {
	return auth.Config{
		Enabled:  cfg.Auth.Enabled,
		Secret:   cfg.Auth.Secret,
		TokenTTL: cfg.Auth.TokenTTL,
		Admins:   toAdmins(cfg.Auth.Admins),
	}
}

func provideAuthRepository(cfg *config.Config) auth.Repository {
	return auth.NewStaticRepository(toAdmins(cfg.Auth.Admins))
}

func toAdmins(in []config.AdminConfig) []auth.Admin {
	out := make([]auth.Admin, 0, len(in))
	for _, a := range in {
		out = append(out, auth.Admin{Username: a.Username, PasswordHash: a.PasswordHash})
	}
	return out
}

func provideBackupMirror(cfg *config.Config, logger *slog.Logger) faqfile.Mirror {
	if !cfg.FAQ.Mirror.Enabled {
		return nil
	}
	mirror, err := backupmirror.NewS3Mirror(backupmirror.Config{
		Endpoint:  cfg.FAQ.Mirror.Endpoint,
		AccessKey: cfg.FAQ.Mirror.AccessKey,
		SecretKey: cfg.FAQ.Mirror.SecretKey,
		Bucket:    cfg.FAQ.Mirror.Bucket,
		Region:    cfg.FAQ.Mirror.Region,
		Prefix:    cfg.FAQ.Mirror.Prefix,
	}, logger)
	if err != nil {
		logger.Error("backup mirror disabled", "error", err)
		return nil
	}
	logger.Info("backup mirror enabled", "bucket", cfg.FAQ.Mirror.Bucket)
	return mirror
}

// provideFAQStore loads the backing file. A corrupt file is logged and the
// server starts with an empty collection; the next save backs the file up first.
func provideFAQStore(cfg *config.Config, mirror faqfile.Mirror, clock faq.Clock, logger *slog.Logger) *faqfile.Store {
	store := faqfile.NewStore(faqfile.Config{
		Path:    cfg.FAQ.Path,
		Purpose: cfg.FAQ.Purpose,
		Keep:    cfg.FAQ.Backup.Keep,
	}, mirror, clock, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Load(ctx); err != nil {
		if apperrors.IsCode(err, faq.CodeLoadFailed) {
			logger.Error("faq file unreadable, starting empty", "path", cfg.FAQ.Path, "error", err)
		} else {
			logger.Error("faq file load failed", "path", cfg.FAQ.Path, "error", err)
		}
	}
	return store
}

func provideWatcher(cfg *config.Config, store *faqfile.Store, logger *slog.Logger) (*faqfile.Watcher, error) {
	if !cfg.FAQ.Watch.Enabled {
		return nil, nil
	}
	return faqfile.NewWatcher(store, cfg.FAQ.Watch.Debounce, logger)
}

func provideValkeyClient(cfg *config.Config, logger *slog.Logger) (valkey.Client, func()) {
	noop := func() {}
	if !cfg.FAQ.Redis.Enabled {
		return nil, noop
	}
	opt, err := buildValkeyOptions(cfg)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory stores", "error", err)
		return nil, noop
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory stores", "error", err)
		return nil, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory stores", "error", err)
		client.Close()
		return nil, noop
	}
	logger.Info("valkey enabled", "addr", cfg.FAQ.Redis.Addr)
	return client, client.Close
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	if strings.Contains(cfg.FAQ.Redis.Addr, "://") {
		return valkey.ParseURL(cfg.FAQ.Redis.Addr)
	}
	return valkey.ClientOption{InitAddress: []string{cfg.FAQ.Redis.Addr}}, nil
}

func provideCacheStore(cfg *config.Config, client valkey.Client) cacheStore {
	if client == nil {
		return faqcache.NewMemoryStore()
	}
	return faqcache.NewValkeyStore(client, cfg.FAQ.Redis.Prefix)
}

func provideSearchLog(store cacheStore) faq.SearchLog {
	return store
}

func provideEnhancerCache(store cacheStore) enhancer.Cache {
	return store
}

func provideSessionStore(cfg *config.Config, client valkey.Client) session.Store {
	if client == nil {
		return sessionstore.NewMemoryStore()
	}
	return sessionstore.NewValkeyStore(client, cfg.FAQ.Redis.Prefix)
}

func provideCompleter(cfg *config.Config, logger *slog.Logger) (llm.Completer, error) {
	if strings.TrimSpace(cfg.LLM.APIKey) == "" {
		logger.Info("llm api key not set, enhancer disabled")
		return nil, nil
	}
	switch strings.ToLower(cfg.LLM.Provider) {
	case "anthropic":
		return claude.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	default:
		return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL)
	}
}

// provideEmbedder uses the OpenAI embeddings API. Anthropic has none, so an
// anthropic setup needs llm.embeddingApiKey for similarity hints.
func provideEmbedder(cfg *config.Config, logger *slog.Logger) (llm.Embedder, error) {
	key, baseURL := cfg.LLM.APIKey, cfg.LLM.BaseURL
	if strings.EqualFold(cfg.LLM.Provider, "anthropic") {
		key, baseURL = cfg.LLM.EmbeddingAPIKey, ""
	}
	if strings.TrimSpace(key) == "" || strings.TrimSpace(cfg.LLM.EmbeddingModel) == "" {
		logger.Info("embeddings not configured, similarity hints disabled")
		return nil, nil
	}
	return chatgpt.NewClient(key, baseURL)
}

func provideTokenCounter(cfg *config.Config) enhancer.TokenCounter {
	return enhancer.NewTiktokenCounter(cfg.LLM.Model)
}

func provideSimilarityIndex(cfg *config.Config, logger *slog.Logger) (enhancer.SimilarityIndex, func()) {
	fallback := similarity.NewMemoryIndex()
	noop := func() {}
	dsn := strings.TrimSpace(cfg.FAQ.Postgres.DSN)
	if dsn == "" {
		logger.Info("similarity postgres dsn not set, using memory index")
		return fallback, noop
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory index", "error", err)
		return fallback, noop
	}
	if cfg.FAQ.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.FAQ.Postgres.MaxConns
	}
	if cfg.FAQ.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.FAQ.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory index", "error", err)
		return fallback, noop
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory index", "error", err)
		pool.Close()
		return fallback, noop
	}
	if err := similarity.RunMigrations(pool, logger); err != nil {
		logger.Error("similarity migrations failed, using memory index", "error", err)
		pool.Close()
		return fallback, noop
	}
	logger.Info("similarity postgres index enabled")
	return similarity.NewPostgresIndex(pool), func() {
		pool.Close()
		logger.Info("similarity postgres pool closed")
	}
}

func provideStructurer(svc enhancer.Service) faq.Structurer {
	return svc
}

func provideSessionRecords(svc faq.Service) session.Records {
	return svc
}

func provideSuggester(svc enhancer.Service) session.Suggester {
	return svc
}
