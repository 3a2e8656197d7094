//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/faq-admin/internal/bootstrap"
	"github.com/yanqian/faq-admin/internal/domain/auth"
	"github.com/yanqian/faq-admin/internal/domain/enhancer"
	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/domain/session"
	"github.com/yanqian/faq-admin/internal/infra/config"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
	httpiface "github.com/yanqian/faq-admin/internal/interface/http"
	mcpiface "github.com/yanqian/faq-admin/internal/interface/mcp"
	"github.com/yanqian/faq-admin/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideClock,
		provideFAQConfig,
		provideEnhancerConfig,
		provideSessionConfig,
		provideAuthConfig,
		provideBackupMirror,
		provideFAQStore,
		provideWatcher,
		provideValkeyClient,
		provideCacheStore,
		provideSearchLog,
		provideEnhancerCache,
		provideSessionStore,
		provideCompleter,
		provideEmbedder,
		provideTokenCounter,
		provideSimilarityIndex,
		provideStructurer,
		provideSessionRecords,
		provideSuggester,
		provideAuthRepository,
		enhancer.NewService,
		faq.NewService,
		session.NewService,
		auth.NewService,
		wire.Bind(new(faq.Repository), new(*faqfile.Store)),
		wire.Bind(new(enhancer.RecordSource), new(*faqfile.Store)),
		mcpiface.NewEndpoint,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
