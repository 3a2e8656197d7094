package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/faq-admin/internal/infra/config"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
)

// App encapsulates the HTTP server and file watcher lifecycle.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	server  *http.Server
	watcher *faqfile.Watcher
}

// NewApp is used by Wire to build the runnable app. watcher may be nil.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, watcher *faqfile.Watcher) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, watcher: watcher}
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.logger.Warn("faq file watcher unavailable", "error", err)
		}
		defer a.watcher.Stop()
	}

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address, "faq_path", a.cfg.FAQ.Path)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		a.logger.Info("shutdown signal received")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
