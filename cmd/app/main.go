package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/faq-admin/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New().With("component", "main")

	app, cleanup, err := initializeApp()
	if err != nil {
		log.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("application stopped with error", "error", err)
		cleanup()
		stop()
		os.Exit(1)
	}
	cleanup()
}
