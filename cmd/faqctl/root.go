package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	"github.com/yanqian/faq-admin/internal/infra/config"
	"github.com/yanqian/faq-admin/internal/infra/faqfile"
	"github.com/yanqian/faq-admin/pkg/logger"
)

// cli carries the flags shared by every subcommand.
type cli struct {
	defaults config.FAQConfig
	out      io.Writer
	logger   *slog.Logger

	file    string
	purpose string
	keep    int
}

func newRootCmd(defaults config.FAQConfig, out, errOut io.Writer) *cobra.Command {
	c := &cli{
		defaults: defaults,
		out:      out,
		logger:   logger.NewWithWriter(errOut, os.Getenv("LOG_LEVEL")),
	}

	root := &cobra.Command{
		Use:           "faqctl",
		Short:         "Maintain The Hire Hub FAQ file from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(errOut)
	root.PersistentFlags().StringVar(&c.file, "file", defaults.Path, "enhanced FAQ file")
	root.PersistentFlags().StringVar(&c.purpose, "purpose", defaults.Purpose, "backup name prefix")
	root.PersistentFlags().IntVar(&c.keep, "backups", defaults.Backup.Keep, "backups retained on save (0 keeps all, -1 disables)")

	root.AddCommand(
		c.migrateCmd(),
		c.exportCmd(),
		c.pruneCmd(),
		c.searchCmd(),
		c.showCmd(),
	)
	return root
}

// open loads the FAQ file. Unlike the server, a corrupt file is an error here.
func (c *cli) open(ctx context.Context) (*faqfile.Store, faq.Service, error) {
	store := faqfile.NewStore(faqfile.Config{
		Path:    c.file,
		Purpose: c.purpose,
		Keep:    c.keep,
	}, nil, time.Now, c.logger)
	if err := store.Load(ctx); err != nil {
		return nil, nil, err
	}
	svc := faq.NewService(faq.Config{}, store, nil, nil, time.Now, c.logger)
	return store, svc, nil
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, time.Minute)
}
