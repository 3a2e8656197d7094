package main

import (
	"fmt"
	"os"

	"github.com/yanqian/faq-admin/internal/infra/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "faqctl: load config: %v\n", err)
		os.Exit(1)
	}
	if err := newRootCmd(cfg.FAQ, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "faqctl: %v\n", err)
		os.Exit(1)
	}
}
