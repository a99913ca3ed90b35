package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vietcart/catalog-harvester/internal/app"
	"github.com/vietcart/catalog-harvester/internal/config"
	"github.com/vietcart/catalog-harvester/internal/logger"
)

func main() {
	failed, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rerun failed: %v\n", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

func run() (bool, error) {
	cfg, err := config.Load()
	if err != nil {
		return false, fmt.Errorf("load config: %w", err)
	}

	if _, err := logger.Init(cfg); err != nil {
		return false, fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("rerun starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := app.RunRerun(ctx, cfg)
	if err != nil {
		return false, fmt.Errorf("rerun: %w", err)
	}

	return summary.Failed > 0, nil
}
