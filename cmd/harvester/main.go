package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vietcart/catalog-harvester/internal/app"
	"github.com/vietcart/catalog-harvester/internal/config"
	"github.com/vietcart/catalog-harvester/internal/input"
	"github.com/vietcart/catalog-harvester/internal/logger"
)

func main() {
	failed, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "harvester failed: %v\n", err)
		os.Exit(1)
	}
	if failed {
		// Some identifiers ended in a terminal failure; make that visible
		// to calling scripts. The ledger holds the ids to rerun.
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

	logger.InfoObj("harvester starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ids, err := input.LoadIDsFromCSV(cfg.InputFile)
	if err != nil {
		logger.ErrorObj("failed to load identifier set", "error", err)
		return false, err
	}

	harvester, err := app.NewHarvester(ctx, cfg)
	if err != nil {
		logger.ErrorObj("failed to initialize harvester", "error", err)
		return false, err
	}

	summary, err := harvester.Run(ctx, "harvest", ids)
	if err != nil {
		return false, fmt.Errorf("harvester run: %w", err)
	}

	return summary.Failed > 0, nil
}
