package app

import (
	"context"
	"fmt"
	"time"

	"github.com/vietcart/catalog-harvester/internal/cleaner"
	"github.com/vietcart/catalog-harvester/internal/config"
	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/internal/logger"
	"github.com/vietcart/catalog-harvester/pkg/notifiers"
)

// RunCleaner rewrites every batch file in the output directory with
// normalized descriptions and emits a summary of the pass.
func RunCleaner(ctx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config must not be nil")
	}

	start := time.Now()
	processed, err := cleaner.CleanDir(ctx, cfg.OutputDir, cfg.CleanWorkers)

	logger.InfoObj("clean pass completed", "clean_result", map[string]any{
		"output_dir": cfg.OutputDir,
		"files":      processed,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	fanout, fanoutErr := buildFanout(ctx, cfg)
	if fanoutErr != nil {
		logger.ErrorObj("build notifiers failed", "error", fanoutErr)
	} else if fanout != nil {
		evt := notifiers.NewEvent("clean", domain.RunSummary{Total: processed, Succeeded: processed}, time.Since(start))
		if _, notifyErr := fanout.Notify(ctx, evt); notifyErr != nil {
			logger.ErrorObj("summary notification failed", "error", notifyErr)
		}
	}

	return err
}
