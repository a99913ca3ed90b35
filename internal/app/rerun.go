package app

import (
	"context"
	"errors"
	"io/fs"

	"github.com/vietcart/catalog-harvester/internal/config"
	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/internal/ledger"
	"github.com/vietcart/catalog-harvester/internal/logger"
)

// RunRerun replays the failure ledger through the pipeline. The ledger is
// snapshotted into memory before the harvester truncates it for the new
// round, so failures that persist land in a fresh ledger and ids resolved in
// earlier rounds are skipped via the resolved-id store.
func RunRerun(ctx context.Context, cfg *config.Config) (domain.RunSummary, error) {
	ids, err := ledger.Load(cfg.FailFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.InfoObj("no failure ledger; nothing to rerun", "fail_file", cfg.FailFile)
			return domain.RunSummary{}, nil
		}
		return domain.RunSummary{}, err
	}
	logger.InfoObj("ledger snapshot loaded", "rerun_meta", map[string]any{
		"fail_file": cfg.FailFile,
		"ids":       len(ids),
	})

	harvester, err := NewHarvester(ctx, cfg)
	if err != nil {
		return domain.RunSummary{}, err
	}

	ids = harvester.FilterResolved(ids)
	return harvester.Run(ctx, "rerun", ids)
}
