package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/vietcart/catalog-harvester/internal/batch"
	"github.com/vietcart/catalog-harvester/internal/catalog"
	"github.com/vietcart/catalog-harvester/internal/config"
	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/internal/ledger"
	"github.com/vietcart/catalog-harvester/internal/logger"
	"github.com/vietcart/catalog-harvester/internal/pipeline"
	"github.com/vietcart/catalog-harvester/internal/storage"
	"github.com/vietcart/catalog-harvester/pkg/httpclient"
	"github.com/vietcart/catalog-harvester/pkg/notifiers"
)

// identityHeaders is the fixed identity every request carries.
var identityHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0",
	"Accept":     "application/json",
}

const progressLogInterval = 30 * time.Second

// Harvester represents the fetch-and-batch runtime. It owns the shared
// transport client, the batch writer, the failure ledger, the resolved-id
// store, and the summary fanout, and executes one pipeline pass per Run.
type Harvester struct {
	cfg        *config.Config
	dispatcher *pipeline.Dispatcher
	writer     *batch.Writer
	failLedger *ledger.Ledger
	store      storage.Store
	fanout     *notifiers.Fanout
}

// NewHarvester builds the runtime from config. Resource acquisition failures
// (output directory, ledger file, store) are fatal here, before any dispatch.
func NewHarvester(ctx context.Context, cfg *config.Config) (*Harvester, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	writer, err := batch.NewWriter(cfg.OutputDir, cfg.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("init batch writer: %w", err)
	}

	failLedger, err := ledger.Open(cfg.FailFile)
	if err != nil {
		return nil, fmt.Errorf("init failure ledger: %w", err)
	}

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		ResolvedTTL:     cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		failLedger.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	logger.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":        cfg.StorageType,
		"path":        cfg.BBoltPath,
		"ttl_seconds": int(cfg.StorageTTL.Seconds()),
	})

	// One pooled client for the entire run. Workers share its connections;
	// transient statuses are retried inside it.
	client := httpclient.NewRestyClient(httpclient.Options{
		Timeout:    cfg.HTTPTimeout,
		RetryTotal: cfg.RetryTotal,
		Headers:    identityHeaders,
	})
	fetcher := catalog.NewProductFetcher(client, cfg.APIBaseURL)

	dispatcher, err := pipeline.NewDispatcher(fetcher, writer, failLedger, store, cfg.MaxWorkers, cfg.DelayBetweenRequests)
	if err != nil {
		failLedger.Close()
		store.Close()
		return nil, fmt.Errorf("init dispatcher: %w", err)
	}

	fanout, err := buildFanout(ctx, cfg)
	if err != nil {
		failLedger.Close()
		store.Close()
		return nil, fmt.Errorf("build notifiers: %w", err)
	}

	return &Harvester{
		cfg:        cfg,
		dispatcher: dispatcher,
		writer:     writer,
		failLedger: failLedger,
		store:      store,
		fanout:     fanout,
	}, nil
}

// Run executes one pipeline pass over ids, flushes the final partial batch,
// and emits the run summary. Per-identifier failures never abort the run;
// they end up in the ledger and the summary.
func (h *Harvester) Run(ctx context.Context, mode string, ids []int64) (domain.RunSummary, error) {
	if h == nil || h.dispatcher == nil {
		return domain.RunSummary{}, fmt.Errorf("harvester is not initialized")
	}
	defer h.close()

	start := time.Now()
	logger.InfoObj("run started", "run_meta", map[string]any{
		"mode":        mode,
		"ids":         len(ids),
		"max_workers": h.cfg.MaxWorkers,
		"batch_size":  h.cfg.BatchSize,
	})

	stopProgress := h.reportProgress()
	summary, runErr := h.dispatcher.Run(ctx, ids)
	stopProgress()

	if err := h.writer.FinalFlush(); err != nil {
		return summary, fmt.Errorf("final batch flush: %w", err)
	}
	summary.Batches = h.writer.BatchesWritten()

	logger.InfoObj("run completed", "run_result", map[string]any{
		"mode":       mode,
		"total":      summary.Total,
		"succeeded":  summary.Succeeded,
		"failed":     summary.Failed,
		"batches":    summary.Batches,
		"fail_file":  h.failLedger.Path(),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	if h.fanout != nil {
		evt := notifiers.NewEvent(mode, summary, time.Since(start))
		if _, err := h.fanout.Notify(ctx, evt); err != nil {
			logger.ErrorObj("summary notification failed", "error", err)
		}
	}

	return summary, runErr
}

// FilterResolved drops ids already marked resolved in a prior round.
func (h *Harvester) FilterResolved(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	skipped := 0
	for _, id := range ids {
		seen, err := h.store.SeenProduct(id)
		if err != nil {
			logger.WarnObj("resolved lookup failed", "storage_error", map[string]any{
				"id":    id,
				"error": err.Error(),
			})
			out = append(out, id)
			continue
		}
		if seen {
			skipped++
			continue
		}
		out = append(out, id)
	}
	if skipped > 0 {
		logger.InfoObj("skipping already resolved ids", "rerun_filter", map[string]any{
			"skipped":   skipped,
			"remaining": len(out),
		})
	}
	return out
}

// reportProgress logs completed/total on a fixed cadence until stopped.
func (h *Harvester) reportProgress() (stop func()) {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(progressLogInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				completed, total := h.dispatcher.Progress()
				logger.InfoObj("run progress", "progress", map[string]any{
					"completed": completed,
					"total":     total,
				})
			}
		}
	}()
	return func() { close(done) }
}

// close releases the ledger and store handles.
func (h *Harvester) close() {
	if err := h.failLedger.Close(); err != nil {
		logger.ErrorObj("ledger close failed", "error", err)
	}
	if err := h.store.Close(); err != nil {
		logger.ErrorObj("storage close failed", "error", err)
	}
}

// buildFanout loads the notifiers registry. A missing registry file is not an
// error; the run summary still lands in the log.
func buildFanout(ctx context.Context, cfg *config.Config) (*notifiers.Fanout, error) {
	reg, err := notifiers.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notifiers.NewFanout([]notifiers.Notifier{notifiers.NewLogNotifier(zapNotifierLogger{})}), nil
		}
		return nil, err
	}

	enabled := reg.Enabled()
	if len(enabled) == 0 {
		return notifiers.NewFanout([]notifiers.Notifier{notifiers.NewLogNotifier(zapNotifierLogger{})}), nil
	}

	sinks, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, zapNotifierLogger{})
	if err != nil {
		return nil, err
	}
	return notifiers.NewFanout(sinks), nil
}

// zapNotifierLogger bridges the package-level zap helpers to notifiers.Logger.
type zapNotifierLogger struct{}

func (zapNotifierLogger) InfoObj(msg, key string, obj interface{})  { logger.InfoObj(msg, key, obj) }
func (zapNotifierLogger) DebugObj(msg, key string, obj interface{}) { logger.DebugObj(msg, key, obj) }
func (zapNotifierLogger) WarnObj(msg, key string, obj interface{})  { logger.WarnObj(msg, key, obj) }
func (zapNotifierLogger) ErrorObj(msg, key string, obj interface{}) { logger.ErrorObj(msg, key, obj) }
