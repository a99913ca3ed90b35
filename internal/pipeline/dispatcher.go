package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vietcart/catalog-harvester/internal/catalog"
	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/internal/logger"
)

// RecordSink receives successful records. The batch writer implements it.
type RecordSink interface {
	Add(rec domain.Product) error
}

// FailureSink receives failed identifiers. The ledger implements it.
type FailureSink interface {
	Append(id int64) error
}

// ResolvedMarker remembers identifiers that resolved successfully so later
// rerun rounds can skip them. The storage.Store implements it.
type ResolvedMarker interface {
	MarkProduct(id int64) error
}

// Dispatcher fans the identifier set across a bounded worker pool, pacing
// submissions so the pool never bursts past the upstream rate limit, and
// routes every terminal outcome to exactly one sink.
type Dispatcher struct {
	fetcher  catalog.Fetcher
	records  RecordSink
	failures FailureSink
	resolved ResolvedMarker
	workers  int
	delay    time.Duration

	total     atomic.Int64
	completed atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
}

// NewDispatcher wires a dispatcher. resolved may be nil when no store is
// configured.
func NewDispatcher(fetcher catalog.Fetcher, records RecordSink, failures FailureSink, resolved ResolvedMarker, workers int, delay time.Duration) (*Dispatcher, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher must not be nil")
	}
	if records == nil || failures == nil {
		return nil, fmt.Errorf("record and failure sinks must not be nil")
	}
	if workers <= 0 {
		return nil, fmt.Errorf("workers must be positive, got %d", workers)
	}

	return &Dispatcher{
		fetcher:  fetcher,
		records:  records,
		failures: failures,
		resolved: resolved,
		workers:  workers,
		delay:    delay,
	}, nil
}

// Run processes every identifier exactly once and returns the summary.
// Cancelling ctx stops submission of new identifiers; fetches already in
// flight complete and their outcomes are still routed, so no partial record
// is orphaned. Sink write errors are joined into the returned error but do
// not abort the remaining identifiers.
func (d *Dispatcher) Run(ctx context.Context, ids []int64) (domain.RunSummary, error) {
	d.total.Store(int64(len(ids)))

	idCh := make(chan int64)
	outcomes := make(chan domain.FetchOutcome)

	go d.feed(ctx, ids, idCh)

	var workerWG sync.WaitGroup
	workerWG.Add(d.workers)
	for i := 0; i < d.workers; i++ {
		go func() {
			defer workerWG.Done()
			for id := range idCh {
				outcomes <- d.fetcher.Resolve(ctx, id)
			}
		}()
	}

	go func() {
		workerWG.Wait()
		close(outcomes)
	}()

	// Single consumer: the sinks serialize here, so the batch writer sees
	// one delivery at a time even with ten workers in flight.
	var sinkErrs []error
	for outcome := range outcomes {
		if err := d.route(outcome); err != nil {
			sinkErrs = append(sinkErrs, err)
		}
	}

	summary := domain.RunSummary{
		Total:     len(ids),
		Succeeded: int(d.succeeded.Load()),
		Failed:    int(d.failed.Load()),
	}
	return summary, errors.Join(sinkErrs...)
}

// Progress returns completed and total counts; readable while Run is active.
func (d *Dispatcher) Progress() (completed, total int64) {
	return d.completed.Load(), d.total.Load()
}

// feed paces identifier submission. The delay applies between submissions,
// not around the request itself, so workers still overlap their I/O.
func (d *Dispatcher) feed(ctx context.Context, ids []int64, idCh chan<- int64) {
	defer close(idCh)

	abort := func(i int) {
		logger.WarnObj("dispatch aborted", "dispatch_state", map[string]any{
			"submitted": i,
			"total":     len(ids),
			"reason":    ctx.Err().Error(),
		})
	}

	for i, id := range ids {
		// Checked separately first so a cancelled context always wins over
		// a worker that happens to be ready to receive.
		select {
		case <-ctx.Done():
			abort(i)
			return
		default:
		}

		select {
		case <-ctx.Done():
			abort(i)
			return
		case idCh <- id:
		}

		if d.delay > 0 && i < len(ids)-1 {
			timer := time.NewTimer(d.delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}
}

// route delivers one outcome to its terminal sink.
func (d *Dispatcher) route(outcome domain.FetchOutcome) error {
	d.completed.Add(1)

	if outcome.Failed() {
		d.failed.Add(1)
		logger.WarnObj("identifier failed", "fetch_failure", map[string]any{
			"id":     outcome.ID,
			"class":  outcome.Class.String(),
			"reason": outcome.Reason,
		})
		if err := d.failures.Append(outcome.ID); err != nil {
			return fmt.Errorf("ledger append id %d: %w", outcome.ID, err)
		}
		return nil
	}

	d.succeeded.Add(1)
	if err := d.records.Add(*outcome.Record); err != nil {
		return fmt.Errorf("batch add id %d: %w", outcome.ID, err)
	}
	if d.resolved != nil {
		if err := d.resolved.MarkProduct(outcome.ID); err != nil {
			return fmt.Errorf("mark resolved id %d: %w", outcome.ID, err)
		}
	}
	return nil
}
