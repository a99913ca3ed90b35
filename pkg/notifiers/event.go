package notifiers

import (
	"time"

	"github.com/vietcart/catalog-harvester/internal/domain"
)

// Event is the end-of-run summary payload delivered downstream. Individual
// records never leave the batch files; only the aggregate does.
type Event struct {
	Mode           string    `json:"mode"`
	InputCount     int       `json:"input_count"`
	Succeeded      int       `json:"succeeded"`
	Failed         int       `json:"failed"`
	BatchesWritten int       `json:"batches_written"`
	ElapsedMs      int64     `json:"elapsed_ms"`
	CompletedAt    time.Time `json:"completed_at"`
}

// NewEvent constructs an Event from a run summary.
func NewEvent(mode string, summary domain.RunSummary, elapsed time.Duration) Event {
	return Event{
		Mode:           mode,
		InputCount:     summary.Total,
		Succeeded:      summary.Succeeded,
		Failed:         summary.Failed,
		BatchesWritten: summary.Batches,
		ElapsedMs:      elapsed.Milliseconds(),
		CompletedAt:    time.Now().UTC(),
	}
}
