package domain

// Domain contains core models shared across the pipeline.

// Product is one catalog record as persisted in batch files. Description
// holds raw HTML until the cleaner pass rewrites it.
type Product struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	URLKey      string   `json:"url_key"`
	Price       int64    `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// OutcomeClass is the terminal state of one identifier.
type OutcomeClass int

const (
	// OutcomeSuccess means a record was extracted.
	OutcomeSuccess OutcomeClass = iota
	// OutcomePermanentFailure means the request will never succeed
	// (not found, malformed payload); retrying is pointless.
	OutcomePermanentFailure
	// OutcomeExhaustedRetries means the transport gave up on a transient
	// condition (rate limit, server error, timeout) after its retry budget.
	OutcomeExhaustedRetries
)

// String returns a stable label for logs.
func (c OutcomeClass) String() string {
	switch c {
	case OutcomeSuccess:
		return "success"
	case OutcomePermanentFailure:
		return "permanent_failure"
	case OutcomeExhaustedRetries:
		return "exhausted_retries"
	default:
		return "unknown"
	}
}

// FetchOutcome is the single terminal result produced for one identifier.
// Record is non-nil iff Class is OutcomeSuccess.
type FetchOutcome struct {
	ID     int64
	Class  OutcomeClass
	Record *Product
	Reason string
}

// Failed reports whether the outcome lands in the failure ledger.
func (o FetchOutcome) Failed() bool { return o.Class != OutcomeSuccess }

// RunSummary aggregates a full pipeline pass.
type RunSummary struct {
	Total     int
	Succeeded int
	Failed    int
	Batches   int
}
