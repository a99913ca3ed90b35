package catalog

import (
	"context"

	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/pkg/httpclient"
)

// Fetcher resolves one identifier to its terminal outcome. Implementations
// must be safe for concurrent use by the worker pool.
type Fetcher interface {
	Resolve(ctx context.Context, id int64) domain.FetchOutcome
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within catalog.
type HTTPClient = httpclient.Client
