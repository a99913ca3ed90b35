package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/pkg/httpclient"
)

// productFetcher implements Fetcher against the product-detail endpoint.
type productFetcher struct {
	client  HTTPClient
	baseURL string
}

// NewProductFetcher builds a fetcher for the given API base URL. The client
// is expected to carry identity headers and the transport retry policy; the
// fetcher only classifies what comes back.
func NewProductFetcher(client HTTPClient, baseURL string) Fetcher {
	return &productFetcher{
		client:  client,
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
	}
}

// Resolve fetches one product and classifies the result. Transient statuses
// are retried inside the transport; by the time a response reaches this
// method it is terminal one way or the other.
func (f *productFetcher) Resolve(ctx context.Context, id int64) domain.FetchOutcome {
	url := fmt.Sprintf("%s/products/%d", f.baseURL, id)

	resp, err := f.client.Get(ctx, url, nil)
	if err != nil {
		// Transport errors (timeouts, refused connections) already burned
		// the retry budget inside the client.
		return domain.FetchOutcome{
			ID:     id,
			Class:  domain.OutcomeExhaustedRetries,
			Reason: fmt.Sprintf("transport: %v", err),
		}
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusOK:
		return f.extract(id, resp.Body())
	case httpclient.Retriable(status):
		return domain.FetchOutcome{
			ID:     id,
			Class:  domain.OutcomeExhaustedRetries,
			Reason: fmt.Sprintf("status %d after retries", status),
		}
	default:
		return domain.FetchOutcome{
			ID:     id,
			Class:  domain.OutcomePermanentFailure,
			Reason: fmt.Sprintf("status %d", status),
		}
	}
}

func (f *productFetcher) extract(id int64, body []byte) domain.FetchOutcome {
	record, err := extractProduct(body)
	if err != nil {
		// A payload the API handed back as 200 but cannot be decoded will
		// not improve on retry.
		return domain.FetchOutcome{
			ID:     id,
			Class:  domain.OutcomePermanentFailure,
			Reason: fmt.Sprintf("malformed payload: %v", err),
		}
	}
	return domain.FetchOutcome{
		ID:     id,
		Class:  domain.OutcomeSuccess,
		Record: record,
	}
}
