package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vietcart/catalog-harvester/internal/domain"
	"github.com/vietcart/catalog-harvester/pkg/httpclient"
)

// stubHTTPResponse implements httpclient.Response.
type stubHTTPResponse struct {
	body       []byte
	statusCode int
}

func (s stubHTTPResponse) Body() []byte    { return s.body }
func (s stubHTTPResponse) StatusCode() int { return s.statusCode }

// stubHTTPClient returns a single response or error.
type stubHTTPClient struct {
	resp httpclient.Response
	err  error
	url  string
}

func (s *stubHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	s.url = url
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func TestResolveBuildsProductURL(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{statusCode: 404}}
	fetcher := NewProductFetcher(client, "https://api.example.com/v1/")

	fetcher.Resolve(context.Background(), 12345)
	if client.url != "https://api.example.com/v1/products/12345" {
		t.Fatalf("request URL = %q", client.url)
	}
}

func TestResolveClassifiesNotFoundAsPermanent(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{statusCode: 404}}
	fetcher := NewProductFetcher(client, "https://api.example.com")

	outcome := fetcher.Resolve(context.Background(), 7)
	if outcome.Class != domain.OutcomePermanentFailure {
		t.Fatalf("class = %s", outcome.Class)
	}
	if outcome.ID != 7 || outcome.Record != nil {
		t.Fatalf("unexpected outcome %#v", outcome)
	}
}

func TestResolveClassifiesRetriableStatusAsExhausted(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{statusCode: 503}}
	fetcher := NewProductFetcher(client, "https://api.example.com")

	outcome := fetcher.Resolve(context.Background(), 7)
	if outcome.Class != domain.OutcomeExhaustedRetries {
		t.Fatalf("class = %s", outcome.Class)
	}
}

func TestResolveClassifiesTransportErrorAsExhausted(t *testing.T) {
	client := &stubHTTPClient{err: errors.New("dial timeout")}
	fetcher := NewProductFetcher(client, "https://api.example.com")

	outcome := fetcher.Resolve(context.Background(), 7)
	if outcome.Class != domain.OutcomeExhaustedRetries {
		t.Fatalf("class = %s", outcome.Class)
	}
}

func TestResolveClassifiesMalformedPayloadAsPermanent(t *testing.T) {
	client := &stubHTTPClient{resp: stubHTTPResponse{statusCode: 200, body: []byte(`{"name":"no id"}`)}}
	fetcher := NewProductFetcher(client, "https://api.example.com")

	outcome := fetcher.Resolve(context.Background(), 7)
	if outcome.Class != domain.OutcomePermanentFailure {
		t.Fatalf("class = %s", outcome.Class)
	}
}

func TestResolveSuccessKeepsRawDescription(t *testing.T) {
	body := []byte(`{"id":9,"name":"Kettle","url_key":"kettle","price":45000,"description":"<b>bold</b>"}`)
	client := &stubHTTPClient{resp: stubHTTPResponse{statusCode: 200, body: body}}
	fetcher := NewProductFetcher(client, "https://api.example.com")

	outcome := fetcher.Resolve(context.Background(), 9)
	if outcome.Class != domain.OutcomeSuccess || outcome.Record == nil {
		t.Fatalf("unexpected outcome %#v", outcome)
	}
	if outcome.Record.Description != "<b>bold</b>" {
		t.Fatalf("description = %q", outcome.Record.Description)
	}
}

// The tests below run the real resty transport against a local server to
// exercise the retry policy end to end.

func testClient(retryTotal int) *httpclient.RestyClient {
	return httpclient.NewRestyClient(httpclient.Options{
		Timeout:      2 * time.Second,
		RetryTotal:   retryTotal,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
	})
}

func TestTransientThenSuccessWithinBudget(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"id":100,"name":"Lamp","price":1000}`)
	}))
	defer server.Close()

	fetcher := NewProductFetcher(testClient(3), server.URL)
	outcome := fetcher.Resolve(context.Background(), 100)
	if outcome.Class != domain.OutcomeSuccess {
		t.Fatalf("class = %s reason = %s", outcome.Class, outcome.Reason)
	}
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestTransientBeyondBudgetExhausts(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	fetcher := NewProductFetcher(testClient(2), server.URL)
	outcome := fetcher.Resolve(context.Background(), 100)
	if outcome.Class != domain.OutcomeExhaustedRetries {
		t.Fatalf("class = %s", outcome.Class)
	}
	// Initial attempt plus two retries.
	if got := hits.Load(); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestNotFoundPerformsNoRetries(t *testing.T) {
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewProductFetcher(testClient(3), server.URL)
	outcome := fetcher.Resolve(context.Background(), 100)
	if outcome.Class != domain.OutcomePermanentFailure {
		t.Fatalf("class = %s", outcome.Class)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected exactly 1 attempt, got %d", got)
	}
}
