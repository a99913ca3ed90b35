package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Options configures the shared resty client. One client instance carries the
// connection pool for the whole run; constructing a client per request throws
// the pool away and is the expensive mistake this package exists to prevent.
type Options struct {
	Timeout      time.Duration
	RetryTotal   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	Headers      map[string]string
}

// RestyClient adapts resty.Client to the httpclient.Client interface.
type RestyClient struct {
	client *resty.Client
}

// NewRestyClient creates a new RestyClient with the given options.
func NewRestyClient(opts Options) *RestyClient {
	return &RestyClient{client: newRestyBaseClient(opts)}
}

// NewRestyHTTPClient exposes a configured resty.Client for callers needing custom verbs.
func NewRestyHTTPClient(timeout time.Duration) *resty.Client {
	return newRestyBaseClient(Options{Timeout: timeout})
}

// newRestyBaseClient creates a resty.Client with identity headers and the
// transport retry policy applied.
func newRestyBaseClient(opts Options) *resty.Client {
	c := resty.New()
	c.SetTimeout(opts.Timeout)

	if len(opts.Headers) > 0 {
		c.SetHeaders(opts.Headers)
	}

	if opts.RetryTotal > 0 {
		policy := NewRetryPolicy(opts.RetryTotal)
		if opts.RetryWaitMin > 0 {
			policy.WaitMin = opts.RetryWaitMin
		}
		if opts.RetryWaitMax > 0 {
			policy.WaitMax = opts.RetryWaitMax
		}
		c.SetRetryCount(policy.Total)
		c.AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return Retriable(r.StatusCode())
		})
		c.SetRetryAfter(func(_ *resty.Client, r *resty.Response) (time.Duration, error) {
			wait, ok := policy.Next(r.Request.Attempt)
			if !ok {
				return 0, nil
			}
			return wait, nil
		})
	}

	return c
}

// Get performs an HTTP GET request with the specified context, URL, and headers.
func (r *RestyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	req := r.client.R().SetContext(ctx)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}
	resp, err := req.Get(url)
	if err != nil {
		return nil, err
	}
	return &restyResponseAdapter{resp: resp}, nil
}

// restyResponseAdapter adapts resty.Response to the httpclient.Response interface.
type restyResponseAdapter struct {
	resp *resty.Response
}

func (r *restyResponseAdapter) Body() []byte    { return r.resp.Body() }
func (r *restyResponseAdapter) StatusCode() int { return r.resp.StatusCode() }
