package httpx

import (
	"net/http"
	"time"
)

// Client wraps http.Client with a bounded deadline and simple retry for
// outbound calls to the rerank model endpoint.
type Client struct {
	inner   *http.Client
	retries int
	backoff time.Duration
}

// Options configures a Client. Zero values fall back to safe defaults.
type Options struct {
	TimeoutMs    int
	Retries      int
	BackoffMinMs int
}

// New builds a Client from options.
func New(opts Options) *Client {
	timeout := time.Duration(opts.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	backoff := time.Duration(opts.BackoffMinMs) * time.Millisecond
	if backoff <= 0 {
		backoff = 100 * time.Millisecond
	}
	return &Client{
		inner:   &http.Client{Timeout: timeout},
		retries: opts.Retries,
		backoff: backoff,
	}
}

// Do executes the request, retrying idempotently on transport errors and 5xx
// responses. The request context bounds the whole attempt sequence.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	var (
		resp *http.Response
		err  error
	)
	for attempt := 0; ; attempt++ {
		resp, err = c.inner.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}
		if attempt >= c.retries {
			return resp, err
		}
		if resp != nil {
			resp.Body.Close()
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(c.backoff << attempt):
		}
		if req.GetBody != nil {
			if body, berr := req.GetBody(); berr == nil {
				req.Body = body
			}
		}
	}
}
