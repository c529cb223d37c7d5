// Package transport provides HTTP round-tripper middleware shared by the
// upstream API adapters.
package transport

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// maxErrorBody caps how much of a retryable response body is buffered for
// the caller once retries are exhausted.
const maxErrorBody = 4096

// Retry is an http.RoundTripper that retries 429 and 5xx responses and
// transport-level failures with exponential backoff. It sits below the API
// clients so pagination and request-building stay free of retry concerns.
// The final failing response, if any, is returned to the caller unchanged
// so status handling happens in one place.
type Retry struct {
	next       http.RoundTripper
	maxRetries uint64
	initial    time.Duration
}

// NewRetry wraps next with retry behavior: up to 3 retries starting at a
// 300ms interval. A nil next falls back to http.DefaultTransport.
func NewRetry(next http.RoundTripper) *Retry {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Retry{next: next, maxRetries: 3, initial: 300 * time.Millisecond}
}

// retryableStatus carries the buffered response through the backoff loop so
// it survives being drained between attempts.
type retryableStatus struct {
	resp *http.Response
}

func (e *retryableStatus) Error() string {
	return "retryable status " + e.resp.Status
}

// RoundTrip implements http.RoundTripper.
func (t *Retry) RoundTrip(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		var err error
		resp, err = t.next.RoundTrip(req)
		if err != nil {
			return err
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			resp.Body.Close()
			resp.Body = io.NopCloser(bytes.NewReader(body))
			return &retryableStatus{resp: resp}
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = t.initial

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, t.maxRetries), req.Context()))
	if err != nil {
		if rs, ok := err.(*retryableStatus); ok {
			return rs.resp, nil
		}
		return nil, err
	}
	return resp, nil
}
