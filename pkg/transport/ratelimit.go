package transport

import (
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/fivetwenty-io/clouddns/pkg/clouddns"
)

// RateLimited delays requests so no more than limit per second, with bursts
// of up to burst, reach the wrapped Doer.
type RateLimited struct {
	next    clouddns.Doer
	limiter *rate.Limiter
}

// NewRateLimited wraps next with a token-bucket limiter.
func NewRateLimited(next clouddns.Doer, limit rate.Limit, burst int) *RateLimited {
	if burst < 1 {
		burst = 1
	}

	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Do waits for the limiter, honouring the request's context, then forwards
// the request.
func (r *RateLimited) Do(req *http.Request) (*http.Response, error) {
	err := r.limiter.Wait(req.Context())
	if err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	return r.next.Do(req)
}

// SetLimit changes the rate at runtime.
func (r *RateLimited) SetLimit(limit rate.Limit) {
	r.limiter.SetLimit(limit)
}
