// Package ratelimit paces outbound provider requests.
package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// Doer is the subset of *http.Client the provider clients call.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Limiter wraps a Doer and gates each request on a token bucket. Requests
// are delayed, never dropped, merged or retried; a request whose context
// ends while waiting fails with the context error.
type Limiter struct {
	next    Doer
	limiter *rate.Limiter
}

// PerMinute wraps next with a limiter allowing rpm requests per minute with
// the given burst. A non-positive rpm disables limiting and returns next.
func PerMinute(next Doer, rpm, burst int) Doer {
	if rpm <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), burst),
	}
}

func (l *Limiter) Do(req *http.Request) (*http.Response, error) {
	if err := l.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return l.next.Do(req)
}
