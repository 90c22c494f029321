package salin

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures remote call pacing.
type RateLimitConfig struct {
	RequestsPerMinute int // Sustained rate (default: 60)
	BurstSize         int // Calls allowed back to back (default: RequestsPerMinute)
}

// NewRateLimiter returns a token bucket limiter for cfg.
func NewRateLimiter(cfg RateLimitConfig) *rate.Limiter {
	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = rpm
	}
	return rate.NewLimiter(rate.Limit(float64(rpm)/60.0), burst)
}

// RateLimitedRemote paces calls to a RemoteTranslator. A request that cannot
// get a token before its context ends fails with a ServiceError; it is never
// queued for a later attempt.
type RateLimitedRemote struct {
	remote  RemoteTranslator
	limiter *rate.Limiter
}

// NewRateLimitedRemote wraps remote with a limiter built from cfg.
func NewRateLimitedRemote(remote RemoteTranslator, cfg RateLimitConfig) *RateLimitedRemote {
	return &RateLimitedRemote{
		remote:  remote,
		limiter: NewRateLimiter(cfg),
	}
}

// Translate implements RemoteTranslator.
func (p *RateLimitedRemote) Translate(ctx context.Context, req RemoteRequest) (string, error) {
	// Wait fails early when the deadline is closer than the next token.
	if err := p.limiter.Wait(ctx); err != nil {
		return "", &ServiceError{
			Op:      "ratelimit",
			Message: "no request slot before deadline",
			Cause:   err,
		}
	}

	return p.remote.Translate(ctx, req)
}

// Limiter returns the underlying limiter.
func (p *RateLimitedRemote) Limiter() *rate.Limiter {
	return p.limiter
}

var _ RemoteTranslator = (*RateLimitedRemote)(nil)
