package provider

import (
	"context"
	"errors"
	"time"

	"github.com/ZaguanLabs/salin"
	"github.com/sony/gobreaker"
)

// BreakerConfig configures a BreakerProvider.
type BreakerConfig struct {
	Name             string        // Breaker name used in errors and logs
	FailureThreshold uint32        // Consecutive failures that open the breaker (default: 5)
	Cooldown         time.Duration // Time spent open before a trial call (default: 30s)
	OnStateChange    func(name string, from, to string)
}

// BreakerProvider wraps a RemoteTranslator with a circuit breaker. While the
// breaker is open, calls fail fast with a ServiceError instead of reaching
// the backend. Failed calls are never retried.
type BreakerProvider struct {
	next RemoteTranslator
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerProvider creates a circuit-breaking decorator around next.
func NewBreakerProvider(next RemoteTranslator, cfg BreakerConfig) *BreakerProvider {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	name := cfg.Name
	if name == "" {
		name = "remote"
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// A caller giving up is not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}

	return &BreakerProvider{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Translate implements RemoteTranslator.
func (p *BreakerProvider) Translate(ctx context.Context, req RemoteRequest) (string, error) {
	out, err := p.cb.Execute(func() (interface{}, error) {
		return p.next.Translate(ctx, req)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &salin.ServiceError{
				Op:      "breaker",
				Message: p.cb.Name() + " unavailable",
				Cause:   err,
			}
		}
		return "", err
	}
	return out.(string), nil
}

// State returns the breaker state: "closed", "half-open" or "open".
func (p *BreakerProvider) State() string {
	return p.cb.State().String()
}

// Verify BreakerProvider implements RemoteTranslator
var _ RemoteTranslator = (*BreakerProvider)(nil)
