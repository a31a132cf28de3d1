package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/cenk/backoff"
	circuit "github.com/rubyist/circuitbreaker"
)

const defaultTripThreshold = 5

// Breaker keeps one circuit breaker per upstream host. While a host's breaker
// is open, requests to it fail immediately with ErrUpstreamDown.
type Breaker struct {
	threshold int64
	breakers  map[string]*circuit.Breaker
	mu        sync.RWMutex
}

// NewBreaker creates a Breaker that trips after threshold consecutive
// upstream failures. A threshold below 1 uses the default of 5.
func NewBreaker(threshold int) *Breaker {
	if threshold < 1 {
		threshold = defaultTripThreshold
	}
	return &Breaker{
		threshold: int64(threshold),
		breakers:  make(map[string]*circuit.Breaker),
	}
}

// getBreaker returns or creates the circuit breaker for the given host.
func (b *Breaker) getBreaker(host string) *circuit.Breaker {
	b.mu.RLock()
	breaker, exists := b.breakers[host]
	b.mu.RUnlock()

	if exists {
		return breaker
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if breaker, exists := b.breakers[host]; exists {
		return breaker
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = 30 * time.Second
	expBackoff.MaxInterval = 5 * time.Minute
	expBackoff.Multiplier = 2.0
	expBackoff.Reset()

	breaker = circuit.NewBreakerWithOptions(&circuit.Options{
		BackOff:    expBackoff,
		ShouldTrip: circuit.ThresholdTripFunc(b.threshold),
	})

	b.breakers[host] = breaker
	return breaker
}

// Call runs fn under the breaker for rawURL's host. Only transport failures,
// rate limits and 5xx responses count against the breaker; a 404 means the
// upstream is healthy.
func (b *Breaker) Call(ctx context.Context, rawURL string, fn func() error) error {
	host := extractHost(rawURL)
	breaker := b.getBreaker(host)

	if !breaker.Ready() {
		return fmt.Errorf("circuit breaker open for %s: %w", host, ErrUpstreamDown)
	}

	err := fn()
	switch {
	case err == nil:
		breaker.Success()
	case ctx.Err() != nil:
		// caller gave up; says nothing about the upstream
	case countsAsFailure(err):
		breaker.Fail()
	default:
		breaker.Success()
	}
	return err
}

// Tripped reports whether the breaker for rawURL's host is open.
func (b *Breaker) Tripped(rawURL string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	breaker, ok := b.breakers[extractHost(rawURL)]
	return ok && breaker.Tripped()
}

// State returns "open" or "closed" per known host (for health checks).
func (b *Breaker) State() map[string]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	states := make(map[string]string, len(b.breakers))
	for host, breaker := range b.breakers {
		if breaker.Tripped() {
			states[host] = "open"
		} else {
			states[host] = "closed"
		}
	}
	return states
}

func countsAsFailure(err error) bool {
	if errors.Is(err, ErrUpstreamDown) || errors.Is(err, ErrRateLimited) {
		return true
	}
	var httpErr *HTTPError
	return !errors.As(err, &httpErr)
}

// extractHost returns the host used to group breakers.
func extractHost(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		if len(rawURL) > 50 {
			return rawURL[:50]
		}
		return rawURL
	}
	return parsed.Host
}
