package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"rentgrip/internal/logging"
)

// ResilientOptions tunes the breaker around a provider
type ResilientOptions struct {
	Name             string
	AttemptTimeout   time.Duration // per-fetch deadline, 0 = none
	FailureThreshold uint32        // consecutive failures that open the circuit
	OpenTimeout      time.Duration // how long the circuit stays open
}

// DefaultResilientOptions returns the settings used by the CLI
func DefaultResilientOptions() ResilientOptions {
	return ResilientOptions{
		Name:             "catalog-provider",
		AttemptTimeout:   10 * time.Second,
		FailureThreshold: 3,
		OpenTimeout:      30 * time.Second,
	}
}

// ResilientProvider guards a provider with a circuit breaker. While the
// circuit is open, Fetch fails fast with ErrProviderUnavailable.
type ResilientProvider struct {
	next Provider
	opts ResilientOptions
	cb   *gobreaker.CircuitBreaker[Catalog]
}

// NewResilientProvider wraps next
func NewResilientProvider(next Provider, opts ResilientOptions) *ResilientProvider {
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 1
	}
	log := logging.Component("catalog")

	cb := gobreaker.NewCircuitBreaker[Catalog](gobreaker.Settings{
		Name:        opts.Name,
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit state changed")
		},
	})

	return &ResilientProvider{next: next, opts: opts, cb: cb}
}

// Fetch calls the wrapped provider through the breaker
func (p *ResilientProvider) Fetch(ctx context.Context) (Catalog, error) {
	c, err := p.cb.Execute(func() (Catalog, error) {
		attemptCtx := ctx
		if p.opts.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, p.opts.AttemptTimeout)
			defer cancel()
		}
		return p.next.Fetch(attemptCtx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Catalog{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		return Catalog{}, err
	}
	return c, nil
}

// State reports the breaker state ("closed", "half-open", "open")
func (p *ResilientProvider) State() string {
	return p.cb.State().String()
}
