package provider

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/saint0x/ggsum/pkg/errs"
	"github.com/saint0x/ggsum/pkg/log"
)

// Gateway tries providers in priority order. Transient failures (rate limits,
// 5xx, network errors) are retried against the same provider with exponential
// backoff; permanent failures (auth, other 4xx) fall through to the next
// provider immediately, since retrying bad credentials never helps. Retries
// and fallbacks are sequential: providers often share rate-limit buckets per
// credential, so speculative parallel requests would just burn quota.
type Gateway struct {
	logger     *log.Logger
	providers  []Provider
	maxRetries int
	backoff    time.Duration
	limiters   map[string]*rate.Limiter
	sleep      func(ctx context.Context, d time.Duration) error
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithMaxRetries sets retries per provider after the first attempt.
func WithMaxRetries(n int) GatewayOption {
	return func(g *Gateway) { g.maxRetries = n }
}

// WithBackoff sets the base backoff duration; attempt k waits base << k.
func WithBackoff(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.backoff = d }
}

// WithSleeper replaces the backoff sleeper, for tests.
func WithSleeper(fn func(ctx context.Context, d time.Duration) error) GatewayOption {
	return func(g *Gateway) { g.sleep = fn }
}

// WithRateLimit overrides the per-provider request rate.
func WithRateLimit(limit rate.Limit, burst int) GatewayOption {
	return func(g *Gateway) {
		for name := range g.limiters {
			g.limiters[name] = rate.NewLimiter(limit, burst)
		}
	}
}

// NewGateway builds a Gateway over providers in priority order.
func NewGateway(logger *log.Logger, providers []Provider, opts ...GatewayOption) (*Gateway, error) {
	if len(providers) == 0 {
		return nil, errs.NoProviderConfigured()
	}

	g := &Gateway{
		logger:     logger,
		providers:  providers,
		maxRetries: 2,
		backoff:    500 * time.Millisecond,
		limiters:   make(map[string]*rate.Limiter, len(providers)),
		sleep:      sleepCtx,
	}
	for _, p := range providers {
		g.limiters[p.Name()] = rate.NewLimiter(rate.Limit(1), 2)
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Complete runs the select/attempt/retry/fallback state machine until one
// provider succeeds or all are exhausted.
func (g *Gateway) Complete(ctx context.Context, req Request) (*Response, error) {
	var attempted []errs.AttemptError

	for _, p := range g.providers {
		resp, err := g.completeWith(ctx, p, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil {
			return nil, errors.Wrap(errs.ErrAbortedByUser, ctx.Err().Error())
		}
		g.logger.Warning("Provider %s failed: %v", p.Name(), err)
		attempted = append(attempted, errs.AttemptError{Provider: p.Name(), Err: err})
	}

	return nil, errs.ProviderExhausted(attempted)
}

// completeWith runs bounded retries against one provider and returns its last
// error once they are exhausted or the error is permanent.
func (g *Gateway) completeWith(ctx context.Context, p Provider, req Request) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if err := g.limiters[p.Name()].Wait(ctx); err != nil {
			return nil, err
		}

		g.logger.Debug("Attempt %d against %s", attempt+1, p.Name())
		resp, err := p.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil || !transient(err) {
			return nil, lastErr
		}
		if attempt == g.maxRetries {
			break
		}

		wait := g.backoff << attempt
		g.logger.Debug("Transient error from %s, backing off %s: %v", p.Name(), wait, err)
		if err := g.sleep(ctx, wait); err != nil {
			return nil, lastErr
		}
	}
	return nil, lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
