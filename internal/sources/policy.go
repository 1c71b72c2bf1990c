package sources

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lyricsync/internal/config"
)

// Policy enforces a minimum interval between a source's outbound calls and
// retries transient failures with linearly increasing backoff.
type Policy struct {
	minInterval time.Duration
	maxRetries  int
	backoffBase time.Duration
	log         zerolog.Logger

	mu       sync.Mutex
	lastCall time.Time
}

// NewPolicy creates a policy from the source's API settings.
func NewPolicy(api config.APIConfig, log zerolog.Logger) *Policy {
	return &Policy{
		minInterval: api.MinInterval,
		maxRetries:  max(api.MaxRetries, 1),
		backoffBase: api.BackoffBase,
		log:         log,
	}
}

// Allow reports whether enough time has passed since the last call.
// It does not record a call.
func (p *Policy) Allow() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.lastCall.IsZero() {
		return true
	}
	return time.Since(p.lastCall) >= p.minInterval
}

// Touch records an outbound call.
func (p *Policy) Touch() {
	p.mu.Lock()
	p.lastCall = time.Now()
	p.mu.Unlock()
}

// Do runs fn up to the retry budget, sleeping backoffBase*attempt between
// attempts. ErrNotFound from fn is returned at once and never retried.
// Exhausted retries return an error wrapping ErrUnavailable.
func (p *Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.maxRetries; attempt++ {
		p.Touch()

		err := fn(ctx)
		if err == nil || errors.Is(err, ErrNotFound) {
			return err
		}
		lastErr = err

		p.log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_retries", p.maxRetries).
			Msg("source call failed")

		if attempt == p.maxRetries {
			break
		}
		if err := sleep(ctx, p.backoffBase*time.Duration(attempt)); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
