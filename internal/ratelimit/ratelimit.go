package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/store"
)

// Limiter enforces a per-client fixed-window request quota backed by the
// store's atomic increment-with-ceiling. It never decides the numeric limit;
// the caller supplies it per request.
type Limiter struct {
	store  *store.Store
	logger logging.Logger

	// now is injectable for window tests.
	now func() time.Time
}

func New(st *store.Store, logger logging.Logger) *Limiter {
	return &Limiter{
		store:  st,
		logger: logger,
		now:    time.Now,
	}
}

// WindowKey buckets t into the fixed hourly window. UTC keeps keys monotonic
// across DST changes.
func WindowKey(t time.Time) string {
	return t.UTC().Format("2006-01-02T15")
}

// CheckAndIncrement consumes one request from the client's current window.
// It returns false when the window already holds limit accepted requests; a
// denied call does not increment.
func (l *Limiter) CheckAndIncrement(ctx context.Context, clientID string, limit int) (bool, error) {
	if limit <= 0 {
		return false, fmt.Errorf("rate limit must be positive, got %d", limit)
	}

	key := WindowKey(l.now())
	allowed, err := l.store.IncrementWindow(ctx, clientID, key, limit)
	if err != nil {
		return false, fmt.Errorf("increment window for %s: %w", clientID, err)
	}
	if !allowed && l.logger != nil {
		l.logger.Debug("rate limit exceeded",
			logging.Field{Key: "client_id", Value: clientID},
			logging.Field{Key: "window", Value: key},
			logging.Field{Key: "limit", Value: limit})
	}
	return allowed, nil
}

// SetClock overrides the limiter's clock. Test hook.
func (l *Limiter) SetClock(now func() time.Time) {
	l.now = now
}
