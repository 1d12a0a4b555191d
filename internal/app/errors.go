package app

import (
	"errors"
	"fmt"

	"github.com/cruisecg/SEOAnalysisTools/internal/store"
)

// ErrInvalidInput is returned by Submit when the requested URL cannot be
// canonicalized into an absolute http(s) URL.
var ErrInvalidInput = errors.New("invalid input url")

// ErrTaskNotFound is returned by GetTask when no task exists for the id.
var ErrTaskNotFound = store.ErrTaskNotFound

// RateLimitedError is returned by Submit when the client has exhausted its
// hourly submission allowance. Limit carries the ceiling that was hit so
// callers can surface it to the client.
type RateLimitedError struct {
	Limit int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded: %d submissions per hour", e.Limit)
}
