package app

import (
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/utils"
)

// Tier identifies a client's service level. The tier is supplied by the
// caller alongside the submission; it decides the hourly submission ceiling.
type Tier string

const (
	TierAnonymous  Tier = "anonymous"
	TierRegistered Tier = "registered"
)

// Client identifies the submitting party for rate limiting purposes.
type Client struct {
	ID   string
	Tier Tier
}

// Config holds the orchestrator's tunables.
type Config struct {
	// TierLimits maps a client tier to its hourly submission ceiling.
	// Unknown tiers fall back to the anonymous limit.
	TierLimits map[Tier]int

	// FreshnessTTL is how long a completed analysis satisfies repeat
	// submissions of the same canonical URL.
	FreshnessTTL time.Duration

	// MaxAnalysisTime is the hard wall-clock deadline for a single
	// analysis, covering fetch and evaluation.
	MaxAnalysisTime time.Duration

	// URLOptions controls canonicalization of submitted URLs.
	URLOptions utils.CanonicalizeOptions
}

// DefaultConfig returns the orchestrator defaults.
func DefaultConfig() *Config {
	return &Config{
		TierLimits: map[Tier]int{
			TierAnonymous:  5,
			TierRegistered: 30,
		},
		FreshnessTTL:    24 * time.Hour,
		MaxAnalysisTime: 60 * time.Second,
		URLOptions: utils.CanonicalizeOptions{
			StripTrailingSlash: true,
		},
	}
}

// limitFor resolves the hourly ceiling for a client. A tier with no
// configured limit uses the anonymous limit.
func (c *Config) limitFor(client Client) int {
	if limit, ok := c.TierLimits[client.Tier]; ok && limit > 0 {
		return limit
	}
	if limit, ok := c.TierLimits[TierAnonymous]; ok && limit > 0 {
		return limit
	}
	return DefaultConfig().TierLimits[TierAnonymous]
}
