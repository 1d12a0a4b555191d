package webclient

import "time"

type Backend string

const (
	BackendNetHTTP  Backend = "nethttp"
	BackendChromedp Backend = "chromedp"
)

// Config selects and tunes a webclient backend.
type Config struct {
	Backend Backend

	// Timeout bounds a single request for the nethttp backend. The analysis
	// deadline still applies on top through the caller's context.
	Timeout time.Duration

	// IdleAfter is how long the chromedp backend waits for the network to go
	// quiet before snapshotting the DOM.
	IdleAfter time.Duration

	// Headless controls the chromedp browser; leave true outside debugging.
	Headless bool

	UserAgent string
}

// DefaultConfig returns sensible defaults for the nethttp backend.
func DefaultConfig() Config {
	return Config{
		Backend:   BackendNetHTTP,
		Timeout:   30 * time.Second,
		IdleAfter: 2 * time.Second,
		Headless:  true,
		UserAgent: "SEOAnalysisTools/1.0 (+https://github.com/cruisecg/SEOAnalysisTools)",
	}
}
