package model

import (
	"net/http"
	"time"
)

// PageSnapshot is everything the fetch subsystem hands to the evaluator:
// the rendered document plus the auxiliary resources SEO checks care about.
type PageSnapshot struct {
	// RequestedURL is the URL the fetch started from; FinalURL is where it
	// ended up after redirects.
	RequestedURL string
	FinalURL     string

	StatusCode int
	Headers    http.Header

	// RedirectChain lists every intermediate URL, in order, excluding the
	// final one. Empty when no redirect occurred.
	RedirectChain []string

	HTML []byte

	// RobotsTxt and SitemapXML are best-effort side fetches; nil when the
	// resource was absent or unreachable.
	RobotsTxt  []byte
	SitemapXML []byte

	FetchedAt time.Time
}
