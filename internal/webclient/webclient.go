// Package webclient abstracts page retrieval behind a small interface with
// pluggable backends: plain net/http for static documents and chromedp for
// JavaScript-rendered pages.
package webclient

import "context"

type WebClient interface {
	// Do executes the request. Implementations must honor ctx cancellation
	// and release any underlying session (connection, browser tab) when the
	// context is done.
	Do(ctx context.Context, req *Request) (*Response, error)

	Close() error
}
