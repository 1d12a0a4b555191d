package webclient

import (
	"net/http"
	"time"
)

type Request struct {
	Method  string
	URL     string
	Headers http.Header
	Body    []byte
}

type Response struct {
	Request    *Request
	Headers    http.Header
	Body       []byte
	StatusCode int

	// FinalURL is the URL after following redirects; RedirectChain lists the
	// intermediate URLs in order, excluding the final one.
	FinalURL      string
	RedirectChain []string

	FetchedAt time.Time
}
