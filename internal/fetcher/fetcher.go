// Package fetcher turns a URL into a model.PageSnapshot: the rendered
// document plus the auxiliary resources (robots.txt, sitemap.xml) the
// evaluator's checks consume.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/model"
	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

// Config tunes a Fetcher.
type Config struct {
	// MaxBodyBytes rejects oversized documents; 0 means no limit.
	MaxBodyBytes int64

	// FetchRobots / FetchSitemap toggle the best-effort side fetches.
	FetchRobots  bool
	FetchSitemap bool
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxBodyBytes: 10 << 20, // 10 MiB
		FetchRobots:  true,
		FetchSitemap: true,
	}
}

type Fetcher struct {
	cfg    Config
	wc     webclient.WebClient
	logger logging.Logger
}

func New(cfg Config, wc webclient.WebClient, logger logging.Logger) (*Fetcher, error) {
	if wc == nil {
		return nil, fmt.Errorf("fetcher: webclient is nil")
	}
	return &Fetcher{
		cfg:    cfg,
		wc:     wc,
		logger: logger.With(logging.Field{Key: "component", Value: "fetcher"}),
	}, nil
}

// Fetch retrieves the page at rawURL and assembles a snapshot. The ctx
// deadline bounds the whole operation including the side fetches; the
// webclient propagates cancellation into the underlying session.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*model.PageSnapshot, error) {
	resp, err := f.wc.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: rawURL})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	if f.cfg.MaxBodyBytes > 0 && int64(len(resp.Body)) > f.cfg.MaxBodyBytes {
		return nil, fmt.Errorf("fetch %s: document too large (%d bytes, limit %d)",
			rawURL, len(resp.Body), f.cfg.MaxBodyBytes)
	}

	finalURL := resp.FinalURL
	if finalURL == "" {
		finalURL = rawURL
	}

	snap := &model.PageSnapshot{
		RequestedURL:  rawURL,
		FinalURL:      finalURL,
		StatusCode:    resp.StatusCode,
		Headers:       resp.Headers,
		RedirectChain: resp.RedirectChain,
		HTML:          resp.Body,
		FetchedAt:     resp.FetchedAt,
	}

	origin, err := originOf(finalURL)
	if err != nil {
		f.logger.Warn("cannot derive origin for side fetches",
			logging.Field{Key: "url", Value: finalURL},
			logging.Field{Key: "error", Value: err.Error()})
		return snap, nil
	}

	if f.cfg.FetchRobots {
		snap.RobotsTxt = f.sideFetch(ctx, origin+"/robots.txt")
	}
	if f.cfg.FetchSitemap {
		snap.SitemapXML = f.sideFetch(ctx, origin+"/sitemap.xml")
	}

	return snap, nil
}

// sideFetch retrieves an auxiliary resource; failures are logged, not fatal.
func (f *Fetcher) sideFetch(ctx context.Context, rawURL string) []byte {
	resp, err := f.wc.Do(ctx, &webclient.Request{Method: http.MethodGet, URL: rawURL})
	if err != nil {
		f.logger.Debug("side fetch failed",
			logging.Field{Key: "url", Value: rawURL},
			logging.Field{Key: "error", Value: err.Error()})
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	if f.cfg.MaxBodyBytes > 0 && int64(len(resp.Body)) > f.cfg.MaxBodyBytes {
		return nil
	}
	return resp.Body
}

func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q has no origin", rawURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// Close releases the underlying webclient.
func (f *Fetcher) Close() error {
	return f.wc.Close()
}
