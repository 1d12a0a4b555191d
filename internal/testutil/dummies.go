// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/model"
	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ─── Fetcher ───────────────────────────────────────────────────────────

// DummyFetcher implements the orchestrator's Fetcher contract. By default it
// returns a minimal 200 snapshot echoing the URL. Set Err to force a failure,
// or Delay to simulate a slow target; the delay respects ctx cancellation.
type DummyFetcher struct {
	Snapshot *model.PageSnapshot
	Err      error
	Delay    time.Duration

	mu    sync.Mutex
	Calls []string
}

func (d *DummyFetcher) Fetch(ctx context.Context, url string) (*model.PageSnapshot, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, url)
	d.mu.Unlock()

	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d.Err != nil {
		return nil, d.Err
	}
	if d.Snapshot != nil {
		return d.Snapshot, nil
	}
	return &model.PageSnapshot{
		RequestedURL: url,
		FinalURL:     url,
		StatusCode:   http.StatusOK,
		HTML:         []byte("<html><head><title>dummy</title></head><body></body></html>"),
		FetchedAt:    time.Now(),
	}, nil
}

// CallCount returns how many fetches were attempted.
func (d *DummyFetcher) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Calls)
}

// ─── Evaluator ─────────────────────────────────────────────────────────

// DummyEvaluator implements the orchestrator's Evaluator contract with a
// preconfigured result.
type DummyEvaluator struct {
	Groups []model.CheckGroup
	Err    error
}

func (d *DummyEvaluator) Evaluate(_ *model.PageSnapshot, weights model.Weights) ([]model.CheckGroup, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	if d.Groups != nil {
		return d.Groups, nil
	}
	return []model.CheckGroup{
		{Name: "technical", Weight: weights.Technical, Score: 10, Items: []model.CheckItem{
			{ID: "dummy", Label: "Dummy check", Weight: 10, Score: 10, Priority: model.PriorityLow},
		}},
	}, nil
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyWebClient implements webclient.WebClient. By default it returns body
// "ok:<url>" with status 200. Set FailURLs[url] = true to force an error for
// a specific URL.
type DummyWebClient struct {
	ResponseDelay time.Duration
	FailURLs      map[string]bool

	mu       sync.Mutex
	Requests []*webclient.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *webclient.Request) (*webclient.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-time.After(d.ResponseDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs != nil && d.FailURLs[req.URL] {
		return nil, fmt.Errorf("dummy fetch fail for %s", req.URL)
	}

	return &webclient.Response{
		Request:    req,
		Body:       []byte("ok:" + req.URL),
		StatusCode: http.StatusOK,
		FinalURL:   req.URL,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Close() error { return nil }
