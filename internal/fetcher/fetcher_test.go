package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cruisecg/SEOAnalysisTools/internal/testutil"
	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

func newTestFetcher(t *testing.T, cfg Config) *Fetcher {
	t.Helper()
	wc := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &testutil.DummyLogger{}, nil)
	f, err := New(cfg, wc, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func TestFetch_AssemblesSnapshot(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><head><title>home</title></head><body></body></html>"))
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("User-agent: *\nAllow: /\n"))
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<?xml version="1.0"?><urlset></urlset>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newTestFetcher(t, DefaultConfig())
	snap, err := f.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if !strings.Contains(string(snap.HTML), "<title>home</title>") {
		t.Errorf("html = %q", snap.HTML)
	}
	if snap.StatusCode != http.StatusOK {
		t.Errorf("status = %d", snap.StatusCode)
	}
	if snap.FinalURL != srv.URL+"/" {
		t.Errorf("final url = %q", snap.FinalURL)
	}
	if !strings.Contains(string(snap.RobotsTxt), "User-agent") {
		t.Errorf("robots.txt not captured: %q", snap.RobotsTxt)
	}
	if !strings.Contains(string(snap.SitemapXML), "urlset") {
		t.Errorf("sitemap.xml not captured: %q", snap.SitemapXML)
	}
}

func TestFetch_MissingSideResourcesAreNotFatal(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<html></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	f := newTestFetcher(t, DefaultConfig())
	snap, err := f.Fetch(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.RobotsTxt != nil {
		t.Errorf("robots.txt = %q, want nil for 404", snap.RobotsTxt)
	}
	if snap.SitemapXML != nil {
		t.Errorf("sitemap.xml = %q, want nil for 404", snap.SitemapXML)
	}
}

func TestFetch_OversizedDocument(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.MaxBodyBytes = 1024
	f := newTestFetcher(t, cfg)

	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for oversized document")
	} else if !strings.Contains(err.Error(), "too large") {
		t.Errorf("error = %v, want size complaint", err)
	}
}

func TestFetch_RecordsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.FetchRobots = false
	cfg.FetchSitemap = false
	f := newTestFetcher(t, cfg)

	snap, err := f.Fetch(context.Background(), srv.URL+"/old")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if snap.FinalURL != srv.URL+"/new" {
		t.Errorf("final url = %q", snap.FinalURL)
	}
	if len(snap.RedirectChain) != 1 || !strings.HasSuffix(snap.RedirectChain[0], "/old") {
		t.Errorf("redirect chain = %v", snap.RedirectChain)
	}
}
