package webclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/testutil"
	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

func TestNetHTTPClient_Get(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><title>hi</title></html>"))
	}))
	defer srv.Close()

	wc := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &testutil.DummyLogger{}, nil)
	defer wc.Close()

	resp, err := wc.Do(context.Background(), &webclient.Request{Method: "GET", URL: srv.URL})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Body), "<title>hi</title>") {
		t.Errorf("body = %q", resp.Body)
	}
	if resp.FinalURL != srv.URL {
		t.Errorf("final url = %q, want %q", resp.FinalURL, srv.URL)
	}
	if len(resp.RedirectChain) != 0 {
		t.Errorf("redirect chain = %v, want empty", resp.RedirectChain)
	}
}

func TestNetHTTPClient_RedirectChain(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/c", http.StatusFound)
	})
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("landed"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	wc := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &testutil.DummyLogger{}, nil)
	defer wc.Close()

	resp, err := wc.Do(context.Background(), &webclient.Request{Method: "GET", URL: srv.URL + "/a"})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if resp.FinalURL != srv.URL+"/c" {
		t.Errorf("final url = %q, want %s/c", resp.FinalURL, srv.URL)
	}
	if len(resp.RedirectChain) != 2 {
		t.Fatalf("redirect chain = %v, want two hops", resp.RedirectChain)
	}
	if !strings.HasSuffix(resp.RedirectChain[0], "/a") || !strings.HasSuffix(resp.RedirectChain[1], "/b") {
		t.Errorf("redirect chain order wrong: %v", resp.RedirectChain)
	}
}

func TestNetHTTPClient_ContextCancellation(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))
	defer srv.Close()

	wc := webclient.NewNetHTTPClient(webclient.DefaultConfig(), &testutil.DummyLogger{}, nil)
	defer wc.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	done := make(chan error, 1)
	go func() {
		_, err := wc.Do(ctx, &webclient.Request{Method: "GET", URL: srv.URL})
		done <- err
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after cancellation")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestFactory_ConstructsRegisteredBackend(t *testing.T) {
	t.Parallel()

	cfg := webclient.DefaultConfig()
	wc, err := webclient.New(cfg, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer wc.Close()
	if _, ok := wc.(*webclient.NetHTTPClient); !ok {
		t.Errorf("default backend = %T, want *NetHTTPClient", wc)
	}
}

func TestFactory_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := webclient.DefaultConfig()
	cfg.Backend = "carrier-pigeon"
	if _, err := webclient.New(cfg, &testutil.DummyLogger{}); err == nil {
		t.Fatal("expected error for unregistered backend")
	}
}
