package cli

import (
	"testing"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

func TestParseArgs_Defaults(t *testing.T) {
	args, err := ParseArgs(nil)
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want :8080", args.ListenAddr)
	}
	if args.Backend != webclient.BackendNetHTTP {
		t.Errorf("Backend = %q, want nethttp", args.Backend)
	}
	if args.AnonymousLimit != 0 || args.FreshnessTTL != 0 {
		t.Errorf("overrides should default to zero: %+v", args)
	}
}

func TestParseArgs_Overrides(t *testing.T) {
	args, err := ParseArgs([]string{
		"-listen", ":9000",
		"-storage", "/var/lib/seo",
		"-backend", "chromedp",
		"-anon-limit", "3",
		"-registered-limit", "50",
		"-freshness", "1h",
		"-deadline", "90s",
	})
	if err != nil {
		t.Fatalf("ParseArgs: %v", err)
	}
	if args.ListenAddr != ":9000" || args.StoragePath != "/var/lib/seo" {
		t.Errorf("addr/storage = %q/%q", args.ListenAddr, args.StoragePath)
	}
	if args.Backend != webclient.BackendChromedp {
		t.Errorf("Backend = %q, want chromedp", args.Backend)
	}
	if args.AnonymousLimit != 3 || args.RegisteredLimit != 50 {
		t.Errorf("limits = %d/%d, want 3/50", args.AnonymousLimit, args.RegisteredLimit)
	}
	if args.FreshnessTTL != time.Hour || args.MaxAnalysisTime != 90*time.Second {
		t.Errorf("ttl/deadline = %s/%s", args.FreshnessTTL, args.MaxAnalysisTime)
	}
}

func TestParseArgs_UnknownBackend(t *testing.T) {
	if _, err := ParseArgs([]string{"-backend", "webkit"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestParseArgs_BadFlag(t *testing.T) {
	if _, err := ParseArgs([]string{"-no-such-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
