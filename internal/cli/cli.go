package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

// CLIArgs are the command-line arguments that control the analysis server.
type CLIArgs struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string

	// StoragePath is the directory holding the SQLite database.
	StoragePath string

	// Backend selects the page fetch backend: nethttp or chromedp.
	Backend webclient.Backend

	// AnonymousLimit and RegisteredLimit are hourly submission ceilings
	// per client tier; 0 means "use config default".
	AnonymousLimit  int
	RegisteredLimit int

	// FreshnessTTL is how long completed analyses satisfy repeat
	// submissions; 0 means "use config default".
	FreshnessTTL time.Duration

	// MaxAnalysisTime is the per-task wall-clock deadline; 0 means "use
	// config default".
	MaxAnalysisTime time.Duration

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not read
// os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("seoserver", flag.ContinueOnError)
	var (
		listenAddr = fs.String("listen", ":8080", "HTTP listen address")
		storage    = fs.String("storage", "./data", "Directory for the task database")
		backend    = fs.String("backend", string(webclient.BackendNetHTTP), "Fetch backend: nethttp|chromedp")
		anonLimit  = fs.Int("anon-limit", 0, "Hourly submissions per anonymous client (0=use default)")
		regLimit   = fs.Int("registered-limit", 0, "Hourly submissions per registered client (0=use default)")
		freshness  = fs.Duration("freshness", 0, "How long a completed analysis stays fresh (0=use default)")
		deadline   = fs.Duration("deadline", 0, "Wall-clock limit per analysis (0=use default)")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(nil)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	b := webclient.Backend(*backend)
	if b != webclient.BackendNetHTTP && b != webclient.BackendChromedp {
		return nil, fmt.Errorf("unknown backend %q", *backend)
	}

	return &CLIArgs{
		ListenAddr:      *listenAddr,
		StoragePath:     *storage,
		Backend:         b,
		AnonymousLimit:  *anonLimit,
		RegisteredLimit: *regLimit,
		FreshnessTTL:    *freshness,
		MaxAnalysisTime: *deadline,
		RawArgs:         args,
	}, nil
}
