// Command seoserver starts the SEO analysis API server.
// Usage: go run ./cmd/seoserver [-listen :8080] [-storage ./data] [-backend nethttp|chromedp]
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/app"
	"github.com/cruisecg/SEOAnalysisTools/internal/cli"
	"github.com/cruisecg/SEOAnalysisTools/internal/evaluator"
	"github.com/cruisecg/SEOAnalysisTools/internal/fetcher"
	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/server"
	"github.com/cruisecg/SEOAnalysisTools/internal/store"
	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parsing arguments: %v", err)
	}

	logger := logging.NewStdoutLogger("seoserver")

	if err := os.MkdirAll(args.StoragePath, 0755); err != nil {
		log.Fatalf("creating storage directory: %v", err)
	}
	st, err := store.Open(args.StoragePath, logger)
	if err != nil {
		log.Fatalf("opening store: %v", err)
	}
	defer st.Close()

	wcCfg := webclient.DefaultConfig()
	wcCfg.Backend = args.Backend
	wc, err := webclient.New(wcCfg, logger)
	if err != nil {
		log.Fatalf("creating web client: %v", err)
	}

	fetch, err := fetcher.New(fetcher.DefaultConfig(), wc, logger)
	if err != nil {
		log.Fatalf("creating fetcher: %v", err)
	}
	defer fetch.Close()

	appCfg := app.DefaultConfig()
	if args.AnonymousLimit > 0 {
		appCfg.TierLimits[app.TierAnonymous] = args.AnonymousLimit
	}
	if args.RegisteredLimit > 0 {
		appCfg.TierLimits[app.TierRegistered] = args.RegisteredLimit
	}
	if args.FreshnessTTL > 0 {
		appCfg.FreshnessTTL = args.FreshnessTTL
	}
	if args.MaxAnalysisTime > 0 {
		appCfg.MaxAnalysisTime = args.MaxAnalysisTime
	}

	orch, err := app.New(appCfg, st, fetch, evaluator.New(logger), logger)
	if err != nil {
		log.Fatalf("creating orchestrator: %v", err)
	}

	srv, err := server.NewServer(server.Config{
		ListenAddr: args.ListenAddr,
		AppConfig:  appCfg,
		Logger:     logger,
	}, orch)
	if err != nil {
		log.Fatalf("creating server: %v", err)
	}
	defer srv.Close()

	httpSrv := srv.HTTPServer()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: args.ListenAddr})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown", logging.Field{Key: "error", Value: err.Error()})
	}
}
