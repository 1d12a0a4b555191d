package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/app"
	"github.com/cruisecg/SEOAnalysisTools/internal/evaluator"
	"github.com/cruisecg/SEOAnalysisTools/internal/fetcher"
	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/store"
	"github.com/cruisecg/SEOAnalysisTools/internal/webclient"
)

const samplePage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Acme Widgets | Industrial widgets shipped worldwide</title>
<meta name="description" content="Acme Widgets manufactures industrial widgets in every size and ships them worldwide with a lifetime guarantee and same-day support.">
<link rel="canonical" href="https://acme.example/widgets">
</head>
<body>
<h1>Industrial widgets</h1>
<h2>Why Acme</h2>
<p>Every widget is machined to spec and inspected twice before it leaves the floor.</p>
<img src="/widget.png" alt="A forged steel widget">
<a href="/pricing">Pricing</a>
</body>
</html>`

func setupHttpServer() *httptest.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, samplePage)
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nAllow: /\n")
	})

	return httptest.NewServer(mux)
}

func main() {
	target := setupHttpServer()
	defer target.Close() // Close AFTER the analysis

	logger := logging.NewStdoutLogger("demo")

	dir, err := os.MkdirTemp("", "seodemo")
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer os.RemoveAll(dir)

	st, err := store.Open(dir, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer st.Close()

	wc, err := webclient.New(webclient.DefaultConfig(), logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fetch, err := fetcher.New(fetcher.DefaultConfig(), wc, logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer fetch.Close()

	orch, err := app.New(nil, st, fetch, evaluator.New(logger), logger)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer orch.Close()

	taskID, err := orch.Submit(context.Background(), app.Client{ID: "demo", Tier: app.TierRegistered}, target.URL)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	for {
		task, err := orch.GetTask(context.Background(), taskID)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if task.Status.Terminal() {
			fmt.Printf("status: %s  score: %d  grade: %s\n", task.Status, task.OverallScore, task.Grade)
			for _, w := range task.Warnings {
				fmt.Printf("warning: %s\n", w)
			}
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}
