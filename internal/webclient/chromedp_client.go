package webclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
)

// ChromeDPClient renders pages in a headless browser. A single allocator is
// shared across requests; each Do opens its own tab and closes it when the
// request finishes or the caller's context is cancelled.
type ChromeDPClient struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	idleAfter   time.Duration
	logger      logging.Logger
}

func NewChromeDPClient(cfg Config, logger logging.Logger) (*ChromeDPClient, error) {
	componentLogger := logger.With(logging.Field{Key: "component", Value: "webclient.chromedp"})

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	idleAfter := cfg.IdleAfter
	if idleAfter <= 0 {
		idleAfter = 2 * time.Second
	}

	componentLogger.Info("created chromedp webclient",
		logging.Field{Key: "idle_after", Value: idleAfter.String()},
		logging.Field{Key: "headless", Value: cfg.Headless})

	return &ChromeDPClient{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		idleAfter:   idleAfter,
		logger:      componentLogger,
	}, nil
}

// waitNetworkIdle returns a channel that is closed once no network request
// has been in flight for idleAfter.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) <-chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timerMutex sync.Mutex
	var timer *time.Timer
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() { close(idleChan) })
			}
		})
	}
	// Pages without any subresource would otherwise never arm the timer.
	startTimer()

	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev.(type) {
		case *network.EventRequestWillBeSent:
			atomic.AddInt32(&activeReqs, 1)
		case *network.EventLoadingFinished, *network.EventLoadingFailed:
			if atomic.AddInt32(&activeReqs, -1) <= 0 {
				startTimer()
			}
		}
	})

	return idleChan
}

func (cdc *ChromeDPClient) Do(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	tabCtx, tabCancel := chromedp.NewContext(cdc.allocCtx)
	defer tabCancel()

	// Propagate caller cancellation into the tab. Without this a deadline
	// would abandon the navigation and leak the page session.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	var (
		docMu      sync.Mutex
		statusCode int
		headers    http.Header
		chain      []string
	)
	chromedp.ListenTarget(tabCtx, func(ev any) {
		switch e := ev.(type) {
		case *network.EventRequestWillBeSent:
			if e.Type == network.ResourceTypeDocument && e.RedirectResponse != nil {
				docMu.Lock()
				chain = append(chain, e.RedirectResponse.URL)
				docMu.Unlock()
			}
		case *network.EventResponseReceived:
			if e.Type == network.ResourceTypeDocument {
				docMu.Lock()
				if statusCode == 0 {
					statusCode = int(e.Response.Status)
					headers = cdpHeaders(e.Response.Headers)
				}
				docMu.Unlock()
			}
		}
	})

	idle := waitNetworkIdle(tabCtx, cdc.idleAfter)

	cdc.logger.Debug("navigating", logging.Field{Key: "url", Value: req.URL})
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(req.URL),
	); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	select {
	case <-idle:
	case <-tabCtx.Done():
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, tabCtx.Err()
	}

	var html, location string
	if err := chromedp.Run(tabCtx,
		chromedp.Location(&location),
		chromedp.OuterHTML("html", &html),
	); err != nil {
		return nil, fmt.Errorf("snapshot dom: %w", err)
	}

	docMu.Lock()
	defer docMu.Unlock()
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	return &Response{
		Request:       req,
		Body:          []byte(html),
		Headers:       headers,
		StatusCode:    statusCode,
		FinalURL:      location,
		RedirectChain: chain,
		FetchedAt:     time.Now(),
	}, nil
}

func (cdc *ChromeDPClient) Close() error {
	cdc.logger.Info("closing chromedp webclient")
	cdc.allocCancel()
	return nil
}

func cdpHeaders(h network.Headers) http.Header {
	out := http.Header{}
	for k, v := range h {
		if s, ok := v.(string); ok {
			out.Set(k, s)
		}
	}
	return out
}
