// Package app coordinates the analysis pipeline. The Orchestrator accepts
// URL submissions, enforces per-client rate limits and dedup caching, and
// drives each accepted task through fetch, evaluation and scoring in a
// background goroutine.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cruisecg/SEOAnalysisTools/internal/dedup"
	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/model"
	"github.com/cruisecg/SEOAnalysisTools/internal/ratelimit"
	"github.com/cruisecg/SEOAnalysisTools/internal/scorer"
	"github.com/cruisecg/SEOAnalysisTools/internal/store"
	"github.com/cruisecg/SEOAnalysisTools/internal/utils"
)

// Fetcher retrieves a page snapshot for a canonical URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.PageSnapshot, error)
}

// Evaluator turns a page snapshot into scored check groups.
type Evaluator interface {
	Evaluate(snap *model.PageSnapshot, weights model.Weights) ([]model.CheckGroup, error)
}

// Orchestrator owns the task lifecycle from submission to terminal state.
type Orchestrator struct {
	cfg     *Config
	store   *store.Store
	limiter *ratelimit.Limiter
	cache   *dedup.Cache
	fetch   Fetcher
	eval    Evaluator
	logger  logging.Logger

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	watchMu  sync.Mutex
	watchers map[string]map[chan TaskEvent]struct{}
}

// New builds an Orchestrator. A nil cfg uses DefaultConfig.
func New(cfg *Config, st *store.Store, fetch Fetcher, eval Evaluator, logger logging.Logger) (*Orchestrator, error) {
	if st == nil {
		return nil, errors.New("orchestrator requires a store")
	}
	if fetch == nil {
		return nil, errors.New("orchestrator requires a fetcher")
	}
	if eval == nil {
		return nil, errors.New("orchestrator requires an evaluator")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = logging.NewStdoutLogger("orchestrator")
	}

	// Any task left non-terminal by a previous process has no goroutine
	// driving it anymore.
	if n, err := st.FailStaleTasks(context.Background(), "analysis interrupted by restart"); err != nil {
		return nil, fmt.Errorf("fail stale tasks: %w", err)
	} else if n > 0 {
		logger.Warn("failed stale tasks from previous run", logging.Field{Key: "count", Value: n})
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		cfg:      cfg,
		store:    st,
		limiter:  ratelimit.New(st, logger),
		cache:    dedup.New(st, cfg.FreshnessTTL, logger),
		fetch:    fetch,
		eval:     eval,
		logger:   logger,
		baseCtx:  ctx,
		cancel:   cancel,
		watchers: make(map[string]map[chan TaskEvent]struct{}),
	}, nil
}

// Submit validates and enqueues an analysis of rawURL on behalf of client.
// It returns quickly: either the id of a fresh cached task for the same
// canonical URL, or the id of a newly queued task whose analysis proceeds in
// the background. Steps run in a fixed order: canonicalize, rate limit,
// dedup lookup, create, dispatch. A rejected submission never consumes rate
// budget before validation, and a dedup hit does consume budget.
func (o *Orchestrator) Submit(ctx context.Context, client Client, rawURL string) (string, error) {
	canonical, err := utils.Canonicalize(rawURL, o.cfg.URLOptions)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !strings.HasPrefix(canonical, "http://") && !strings.HasPrefix(canonical, "https://") {
		return "", fmt.Errorf("%w: only http and https URLs are analyzed", ErrInvalidInput)
	}

	limit := o.cfg.limitFor(client)
	allowed, err := o.limiter.CheckAndIncrement(ctx, client.ID, limit)
	if err != nil {
		return "", fmt.Errorf("rate limit check: %w", err)
	}
	if !allowed {
		return "", &RateLimitedError{Limit: limit}
	}

	fingerprint := utils.Fingerprint(canonical)
	if taskID, hit, err := o.cache.Lookup(ctx, fingerprint); err != nil {
		return "", fmt.Errorf("dedup lookup: %w", err)
	} else if hit {
		o.logger.Debug("dedup hit",
			logging.Field{Key: "task_id", Value: taskID},
			logging.Field{Key: "url", Value: canonical})
		return taskID, nil
	}

	task := &model.Task{
		ID:           uuid.NewString(),
		Status:       model.TaskQueued,
		RequestedURL: canonical,
		CreatedAt:    time.Now().UTC(),
	}
	if err := o.store.CreateTask(ctx, task); err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}

	o.logger.Info("task queued",
		logging.Field{Key: "task_id", Value: task.ID},
		logging.Field{Key: "client_id", Value: client.ID},
		logging.Field{Key: "url", Value: canonical})

	o.wg.Add(1)
	go o.run(task.ID, canonical, fingerprint)
	return task.ID, nil
}

// GetTask returns the current state of a task.
func (o *Orchestrator) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return o.store.GetTask(ctx, id)
}

// Weights returns the scoring weights currently in effect.
func (o *Orchestrator) Weights(ctx context.Context) (model.Weights, error) {
	return o.store.GetWeights(ctx)
}

// SetWeights replaces the scoring weights used by subsequent analyses.
func (o *Orchestrator) SetWeights(ctx context.Context, w model.Weights) error {
	return o.store.PutWeights(ctx, w)
}

// run drives one task through the pipeline. Exactly one goroutine wins the
// queued to running transition; losers return without touching the task.
func (o *Orchestrator) run(taskID, canonical, fingerprint string) {
	defer o.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("analysis panic",
				logging.Field{Key: "task_id", Value: taskID},
				logging.Field{Key: "panic", Value: fmt.Sprint(r)})
			o.failTask(taskID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	won, err := o.store.TransitionTask(o.baseCtx, taskID, model.TaskQueued, model.TaskRunning)
	if err != nil {
		o.logger.Error("start transition failed",
			logging.Field{Key: "task_id", Value: taskID},
			logging.Field{Key: "error", Value: err.Error()})
		o.failTask(taskID, "could not start analysis")
		return
	}
	if !won {
		return
	}
	o.emit(TaskEvent{TaskID: taskID, Status: model.TaskRunning})

	ctx, cancel := context.WithTimeout(o.baseCtx, o.cfg.MaxAnalysisTime)
	defer cancel()

	snap, err := o.fetch.Fetch(ctx, canonical)
	if err != nil {
		o.failTask(taskID, o.describeFailure(err))
		return
	}

	weights, err := o.store.GetWeights(ctx)
	if err != nil {
		o.failTask(taskID, fmt.Sprintf("load weights: %v", err))
		return
	}

	groups, err := o.eval.Evaluate(snap, weights)
	if err != nil {
		o.failTask(taskID, o.describeFailure(err))
		return
	}

	overall, grade, warnings := scorer.Score(groups)
	result := &model.TaskResult{
		FinalURL:     snap.FinalURL,
		OverallScore: overall,
		Grade:        grade,
		Checks:       groups,
		Warnings:     warnings,
	}

	// Final writes use a fresh context so a shutdown mid-analysis still
	// records the outcome.
	if err := o.store.CompleteTask(context.Background(), taskID, result); err != nil {
		o.logger.Error("complete task failed",
			logging.Field{Key: "task_id", Value: taskID},
			logging.Field{Key: "error", Value: err.Error()})
		o.failTask(taskID, "could not record result")
		return
	}
	if err := o.cache.Insert(context.Background(), fingerprint, taskID); err != nil {
		// The task already completed; a stale cache only costs a repeat
		// analysis later.
		o.logger.Warn("dedup insert failed",
			logging.Field{Key: "task_id", Value: taskID},
			logging.Field{Key: "error", Value: err.Error()})
	}

	o.logger.Info("task done",
		logging.Field{Key: "task_id", Value: taskID},
		logging.Field{Key: "score", Value: overall},
		logging.Field{Key: "grade", Value: string(grade)})
	o.emit(TaskEvent{TaskID: taskID, Status: model.TaskDone})
}

func (o *Orchestrator) describeFailure(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("analysis timed out after %s", o.cfg.MaxAnalysisTime)
	}
	return fmt.Sprintf("analysis failed: %v", err)
}

func (o *Orchestrator) failTask(taskID, message string) {
	if err := o.store.FailTask(context.Background(), taskID, message); err != nil {
		o.logger.Error("fail task write failed",
			logging.Field{Key: "task_id", Value: taskID},
			logging.Field{Key: "error", Value: err.Error()})
		return
	}
	o.logger.Info("task failed",
		logging.Field{Key: "task_id", Value: taskID},
		logging.Field{Key: "reason", Value: message})
	o.emit(TaskEvent{TaskID: taskID, Status: model.TaskFailed, Error: message})
}

// Close cancels in-flight analyses and waits for their goroutines to finish
// recording terminal states.
func (o *Orchestrator) Close() {
	o.cancel()
	o.wg.Wait()

	o.watchMu.Lock()
	for taskID, set := range o.watchers {
		for ch := range set {
			close(ch)
		}
		delete(o.watchers, taskID)
	}
	o.watchMu.Unlock()
}
