package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/model"
	"github.com/cruisecg/SEOAnalysisTools/internal/store"
)

// Cache maps URL fingerprints to the most recent completed task within a
// freshness window. It is a correctness cache: a hit hands callers the stable
// task id for "the same" analysis instead of spawning duplicate work.
type Cache struct {
	store  *store.Store
	ttl    time.Duration
	logger logging.Logger

	now func() time.Time
}

func New(st *store.Store, ttl time.Duration, logger logging.Logger) *Cache {
	return &Cache{
		store:  st,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// Lookup returns the cached task id for fingerprint. A hit requires all of:
// an entry exists, its age is below the freshness TTL, and the referenced
// task still exists with status done. Anything else degrades to a miss.
func (c *Cache) Lookup(ctx context.Context, fingerprint string) (string, bool, error) {
	taskID, cachedAt, ok, err := c.store.GetDedup(ctx, fingerprint)
	if err != nil {
		return "", false, fmt.Errorf("dedup lookup: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	if c.now().Sub(cachedAt) >= c.ttl {
		return "", false, nil
	}

	task, err := c.store.GetTask(ctx, taskID)
	if errors.Is(err, store.ErrTaskNotFound) {
		// Referenced task was garbage-collected externally. Miss, not error.
		if c.logger != nil {
			c.logger.Debug("dedup entry references missing task",
				logging.Field{Key: "fingerprint", Value: fingerprint},
				logging.Field{Key: "task_id", Value: taskID})
		}
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("dedup task check: %w", err)
	}
	if task.Status != model.TaskDone {
		return "", false, nil
	}
	return taskID, true, nil
}

// Insert records taskID as the fresh analysis for fingerprint, overwriting
// any prior entry. Call only after the task reached done.
func (c *Cache) Insert(ctx context.Context, fingerprint, taskID string) error {
	if err := c.store.PutDedup(ctx, fingerprint, taskID); err != nil {
		return fmt.Errorf("dedup insert: %w", err)
	}
	return nil
}

// SetClock overrides the cache's clock. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	c.now = now
}
