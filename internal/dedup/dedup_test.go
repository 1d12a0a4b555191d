package dedup

import (
	"context"
	"testing"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
	"github.com/cruisecg/SEOAnalysisTools/internal/store"
	"github.com/cruisecg/SEOAnalysisTools/internal/testutil"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *store.Store) {
	t.Helper()
	st, err := store.Open(t.TempDir(), &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, ttl, &testutil.DummyLogger{}), st
}

// completeTask creates a task and drives it to done through the store.
func completeTask(t *testing.T, st *store.Store, id string) {
	t.Helper()
	ctx := context.Background()
	task := &model.Task{ID: id, Status: model.TaskQueued, RequestedURL: "https://example.com/", CreatedAt: time.Now().UTC()}
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}
	if _, err := st.TransitionTask(ctx, id, model.TaskQueued, model.TaskRunning); err != nil {
		t.Fatal(err)
	}
	if err := st.CompleteTask(ctx, id, &model.TaskResult{Grade: model.GradeA, OverallScore: 100}); err != nil {
		t.Fatal(err)
	}
}

func TestLookup_MissOnEmptyCache(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, time.Hour)

	if _, ok, err := c.Lookup(context.Background(), "fp"); err != nil || ok {
		t.Fatalf("ok=%v err=%v, want miss", ok, err)
	}
}

func TestLookup_HitOnFreshDoneTask(t *testing.T) {
	t.Parallel()
	c, st := newTestCache(t, time.Hour)
	ctx := context.Background()

	completeTask(t, st, "t1")
	if err := c.Insert(ctx, "fp", "t1"); err != nil {
		t.Fatal(err)
	}

	id, ok, err := c.Lookup(ctx, "fp")
	if err != nil {
		t.Fatal(err)
	}
	if !ok || id != "t1" {
		t.Fatalf("ok=%v id=%q, want hit on t1", ok, id)
	}
}

func TestLookup_MissOnExpiredEntry(t *testing.T) {
	t.Parallel()
	c, st := newTestCache(t, time.Hour)
	ctx := context.Background()

	completeTask(t, st, "t1")
	if err := c.Insert(ctx, "fp", "t1"); err != nil {
		t.Fatal(err)
	}

	c.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })

	if _, ok, err := c.Lookup(ctx, "fp"); err != nil || ok {
		t.Fatalf("ok=%v err=%v, want miss past TTL", ok, err)
	}
}

func TestLookup_MissOnNonDoneTask(t *testing.T) {
	t.Parallel()
	c, st := newTestCache(t, time.Hour)
	ctx := context.Background()

	task := &model.Task{ID: "t1", Status: model.TaskQueued, RequestedURL: "https://example.com/", CreatedAt: time.Now().UTC()}
	if err := st.CreateTask(ctx, task); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(ctx, "fp", "t1"); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Lookup(ctx, "fp"); err != nil || ok {
		t.Fatalf("ok=%v err=%v, want miss for non-done task", ok, err)
	}
}

func TestLookup_MissNotErrorOnMissingTask(t *testing.T) {
	t.Parallel()
	c, _ := newTestCache(t, time.Hour)
	ctx := context.Background()

	// Entry points at a task that was cleaned up externally.
	if err := c.Insert(ctx, "fp", "ghost"); err != nil {
		t.Fatal(err)
	}

	_, ok, err := c.Lookup(ctx, "fp")
	if err != nil {
		t.Fatalf("missing task must degrade to miss, got error %v", err)
	}
	if ok {
		t.Fatal("hit on missing task")
	}
}

func TestInsert_MostRecentWins(t *testing.T) {
	t.Parallel()
	c, st := newTestCache(t, time.Hour)
	ctx := context.Background()

	completeTask(t, st, "t1")
	completeTask(t, st, "t2")
	if err := c.Insert(ctx, "fp", "t1"); err != nil {
		t.Fatal(err)
	}
	if err := c.Insert(ctx, "fp", "t2"); err != nil {
		t.Fatal(err)
	}

	id, ok, err := c.Lookup(ctx, "fp")
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if id != "t2" {
		t.Errorf("id = %q, want t2", id)
	}
}
