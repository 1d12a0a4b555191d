package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/store"
	"github.com/cruisecg/SEOAnalysisTools/internal/testutil"
)

func newTestLimiter(t *testing.T) *Limiter {
	t.Helper()
	st, err := store.Open(t.TempDir(), &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, &testutil.DummyLogger{})
}

func TestWindowKey_HourTruncationUTC(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+2", 2*3600)
	a := time.Date(2026, 3, 1, 12, 0, 1, 0, loc)  // 10:00:01 UTC
	b := time.Date(2026, 3, 1, 12, 59, 59, 0, loc) // 10:59:59 UTC
	c := time.Date(2026, 3, 1, 13, 0, 0, 0, loc)   // 11:00:00 UTC

	if WindowKey(a) != WindowKey(b) {
		t.Errorf("same hour produced different keys: %q vs %q", WindowKey(a), WindowKey(b))
	}
	if WindowKey(b) == WindowKey(c) {
		t.Error("next hour produced the same key")
	}
	if WindowKey(a) != "2026-03-01T10" {
		t.Errorf("key = %q, want UTC-truncated hour", WindowKey(a))
	}
}

func TestCheckAndIncrement_DeniesAtLimit(t *testing.T) {
	t.Parallel()
	l := newTestLimiter(t)
	ctx := context.Background()

	const limit = 2
	for i := 0; i < limit; i++ {
		allowed, err := l.CheckAndIncrement(ctx, "client-a", limit)
		if err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("call %d denied below limit", i)
		}
	}

	allowed, err := l.CheckAndIncrement(ctx, "client-a", limit)
	if err != nil {
		t.Fatal(err)
	}
	if allowed {
		t.Fatal("limit+1-th call was allowed")
	}

	// Other clients are unaffected.
	allowed, err = l.CheckAndIncrement(ctx, "client-b", limit)
	if err != nil {
		t.Fatal(err)
	}
	if !allowed {
		t.Error("different client was denied")
	}
}

func TestCheckAndIncrement_NextHourAllowsAgain(t *testing.T) {
	t.Parallel()
	l := newTestLimiter(t)
	ctx := context.Background()

	current := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	l.SetClock(func() time.Time { return current })

	if ok, err := l.CheckAndIncrement(ctx, "c", 1); err != nil || !ok {
		t.Fatalf("first call: ok=%v err=%v", ok, err)
	}
	if ok, err := l.CheckAndIncrement(ctx, "c", 1); err != nil || ok {
		t.Fatalf("second call in window: ok=%v err=%v", ok, err)
	}

	current = current.Add(time.Hour)
	if ok, err := l.CheckAndIncrement(ctx, "c", 1); err != nil || !ok {
		t.Fatalf("call in next window: ok=%v err=%v", ok, err)
	}
}

func TestCheckAndIncrement_RejectsNonPositiveLimit(t *testing.T) {
	t.Parallel()
	l := newTestLimiter(t)

	if _, err := l.CheckAndIncrement(context.Background(), "c", 0); err == nil {
		t.Fatal("expected error for limit 0")
	}
}
