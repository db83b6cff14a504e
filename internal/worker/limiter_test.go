package worker

import (
	"context"
	"testing"
	"time"
)

func TestWriteLimiter_AllowWithinBurst(t *testing.T) {
	l := NewWriteLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("checks.db") {
			t.Fatalf("write %d should be within burst", i)
		}
	}
	if l.Allow("checks.db") {
		t.Error("burst exhausted, write should be denied")
	}
}

func TestWriteLimiter_SeparateBucketsPerPath(t *testing.T) {
	l := NewWriteLimiter(1, 1)

	if !l.Allow("a.db") {
		t.Fatal("first write to a.db should pass")
	}
	if l.Allow("a.db") {
		t.Error("second write to a.db should be limited")
	}
	if !l.Allow("b.db") {
		t.Error("b.db has its own bucket and should pass")
	}
}

func TestWriteLimiter_WaitPaces(t *testing.T) {
	l := NewWriteLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 4; i++ {
		if err := l.Wait(ctx, "checks.db"); err != nil {
			t.Fatalf("wait: %v", err)
		}
	}
	// Burst covers the first write; three more at 100/s need ~30ms
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected pacing, 4 writes took %v", elapsed)
	}
}

func TestWriteLimiter_WaitHonorsContext(t *testing.T) {
	l := NewWriteLimiter(0.1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "checks.db"); err != nil {
		t.Fatalf("first write should use the burst: %v", err)
	}
	if err := l.Wait(ctx, "checks.db"); err == nil {
		t.Error("expected context deadline error while waiting")
	}
}

func TestWriteLimiter_DefaultBurst(t *testing.T) {
	l := NewWriteLimiter(10, 0)
	if l.defaultBurst <= 0 {
		t.Errorf("non-positive burst must fall back to a default, got %d", l.defaultBurst)
	}
}
