package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/transfermatch/internal/model"
)

func TestLimiter_New(t *testing.T) {
	l := NewLimiter(model.RateLimitConfig{RequestsPerSecond: 10, BurstSize: 3})
	if l.defaultBurst != 3 {
		t.Errorf("expected burst 3, got %d", l.defaultBurst)
	}

	l2 := NewLimiter(model.RateLimitConfig{RequestsPerSecond: 10, BurstSize: -1})
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}

	l3 := NewLimiter(model.RateLimitConfig{})
	if l3.defaultRate != rate.Inf {
		t.Errorf("expected unlimited rate when unset, got %v", l3.defaultRate)
	}
}

func TestLimiter_WaitPerHost(t *testing.T) {
	l := NewLimiter(model.RateLimitConfig{RequestsPerSecond: 20, BurstSize: 1})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, "https://assist.example.org/agreements/1"); err != nil {
			t.Fatalf("wait failed: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("expected three requests at 20 rps to take >= 80ms, took %v", elapsed)
	}

	// A different host has its own bucket.
	start = time.Now()
	if err := l.Wait(ctx, "https://other.example.org/x"); err != nil {
		t.Fatalf("wait failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("expected other host to pass immediately, took %v", elapsed)
	}
}

func TestLimiter_WaitCancelled(t *testing.T) {
	l := NewLimiter(model.RateLimitConfig{RequestsPerSecond: 0.1, BurstSize: 1})
	ctx, cancel := context.WithCancel(context.Background())

	if err := l.Wait(ctx, "https://slow.example.org"); err != nil {
		t.Fatalf("first wait failed: %v", err)
	}
	cancel()
	if err := l.Wait(ctx, "https://slow.example.org"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestLimiter_SlowDown(t *testing.T) {
	l := NewLimiter(model.RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	l.SlowDown("https://slow.example.org/a", 2*time.Second)
	lim := l.limiter("slow.example.org")
	if lim.Limit() != rate.Every(2*time.Second) {
		t.Errorf("expected one request per 2s, got %v", lim.Limit())
	}
	if lim.Burst() != 1 {
		t.Errorf("expected burst 1, got %d", lim.Burst())
	}

	// A shorter delay never speeds the host back up.
	l.SlowDown("https://slow.example.org/a", 100*time.Millisecond)
	if lim.Limit() != rate.Every(2*time.Second) {
		t.Errorf("expected rate to stay at one per 2s, got %v", lim.Limit())
	}

	if got := l.limiter("fast.example.org").Limit(); got != 10 {
		t.Errorf("expected other host at default rate, got %v", got)
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("https://assist.example.org:8443/api?id=1")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "assist.example.org:8443" {
		t.Errorf("expected assist.example.org:8443, got %s", host)
	}

	for _, bad := range []string{"::invalid", "agreements/local.json"} {
		if _, err := hostOf(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
