package api

import (
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestIPRateLimiterDropsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	rl := NewIPRateLimiter(rate.Limit(1), 1)
	rl.now = func() time.Time { return now }
	rl.lastSweep = now

	first := rl.GetLimiter("10.0.0.1")
	if !first.Allow() {
		t.Fatal("Expected the first request to pass")
	}
	if rl.GetLimiter("10.0.0.1") != first {
		t.Error("Expected the same bucket for a returning client")
	}

	now = now.Add(visitorIdleTTL / 2)
	rl.GetLimiter("10.0.0.2")

	now = now.Add(visitorIdleTTL/2 + visitorSweepPeriod)
	rl.GetLimiter("10.0.0.3")

	if _, ok := rl.visitors["10.0.0.1"]; ok {
		t.Error("Expected the idle client to be swept")
	}
	if _, ok := rl.visitors["10.0.0.2"]; !ok {
		t.Error("Expected the recent client to be kept")
	}
	if len(rl.visitors) != 2 {
		t.Errorf("visitors = %d, want 2", len(rl.visitors))
	}
}
