package httpserver

import (
	"testing"
	"time"
)

func TestLimiterEvictsIdleClients(t *testing.T) {
	l := newLimiter(5, 10)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	l.lastSweep = now

	for _, ip := range []string{"198.51.100.1", "198.51.100.2", "198.51.100.3"} {
		l.get(ip)
	}
	if n := l.size(); n != 3 {
		t.Fatalf("size = %d, want 3", n)
	}

	// .1 stays active; the others go quiet.
	now = now.Add(limiterIdle / 2)
	busy := l.get("198.51.100.1")

	now = now.Add(limiterIdle/2 + time.Second)
	l.get("198.51.100.9")
	if n := l.size(); n != 2 {
		t.Fatalf("size after sweep = %d, want 2 (active client + new client)", n)
	}
	if l.get("198.51.100.1") != busy {
		t.Error("active client lost its bucket")
	}
}

func TestLimiterReusesBucketPerKey(t *testing.T) {
	l := newLimiter(1, 1)
	a := l.get("192.0.2.1")
	if !a.Allow() {
		t.Fatal("first request should pass")
	}
	if l.get("192.0.2.1").Allow() {
		t.Error("second request from the same client should be limited")
	}
	if !l.get("192.0.2.2").Allow() {
		t.Error("a different client has its own bucket")
	}
}
