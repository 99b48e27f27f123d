package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func TestCheck_FixedWindow(t *testing.T) {
	l := New()
	now := time.Unix(1000, 0)

	for i := 0; i < 3; i++ {
		res := l.Check(now, "k", 3, time.Second)
		if !res.Allowed {
			t.Fatalf("call %d: expected allowed", i+1)
		}
		if res.Remaining != 3-(i+1) {
			t.Fatalf("call %d: remaining = %d", i+1, res.Remaining)
		}
	}

	res := l.Check(now.Add(500*time.Millisecond), "k", 3, time.Second)
	if res.Allowed {
		t.Fatalf("fourth call within window must be refused")
	}
	if !res.ResetAt.Equal(now.Add(time.Second)) {
		t.Fatalf("ResetAt = %v, want %v", res.ResetAt, now.Add(time.Second))
	}

	// Window elapsed: lazy reset opens a fresh window.
	res = l.Check(now.Add(1100*time.Millisecond), "k", 3, time.Second)
	if !res.Allowed {
		t.Fatalf("call after window must be allowed")
	}
	if res.Remaining != 2 {
		t.Fatalf("fresh window remaining = %d, want 2", res.Remaining)
	}
}

func TestCheck_KeysAreIndependent(t *testing.T) {
	l := New()
	now := time.Unix(2000, 0)

	if res := l.Check(now, "a", 1, time.Minute); !res.Allowed {
		t.Fatalf("first call for key a refused")
	}
	if res := l.Check(now, "a", 1, time.Minute); res.Allowed {
		t.Fatalf("second call for key a admitted")
	}
	if res := l.Check(now, "b", 1, time.Minute); !res.Allowed {
		t.Fatalf("key b must not share key a's window")
	}
}

func TestCheck_ConcurrentIncrements(t *testing.T) {
	l := New()
	now := time.Unix(3000, 0)

	const calls = 100
	const limit = 40

	var wg sync.WaitGroup
	allowed := make(chan bool, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- l.Check(now, "k", limit, time.Minute).Allowed
		}()
	}
	wg.Wait()
	close(allowed)

	n := 0
	for ok := range allowed {
		if ok {
			n++
		}
	}
	if n != limit {
		t.Fatalf("admitted %d calls, want exactly %d", n, limit)
	}
}
