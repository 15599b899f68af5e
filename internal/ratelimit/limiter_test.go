package ratelimit

import (
	"fmt"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAdmitWithinWindow(t *testing.T) {
	limiter := New(Config{MaxRequests: 3, Window: time.Minute})
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		decision := limiter.Admit("1.2.3.4", "/api/feedback", now)
		require.True(t, decision.Allowed, "request %d should be admitted", i)
		require.Equal(t, 3-i, decision.Remaining)
	}

	decision := limiter.Admit("1.2.3.4", "/api/feedback", now)
	require.False(t, decision.Allowed)
	require.Zero(t, decision.Remaining)
	require.Equal(t, time.Minute, decision.RetryAfter)
}

func TestWindowExpiryResetsCount(t *testing.T) {
	limiter := New(Config{MaxRequests: 2, Window: time.Minute})
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.True(t, limiter.Admit("k", "/api/feedback", start).Allowed)
	require.True(t, limiter.Admit("k", "/api/feedback", start).Allowed)
	require.False(t, limiter.Admit("k", "/api/feedback", start.Add(30*time.Second)).Allowed)

	// Just past the window: treated as request 1 of a fresh window, the old
	// count is discarded.
	later := start.Add(time.Minute + time.Second)
	decision := limiter.Admit("k", "/api/feedback", later)
	require.True(t, decision.Allowed)
	require.Equal(t, 1, decision.Remaining)
}

func TestKeysAreIndependent(t *testing.T) {
	limiter := New(Config{MaxRequests: 1, Window: time.Minute})
	now := time.Now()

	require.True(t, limiter.Admit("a", "/api/feedback", now).Allowed)
	require.False(t, limiter.Admit("a", "/api/feedback", now).Allowed)

	// Same identity on a different endpoint is a different key.
	require.True(t, limiter.Admit("a", "/api/other", now).Allowed)
	require.True(t, limiter.Admit("b", "/api/feedback", now).Allowed)
}

func TestConcurrentAdmissionIsExact(t *testing.T) {
	const (
		maxRequests = 10
		extra       = 25
	)
	limiter := New(Config{MaxRequests: maxRequests, Window: time.Minute})
	now := time.Now()

	var admitted, rejected atomic.Int64
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < maxRequests+extra; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if limiter.Admit("burst", "/api/feedback", now).Allowed {
				admitted.Add(1)
			} else {
				rejected.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	require.EqualValues(t, maxRequests, admitted.Load())
	require.EqualValues(t, extra, rejected.Load())
}

func TestConcurrentDistinctKeys(t *testing.T) {
	limiter := New(Config{MaxRequests: 1, Window: time.Minute})
	now := time.Now()

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if limiter.Admit(fmt.Sprintf("client-%d", n), "/api/feedback", now).Allowed {
				admitted.Add(1)
			}
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 64, admitted.Load())
	require.Equal(t, 64, limiter.Len())
}

func TestSweepEvictsStaleKeys(t *testing.T) {
	limiter := New(Config{MaxRequests: 5, Window: time.Minute, EvictAfterWindows: 3})
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	limiter.Admit("old", "/api/feedback", start)
	limiter.Admit("fresh", "/api/feedback", start.Add(3*time.Minute))

	evicted := limiter.Sweep(start.Add(3*time.Minute + time.Second))
	require.Equal(t, 1, evicted)
	require.Equal(t, 1, limiter.Len())

	// The evicted key starts over on its next request.
	decision := limiter.Admit("old", "/api/feedback", start.Add(4*time.Minute))
	require.True(t, decision.Allowed)
	require.Equal(t, 4, decision.Remaining)
}

func TestDefaultsApplied(t *testing.T) {
	limiter := New(Config{})
	require.Equal(t, DefaultMaxRequests, limiter.maxRequests)
	require.Equal(t, DefaultWindow, limiter.window)
	require.Equal(t, time.Duration(DefaultEvictAfterWindows)*DefaultWindow, limiter.evictAfter)
}

func TestClientIdentity(t *testing.T) {
	t.Run("ForwardedForFirstEntry", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/feedback", nil)
		r.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1, 10.0.0.2")
		require.Equal(t, "203.0.113.7", ClientIdentity(r))
	})

	t.Run("EmptyForwardedForFallsBack", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/feedback", nil)
		r.Header.Set("X-Forwarded-For", "  ,10.0.0.1")
		r.RemoteAddr = "192.0.2.5:4711"
		require.Equal(t, "192.0.2.5", ClientIdentity(r))
	})

	t.Run("PeerAddressWithoutPort", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/api/feedback", nil)
		r.RemoteAddr = "malformed"
		require.Equal(t, "malformed", ClientIdentity(r))
	})
}
