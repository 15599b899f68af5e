// Package ratelimit implements a per-client fixed-window request limiter.
//
// State is kept in process memory: one window per (client identity, endpoint)
// key. The read-or-reset and increment steps run under a per-key lock, so two
// requests racing on the same key can never both win a window reset and no
// admission is lost or double counted. Requests on different keys never
// contend on the same lock.
package ratelimit

import (
	"sync"
	"time"
)

// Config controls limiter behavior.
type Config struct {
	// MaxRequests is the admission ceiling per window.
	MaxRequests int `mapstructure:"max_requests"`

	// Window is the fixed window duration.
	Window time.Duration `mapstructure:"window"`

	// EvictAfterWindows is the janitor threshold: a key idle for this many
	// windows is evicted. Zero selects the default.
	EvictAfterWindows int `mapstructure:"evict_after_windows"`

	// JanitorInterval is how often stale keys are swept. Zero selects the
	// window duration.
	JanitorInterval time.Duration `mapstructure:"janitor_interval"`
}

// Defaults mirror the legacy deployment: 10 requests per 60 seconds.
const (
	DefaultMaxRequests       = 10
	DefaultWindow            = 60 * time.Second
	DefaultEvictAfterWindows = 3
)

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed bool

	// Remaining is the number of further requests the current window will
	// admit. Zero when the request was rejected.
	Remaining int

	// RetryAfter is how long until the current window resets. Meaningful for
	// rejected requests; callers may surface it as a Retry-After hint.
	RetryAfter time.Duration
}

type windowState struct {
	mu    sync.Mutex
	start time.Time
	count int
}

// Limiter tracks request counts per key over fixed windows.
type Limiter struct {
	mu      sync.RWMutex
	windows map[string]*windowState

	maxRequests int
	window      time.Duration
	evictAfter  time.Duration

	stopJanitor chan struct{}
	janitorOnce sync.Once
}

// New builds a limiter from cfg, filling unset fields with defaults.
func New(cfg Config) *Limiter {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultMaxRequests
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.EvictAfterWindows <= 0 {
		cfg.EvictAfterWindows = DefaultEvictAfterWindows
	}

	return &Limiter{
		windows:     make(map[string]*windowState),
		maxRequests: cfg.MaxRequests,
		window:      cfg.Window,
		evictAfter:  time.Duration(cfg.EvictAfterWindows) * cfg.Window,
		stopJanitor: make(chan struct{}),
	}
}

// Key builds the composite limiter key for a client identity and endpoint.
func Key(clientIdentity, endpoint string) string {
	return clientIdentity + "|" + endpoint
}

// Admit evaluates one request for the given key at time now. The window is
// created lazily on first use and reset in place once it is older than the
// configured duration.
func (l *Limiter) Admit(clientIdentity, endpoint string, now time.Time) Decision {
	state := l.state(Key(clientIdentity, endpoint))

	state.mu.Lock()
	defer state.mu.Unlock()

	if state.start.IsZero() || now.Sub(state.start) > l.window {
		state.start = now
		state.count = 0
	}

	state.count++
	retryAfter := l.window - now.Sub(state.start)
	if retryAfter < 0 {
		retryAfter = 0
	}

	if state.count > l.maxRequests {
		return Decision{Allowed: false, Remaining: 0, RetryAfter: retryAfter}
	}
	return Decision{
		Allowed:    true,
		Remaining:  l.maxRequests - state.count,
		RetryAfter: retryAfter,
	}
}

// state returns the window for key, creating it if absent. The double-checked
// read keeps the common path on the read lock.
func (l *Limiter) state(key string) *windowState {
	l.mu.RLock()
	state, ok := l.windows[key]
	l.mu.RUnlock()
	if ok {
		return state
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if state, ok = l.windows[key]; ok {
		return state
	}
	state = &windowState{}
	l.windows[key] = state
	return state
}

// Len reports the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.windows)
}

// Sweep evicts keys whose window has been idle past the eviction threshold.
// It returns the number of evicted keys.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, state := range l.windows {
		state.mu.Lock()
		stale := !state.start.IsZero() && now.Sub(state.start) > l.evictAfter
		state.mu.Unlock()
		if stale {
			delete(l.windows, key)
			evicted++
		}
	}
	return evicted
}

// StartJanitor sweeps stale keys in the background until Stop is called.
// Without it the window map grows without bound under many distinct clients.
func (l *Limiter) StartJanitor(interval time.Duration, onSweep func(evicted int)) {
	if interval <= 0 {
		interval = l.window
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				evicted := l.Sweep(time.Now())
				if onSweep != nil && evicted > 0 {
					onSweep(evicted)
				}
			case <-l.stopJanitor:
				return
			}
		}
	}()
}

// Stop terminates the janitor goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.janitorOnce.Do(func() { close(l.stopJanitor) })
}
