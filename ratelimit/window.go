package ratelimit

import (
	"sync"
	"time"
)

type windowCounter struct {
	count       int
	windowStart time.Time
}

// FixedWindow counts requests per key inside a fixed time window. The
// counter resets when the window elapses; the request that exceeds the
// limit inside a window is denied. State is process-local and advisory:
// horizontally scaled deployments each enforce their own window.
type FixedWindow struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string]*windowCounter

	// now is swappable for tests.
	now func() time.Time
}

// NewFixedWindow creates a limiter allowing limit requests per window.
func NewFixedWindow(limit int, window time.Duration) *FixedWindow {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{
		limit:    limit,
		window:   window,
		counters: make(map[string]*windowCounter),
		now:      time.Now,
	}
}

// Allow reports whether another request for key fits in the current window
// and counts it when it does.
func (w *FixedWindow) Allow(key string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.sweepLocked(now)

	ctr, ok := w.counters[key]
	if !ok || now.Sub(ctr.windowStart) >= w.window {
		w.counters[key] = &windowCounter{count: 1, windowStart: now}
		return true
	}
	if ctr.count >= w.limit {
		return false
	}
	ctr.count++
	return true
}

func (w *FixedWindow) sweepLocked(now time.Time) {
	for key, ctr := range w.counters {
		if now.Sub(ctr.windowStart) >= w.window {
			delete(w.counters, key)
		}
	}
}
