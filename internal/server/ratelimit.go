package server

import (
	"sync"
	"time"
)

// slidingWindow is a per-connection request limiter. It keeps the
// timestamps of requests inside the window and refuses once the cap is hit.
type slidingWindow struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	return &slidingWindow{
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records an attempt and reports whether it is within the limit,
// along with the remaining budget and the window reset time.
func (w *slidingWindow) Allow() (allowed bool, remaining int, reset time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	cutoff := now.Add(-w.window)

	keep := w.stamps[:0]
	for _, ts := range w.stamps {
		if ts.After(cutoff) {
			keep = append(keep, ts)
		}
	}
	w.stamps = keep

	if len(w.stamps) > 0 {
		reset = w.stamps[0].Add(w.window)
	} else {
		reset = now.Add(w.window)
	}

	if len(w.stamps) >= w.limit {
		return false, 0, reset
	}

	w.stamps = append(w.stamps, now)
	return true, w.limit - len(w.stamps), reset
}

// limiterPool hands out one sliding window per client key (HTTP path).
type limiterPool struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	limiters map[string]*slidingWindow
}

func newLimiterPool(limit int, window time.Duration) *limiterPool {
	return &limiterPool{
		limit:    limit,
		window:   window,
		limiters: make(map[string]*slidingWindow),
	}
}

func (p *limiterPool) get(key string) *slidingWindow {
	p.mu.Lock()
	defer p.mu.Unlock()

	lim, ok := p.limiters[key]
	if !ok {
		lim = newSlidingWindow(p.limit, p.window)
		p.limiters[key] = lim
	}
	return lim
}
