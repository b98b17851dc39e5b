package limiters

import (
	"context"
	"sync"
	"time"
)

const sweepEvery = 256

type window struct {
	start time.Time
	count int
}

// LocalAttemptLimiter keeps one fixed failure window per key in memory. The
// window opens on the first failure and lasts Cooldown, matching the Redis
// INCR plus EXPIRE counter.
type LocalAttemptLimiter struct {
	mu          sync.Mutex
	windows     map[string]*window
	maxAttempts int
	cooldown    time.Duration
	now         func() time.Time
	writes      int
}

// NewLocalAttemptLimiter builds a limiter; now may be nil to use time.Now.
func NewLocalAttemptLimiter(cfg Config, now func() time.Time) *LocalAttemptLimiter {
	cfg = cfg.normalized()
	if now == nil {
		now = time.Now
	}
	return &LocalAttemptLimiter{
		windows:     make(map[string]*window),
		maxAttempts: cfg.MaxAttempts,
		cooldown:    cfg.Cooldown,
		now:         now,
	}
}

func (l *LocalAttemptLimiter) expired(w *window, now time.Time) bool {
	return now.Sub(w.start) >= l.cooldown
}

func (l *LocalAttemptLimiter) Check(_ context.Context, key string) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok {
		return nil
	}
	if l.expired(w, l.now()) {
		delete(l.windows, key)
		return nil
	}
	if w.count >= l.maxAttempts {
		return ErrRateLimited
	}
	return nil
}

func (l *LocalAttemptLimiter) RecordFailure(_ context.Context, key string) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.writes++
	if l.writes%sweepEvery == 0 {
		l.sweep(now)
	}

	w, ok := l.windows[key]
	if !ok || l.expired(w, now) {
		w = &window{start: now}
		l.windows[key] = w
	}
	w.count++
	if w.count >= l.maxAttempts {
		return ErrRateLimited
	}
	return nil
}

func (l *LocalAttemptLimiter) Reset(_ context.Context, key string) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
	return nil
}

// sweep drops windows whose cooldown has elapsed.
func (l *LocalAttemptLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if l.expired(w, now) {
			delete(l.windows, k)
		}
	}
}

func (l *LocalAttemptLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
