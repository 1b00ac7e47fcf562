// Package ratelimit provides a per-user token bucket limiter that keeps a
// single chat user from monopolizing the menu scraper.
package ratelimit

import (
	"sync"
	"time"
)

// Config configures a UserLimiter.
type Config struct {
	// Burst is the bucket capacity. Zero or less disables limiting.
	Burst float64
	// RefillRate is the number of tokens restored per second.
	RefillRate float64
	// IdleTTL drops buckets untouched for this long. Zero keeps the default.
	IdleTTL time.Duration
}

// DefaultIdleTTL is how long an untouched bucket is kept.
const DefaultIdleTTL = 10 * time.Minute

// bucket is a token bucket. Callers hold UserLimiter.mu.
type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// UserLimiter tracks one token bucket per user ID. It is safe for concurrent use.
type UserLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	cfg     Config
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// New creates a limiter and starts its idle bucket sweeper. Call Stop to
// release the sweeper.
func New(cfg Config) *UserLimiter {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	l := &UserLimiter{
		buckets: make(map[string]*bucket),
		cfg:     cfg,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if l.Enabled() {
		go l.cleanupLoop()
	}
	return l
}

// Enabled reports whether the limiter restricts anything.
func (l *UserLimiter) Enabled() bool {
	return l != nil && l.cfg.Burst > 0
}

// Allow consumes one token for userID. Empty IDs are never limited.
func (l *UserLimiter) Allow(userID string) bool {
	if !l.Enabled() || userID == "" {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[userID]
	if !ok {
		b = &bucket{tokens: l.cfg.Burst, lastSeen: now}
		l.buckets[userID] = b
	}

	b.tokens = min(l.cfg.Burst, b.tokens+now.Sub(b.lastSeen).Seconds()*l.cfg.RefillRate)
	b.lastSeen = now
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// ActiveUsers returns the number of tracked buckets.
func (l *UserLimiter) ActiveUsers() int {
	if l == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Sweep drops buckets idle for longer than the configured TTL.
func (l *UserLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.IdleTTL)
	for id, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, id)
		}
	}
}

// Stop halts the sweeper. It is safe to call more than once.
func (l *UserLimiter) Stop() {
	if l == nil {
		return
	}
	l.once.Do(func() { close(l.stopCh) })
}

func (l *UserLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cfg.IdleTTL / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-l.stopCh:
			return
		}
	}
}
