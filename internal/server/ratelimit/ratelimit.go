// Package ratelimit provides token bucket rate limiting for the analysis
// endpoints. Analysis runs are expensive, so the default budget is small.
package ratelimit

import (
	"sync"
	"time"
)

// tokenBucket allows a burst of requests with tokens refilling at a steady rate.
type tokenBucket struct {
	capacity   int
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(capacity int, refillRate float64) *tokenBucket {
	return &tokenBucket{
		capacity:   capacity,
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// allow consumes a token if one is available.
func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

func (tb *tokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)
	tb.tokens = min(float64(tb.capacity), tb.tokens+elapsed.Seconds()*tb.refillRate)
	tb.lastRefill = now
}

// status returns remaining tokens and the time the bucket is full again.
func (tb *tokenBucket) status() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	remaining = int(tb.tokens)
	missing := float64(tb.capacity) - tb.tokens
	if missing <= 0 {
		return remaining, time.Now()
	}
	return remaining, time.Now().Add(time.Duration(missing / tb.refillRate * float64(time.Second)))
}

// Info describes the rate limit state returned alongside each decision.
type Info struct {
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter applies per-client token buckets to the analysis routes.
type Limiter struct {
	cfg     Config
	mu      sync.Mutex
	buckets map[string]*tokenBucket
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(cfg Config) *Limiter {
	l := &Limiter{
		cfg:     cfg,
		buckets: make(map[string]*tokenBucket),
		stop:    make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow reports whether a request from clientID to path may proceed.
// Paths without a configured rule are never limited.
func (l *Limiter) Allow(clientID, path string) (bool, Info) {
	rule, ok := l.cfg.ruleFor(path)
	if !ok || !l.cfg.Enabled {
		return true, Info{}
	}

	key := clientID + "|" + path

	l.mu.Lock()
	bucket, exists := l.buckets[key]
	if !exists {
		bucket = newTokenBucket(rule.Burst, rule.PerMinute/60.0)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	allowed := bucket.allow()
	remaining, resetTime := bucket.status()
	info := Info{
		Limit:     rule.Burst,
		Remaining: remaining,
		ResetTime: resetTime,
	}
	if !allowed {
		info.RetryAfter = time.Until(resetTime)
	}
	return allowed, info
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	close(l.stop)
}

// cleanupLoop periodically drops buckets that have refilled completely,
// bounding memory for one-off clients.
func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			for key, bucket := range l.buckets {
				remaining, _ := bucket.status()
				if remaining >= bucket.capacity {
					delete(l.buckets, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
