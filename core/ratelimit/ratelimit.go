package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

// Limiter is a token bucket governing admission of outbound provider calls.
//
// Refill is computed lazily from elapsed wall-clock time on each call, so no
// background goroutine is needed. All accounting happens under a single mutex:
// a caller that finds the bucket empty reserves its token (driving the balance
// negative) before sleeping, so concurrent callers cannot double-spend the
// same regenerating token.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per millisecond
	lastRefill time.Time

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Limiter admitting at most capacity calls per window.
// The bucket starts full.
func New(capacity int, window time.Duration) *Limiter {
	c := float64(capacity)
	l := &Limiter{
		tokens:     c,
		capacity:   c,
		refillRate: c / float64(window.Milliseconds()),
		now:        time.Now,
	}
	l.lastRefill = l.now()
	return l
}

// refill credits tokens for the time elapsed since the last refill,
// capped at capacity. Callers must hold the mutex.
func (l *Limiter) refill() {
	now := l.now()
	elapsed := float64(now.Sub(l.lastRefill).Milliseconds())
	l.tokens = math.Min(l.capacity, l.tokens+elapsed*l.refillRate)
	l.lastRefill = now
}

// Acquire blocks until one admission unit is available, then consumes it.
// It returns early with the context error if ctx is cancelled while waiting.
func (l *Limiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	l.refill()

	if l.tokens >= 1 {
		l.tokens--
		l.mu.Unlock()
		return nil
	}

	// Reserve the token before sleeping so the next caller sees the debt
	// and computes its own wait on top of ours.
	waitMs := math.Ceil((1 - l.tokens) / l.refillRate)
	l.tokens--
	l.mu.Unlock()

	timer := time.NewTimer(time.Duration(waitMs) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		// Give the reservation back.
		l.mu.Lock()
		l.tokens++
		l.mu.Unlock()
		return ctx.Err()
	}
}
