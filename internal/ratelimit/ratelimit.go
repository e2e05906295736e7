// Package ratelimit throttles repeated sensitive actions (login attempts) on
// the client. It is a soft, process-local throttle; the backend enforces the
// real limits.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// RetentionAfterLockout is how long an expired lockout record is kept before Cleanup evicts it.
const RetentionAfterLockout = 24 * time.Hour

type record struct {
	count        int
	lockoutUntil time.Time
}

type Result struct {
	Allowed           bool
	RemainingAttempts int
	// LockoutUntil is zero unless the key is locked out.
	LockoutUntil time.Time
}

type Limiter struct {
	mu      sync.Mutex
	records map[string]*record
	now     func() time.Time
}

func New() *Limiter {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Limiter {
	return &Limiter{
		records: make(map[string]*record),
		now:     now,
	}
}

// Check must be called before the action; RecordAttempt after it fails.
func (l *Limiter) Check(key string, maxAttempts int, lockout time.Duration) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	rec, ok := l.records[key]
	if !ok {
		l.records[key] = &record{}
		return Result{Allowed: true, RemainingAttempts: maxAttempts}
	}

	if !rec.lockoutUntil.IsZero() {
		if rec.lockoutUntil.After(now) {
			return Result{Allowed: false, RemainingAttempts: 0, LockoutUntil: rec.lockoutUntil}
		}
		// lockout elapsed
		rec.count = 0
		rec.lockoutUntil = time.Time{}
		return Result{Allowed: true, RemainingAttempts: maxAttempts}
	}

	if rec.count >= maxAttempts {
		rec.lockoutUntil = now.Add(lockout)
		log.Warn().
			Str("key", key).
			Int("attempts", rec.count).
			Time("lockout_until", rec.lockoutUntil).
			Msg("[RateLimit] key locked out")
		return Result{Allowed: false, RemainingAttempts: 0, LockoutUntil: rec.lockoutUntil}
	}

	return Result{Allowed: true, RemainingAttempts: maxAttempts - rec.count - 1}
}

func (l *Limiter) RecordAttempt(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[key]
	if !ok {
		rec = &record{}
		l.records[key] = rec
	}
	rec.count++
}

func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.records, key)
}

// Cleanup evicts records whose lockout ended more than RetentionAfterLockout ago.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	evicted := 0
	for key, rec := range l.records {
		if rec.lockoutUntil.IsZero() {
			continue
		}
		if now.Sub(rec.lockoutUntil) > RetentionAfterLockout {
			delete(l.records, key)
			evicted++
		}
	}
	return evicted
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Run calls Cleanup every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := l.Cleanup(); n > 0 {
				log.Debug().Int("evicted", n).Msg("[RateLimit] cleanup")
			}
		}
	}
}
