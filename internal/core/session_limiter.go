package core

// session_limiter.go serializes access to the rendering session.
//
// Every ingest+render cycle runs while holding the single slot. A request that
// cannot get the slot within maxWait fails with ErrSessionBusy. WaitForDrain
// lets shutdown wait for the running cycle to finish.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionBusy is returned when the rendering session stays occupied for
// longer than the wait timeout. Clients should retry after a short delay.
var ErrSessionBusy = errors.New("rendering session busy, too many uploads in progress")

// DefaultMaxWaitTime is how long to wait for the session before rejecting.
const DefaultMaxWaitTime = 60 * time.Second

// SessionLimiter is a one-slot semaphore guarding the rendering session.
type SessionLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
	served int64
}

// NewSessionLimiter creates a limiter whose waiters give up after maxWait.
func NewSessionLimiter(maxWait time.Duration) *SessionLimiter {
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}
	return &SessionLimiter{
		semaphore: make(chan struct{}, 1),
		maxWait:   maxWait,
	}
}

// Acquire takes the session slot.
// Returns ErrSessionBusy if the wait timeout expires, or the context error.
// The caller MUST call Release() when the cycle completes (use defer).
func (l *SessionLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.served++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrSessionBusy
	}
}

// TryAcquire takes the slot without blocking.
func (l *SessionLimiter) TryAcquire() bool {
	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.served++
		l.mu.Unlock()
		return true
	default:
		return false
	}
}

// Release gives the slot back.
// Must be called exactly once for each successful Acquire/TryAcquire.
func (l *SessionLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// Busy reports whether a cycle is running.
func (l *SessionLimiter) Busy() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active > 0
}

// WaitForDrain blocks until the running cycle completes or ctx is cancelled.
func (l *SessionLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if !l.Busy() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// SessionStatus is a snapshot of the limiter state.
type SessionStatus struct {
	Busy    bool          `json:"busy"`
	Served  int64         `json:"served"`
	MaxWait time.Duration `json:"max_wait_ns"`
}

// Status returns the current limiter state for monitoring.
func (l *SessionLimiter) Status() SessionStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return SessionStatus{
		Busy:    l.active > 0,
		Served:  l.served,
		MaxWait: l.maxWait,
	}
}
