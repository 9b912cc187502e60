package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionLimiter_AcquireRelease(t *testing.T) {
	limiter := NewSessionLimiter(time.Second)

	if limiter.Busy() {
		t.Error("new limiter should not be busy")
	}

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if !limiter.Busy() {
		t.Error("limiter should be busy after Acquire")
	}

	limiter.Release()
	if limiter.Busy() {
		t.Error("limiter should be idle after Release")
	}
	if got := limiter.Status().Served; got != 1 {
		t.Errorf("Served = %d, want 1", got)
	}
}

func TestSessionLimiter_Timeout(t *testing.T) {
	limiter := NewSessionLimiter(50 * time.Millisecond)

	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire on idle limiter failed")
	}
	defer limiter.Release()

	start := time.Now()
	err := limiter.Acquire(context.Background())
	if !errors.Is(err, ErrSessionBusy) {
		t.Fatalf("Acquire error = %v, want ErrSessionBusy", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Acquire returned after %v, expected to wait", elapsed)
	}
}

func TestSessionLimiter_ContextCancelled(t *testing.T) {
	limiter := NewSessionLimiter(time.Second)
	limiter.TryAcquire()
	defer limiter.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := limiter.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Acquire error = %v, want context.Canceled", err)
	}
}

func TestSessionLimiter_TryAcquireWhenBusy(t *testing.T) {
	limiter := NewSessionLimiter(time.Second)

	if !limiter.TryAcquire() {
		t.Fatal("first TryAcquire failed")
	}
	if limiter.TryAcquire() {
		t.Error("second TryAcquire should fail while busy")
	}
	limiter.Release()
	if !limiter.TryAcquire() {
		t.Error("TryAcquire after Release failed")
	}
	limiter.Release()
}

func TestSessionLimiter_Serializes(t *testing.T) {
	limiter := NewSessionLimiter(5 * time.Second)

	var (
		inside  int32
		maxSeen int32
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := limiter.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxSeen)
				if n <= m || atomic.CompareAndSwapInt32(&maxSeen, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			limiter.Release()
		}()
	}
	wg.Wait()

	if maxSeen != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxSeen)
	}
	if got := limiter.Status().Served; got != 8 {
		t.Errorf("Served = %d, want 8", got)
	}
}

func TestSessionLimiter_WaitForDrain(t *testing.T) {
	limiter := NewSessionLimiter(time.Second)
	limiter.TryAcquire()

	go func() {
		time.Sleep(30 * time.Millisecond)
		limiter.Release()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := limiter.WaitForDrain(ctx); err != nil {
		t.Errorf("WaitForDrain: %v", err)
	}
}

func TestSessionLimiter_WaitForDrainTimeout(t *testing.T) {
	limiter := NewSessionLimiter(time.Second)
	limiter.TryAcquire()
	defer limiter.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := limiter.WaitForDrain(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("WaitForDrain error = %v, want deadline exceeded", err)
	}
}
