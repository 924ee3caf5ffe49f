package upload

import (
	"context"
	"fmt"
)

// Limiter is a counting semaphore bounding the number of in-flight uploads.
// It is safe for concurrent use.
type Limiter struct {
	slots chan struct{}
}

// NewLimiter creates a limiter with n permits. n below 1 is treated as 1.
func NewLimiter(n int) *Limiter {
	if n < 1 {
		n = 1
	}
	return &Limiter{slots: make(chan struct{}, n)}
}

// Acquire blocks until a permit is available or ctx is done.
func (l *Limiter) Acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("acquire permit: %w", ctx.Err())
	}
}

// Release returns a permit. Releasing more permits than were acquired panics.
func (l *Limiter) Release() {
	select {
	case <-l.slots:
	default:
		panic("upload: Release called without a matching Acquire")
	}
}

// Available returns the number of permits not currently held.
func (l *Limiter) Available() int {
	return cap(l.slots) - len(l.slots)
}

// Cap returns the total number of permits.
func (l *Limiter) Cap() int {
	return cap(l.slots)
}
