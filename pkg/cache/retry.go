package cache

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for caching operations.
var (
	// ErrNotFound is returned when a requested item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrBackend is returned when a remote cache backend is unreachable.
	ErrBackend = errors.New("cache backend unavailable")
)

type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth another attempt. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err or anything it wraps was marked by [Transient].
func IsTransient(err error) bool {
	return errors.As(err, new(transientError))
}

// Backoff retries an operation while it fails with a transient error,
// doubling the delay after every attempt.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is the policy of the remote backends.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 200 * time.Millisecond}

// Do runs fn until it succeeds, fails permanently or runs out of attempts,
// and returns the last error. Cancelling ctx ends the wait between attempts.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := range max(b.Attempts, 1) {
		if attempt > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			delay *= 2
		}
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
	}
	return err
}
