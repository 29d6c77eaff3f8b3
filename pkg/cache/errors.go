package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a remote cache failure: timeout, refused connection
	// or dropped socket.
	ErrNetwork = errors.New("network error")

	// ErrLocked is returned when another process holds the file cache lock.
	ErrLocked = errors.New("cache locked")
)

// RetryableError marks a failure worth another attempt.
type RetryableError struct{ Err error }

// Retryable marks err for retry. It returns nil for a nil err.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries a call a fixed number of times, doubling the delay
// between attempts.
type Backoff struct {
	Attempts  int
	BaseDelay time.Duration
}

// defaultBackoff is used by [RetryWithBackoff]. Tests shorten its delay.
var defaultBackoff = Backoff{Attempts: 3, BaseDelay: time.Second}

// Retry calls fn until it succeeds, returns an error not marked
// [Retryable], runs out of attempts or ctx is done.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	attempts := max(1, b.Attempts)
	delay := b.BaseDelay

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			delay *= 2
		}
	}
	return err
}

// RetryWithBackoff runs fn with the default backoff: three attempts, one
// second before the second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return defaultBackoff.Retry(ctx, fn)
}
