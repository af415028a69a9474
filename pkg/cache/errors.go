package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks a failure to reach a remote backend.
var ErrNetwork = errors.New("network error")

// RetryableError marks a transient failure that RetryWithBackoff tries again.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or an error it wraps, was marked Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff schedule of RetryWithBackoff: three attempts, one second apart and
// doubling.
const (
	retryAttempts = 3
	retryDelay    = time.Second
)

// RetryWithBackoff calls fn until it succeeds, fails with an error that is
// not Retryable, or has failed retryAttempts times. Cancelling ctx ends the
// wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
