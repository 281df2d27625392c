package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable means a remote backend could not be reached at all.
var ErrUnavailable = errors.New("cache backend unavailable")

// retryAttempts bounds RetryWithBackoff, first call included.
const retryAttempts = 3

// retryDelay is the pause after the first failed attempt. Tests shorten it.
var retryDelay = 200 * time.Millisecond

type transient struct{ err error }

func (t *transient) Error() string { return t.err.Error() }
func (t *transient) Unwrap() error { return t.err }

// Retryable marks err as transient, so RetryWithBackoff calls again instead
// of giving up. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &transient{err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var t *transient
	return errors.As(err, &t)
}

// RetryWithBackoff calls fn until it succeeds, returns an error not marked
// Retryable, or has been tried retryAttempts times. The pause between calls
// starts at retryDelay and doubles; ctx cancels the wait.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	wait := retryDelay
	err := fn()
	for try := 1; try < retryAttempts && IsRetryable(err); try++ {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
		err = fn()
	}
	return err
}
