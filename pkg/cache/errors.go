package cache

import (
	"context"
	"errors"
	"time"
)

// ErrBackend is returned for backend failures (Redis connection errors,
// timeouts). Callers generally treat backend failures as misses and
// recompute; the pipeline never fails a request on a broken cache.
var ErrBackend = errors.New("cache backend error")

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// WithRetry decorates a cache so operations failing with a retryable error
// are attempted again with backoff. Backends opt their transient failures in
// by wrapping them with [Retryable]; anything else passes through on the
// first attempt.
func WithRetry(inner Cache) Cache {
	return &retryCache{inner: inner}
}

type retryCache struct {
	inner Cache
}

func (c *retryCache) Get(ctx context.Context, key string) (data []byte, ok bool, err error) {
	err = RetryWithBackoff(ctx, func() error {
		var opErr error
		data, ok, opErr = c.inner.Get(ctx, key)
		return opErr
	})
	return data, ok, err
}

func (c *retryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return c.inner.Set(ctx, key, data, ttl)
	})
}

func (c *retryCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return c.inner.Delete(ctx, key)
	})
}

func (c *retryCache) Close() error { return c.inner.Close() }

// RetryWithBackoff retries fn up to 3 times with exponential backoff.
// Only errors wrapped with Retryable will trigger retries.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
