package retry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

type Config struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
}

// DefaultConfig waits roughly half a minute in total for a database that is
// still starting.
func DefaultConfig() *Config {
	return &Config{
		MaxAttempts: 5,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Multiplier:  2.0,
	}
}

func (c *Config) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.BaseDelay
	b.MaxInterval = c.MaxDelay
	if c.Multiplier > 0 {
		b.Multiplier = c.Multiplier
	}
	return b
}

// Notify is called before each wait with the error that caused it.
type Notify func(attempt int, err error, next time.Duration)

// Do runs fn until it succeeds, returns an error IsTransient rejects, or
// MaxAttempts is reached. Only the last case yields a MaxRetriesExceededError.
func Do[T any](ctx context.Context, cfg *Config, fn func(attempt int) (T, error), notify Notify) (T, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	maxAttempts := max(cfg.MaxAttempts, 1)

	attempt := 0
	operation := func() (T, error) {
		attempt++
		res, err := fn(attempt)
		if err != nil && !IsTransient(err) {
			return res, backoff.Permanent(err)
		}
		return res, err
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(cfg.backOff()),
		backoff.WithMaxTries(uint(maxAttempts)),
		backoff.WithMaxElapsedTime(0),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			notify(attempt, err, next)
		}))
	}

	res, err := backoff.Retry(ctx, operation, opts...)
	if err == nil {
		return res, nil
	}

	// Retry returns the wrapper as-is when the last attempt was permanent.
	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return res, permanent.Unwrap()
	}

	if attempt == maxAttempts && IsTransient(err) {
		return res, &MaxRetriesExceededError{LastError: err, MaxAttempts: maxAttempts}
	}

	return res, err
}

// IsTransient reports whether err looks like a database that is not yet
// accepting connections.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"timeout",
		"the database system is starting up",
		"too many connections",
		"bad connection",
	} {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}

// MaxRetriesExceededError indicates that all retry attempts were exhausted.
type MaxRetriesExceededError struct {
	LastError   error
	MaxAttempts int
}

func (e *MaxRetriesExceededError) Error() string {
	return "max retries exceeded: " + e.LastError.Error()
}

func (e *MaxRetriesExceededError) Unwrap() error {
	return e.LastError
}

// IsMaxRetriesExceeded reports whether err is a MaxRetriesExceededError.
func IsMaxRetriesExceeded(err error) bool {
	var maxRetriesErr *MaxRetriesExceededError
	return errors.As(err, &maxRetriesErr)
}
