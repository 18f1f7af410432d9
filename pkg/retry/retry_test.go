package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int) *Config {
	return &Config{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, Multiplier: 2}
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	var waits []int

	got, err := Do(context.Background(), fastConfig(4), func(attempt int) (int, error) {
		if attempt < 3 {
			return 0, errors.New("dial tcp 127.0.0.1:3306: connect: connection refused")
		}
		return attempt, nil
	}, func(attempt int, _ error, _ time.Duration) {
		waits = append(waits, attempt)
	})

	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, []int{1, 2}, waits)
}

func TestDo_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("Error 1045: Access denied for user 'root'")

	calls := 0
	_, err := Do(context.Background(), fastConfig(5), func(int) (struct{}, error) {
		calls++
		return struct{}{}, permanent
	}, nil)

	assert.Same(t, permanent, err)
	assert.False(t, IsMaxRetriesExceeded(err))
	assert.Equal(t, 1, calls)
}

func TestDo_PermanentErrorOnSingleAttemptIsUnwrapped(t *testing.T) {
	permanent := errors.New("unsupported driver")

	_, err := Do(context.Background(), fastConfig(1), func(int) (struct{}, error) {
		return struct{}{}, permanent
	}, nil)

	assert.Same(t, permanent, err)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	refused := errors.New("connection refused")

	calls := 0
	_, err := Do(context.Background(), fastConfig(3), func(int) (struct{}, error) {
		calls++
		return struct{}{}, refused
	}, nil)

	assert.True(t, IsMaxRetriesExceeded(err))
	assert.ErrorIs(t, err, refused)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsWhenContextIsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	_, err := Do(ctx, fastConfig(10), func(int) (struct{}, error) {
		calls++
		cancel()
		return struct{}{}, errors.New("connection refused")
	}, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(context.DeadlineExceeded))
	assert.True(t, IsTransient(errors.New("pq: the database system is starting up")))
	assert.False(t, IsTransient(errors.New("syntax error")))
}
