package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:    maxRetries,
		BackoffFactor: 2.0,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
	}
}

func TestRetry_SuccessOnFirstTry(t *testing.T) {
	calls := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_SuccessAfterRetries(t *testing.T) {
	calls := 0
	err := NewRetrier(fastConfig(3)).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetry_MaxRetriesExceeded(t *testing.T) {
	want := errors.New("still failing")
	calls := 0
	err := NewRetrier(fastConfig(2)).Do(context.Background(), func() error {
		calls++
		return want
	})

	assert.ErrorIs(t, err, want)
	assert.Equal(t, 3, calls, "initial try plus two retries")
}

func TestRetry_PermanentStopsImmediately(t *testing.T) {
	want := errors.New("http 401")
	calls := 0
	err := NewRetrier(fastConfig(5)).Do(context.Background(), func() error {
		calls++
		return Permanent(want)
	})

	assert.Same(t, want, err)
	assert.Equal(t, 1, calls)
}

func TestRetry_PermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(5)
	cfg.InitialDelay = time.Hour
	cfg.MaxDelay = time.Hour

	err := NewRetrier(cfg).Do(ctx, func() error {
		cancel()
		return errors.New("failed after cancel")
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetry_BackoffIsCapped(t *testing.T) {
	cfg := &Config{
		MaxRetries:    3,
		BackoffFactor: 10,
		InitialDelay:  10 * time.Millisecond,
		MaxDelay:      20 * time.Millisecond,
	}

	start := time.Now()
	_ = NewRetrier(cfg).Do(context.Background(), func() error { return errors.New("error") })
	elapsed := time.Since(start)

	// 10ms, then 20ms twice; uncapped would be 10ms + 100ms + 1s.
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond)
	assert.Less(t, elapsed, 500*time.Millisecond)
}
