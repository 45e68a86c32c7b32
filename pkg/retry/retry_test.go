package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "instalytics/pkg/errors"
	"instalytics/pkg/logger"
)

func testConfig(maxAttempts int) *Config {
	return &Config{
		MaxAttempts: maxAttempts,
		Backoff:     &ConstantBackoff{Delay: time.Millisecond},
		RetryIf:     DefaultRetryIf,
		Context:     context.Background(),
		Logger:      logger.NewTestLogger(),
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return nil
	}, testConfig(3))

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		if calls < 3 {
			return &errs.Error{Type: errs.ErrorTypeNetwork, Message: "connection reset"}
		}
		return nil
	}, testConfig(5))

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	resErr := errs.NewResolutionError("bad-ref")
	err := Do(func() error {
		calls++
		return resErr
	}, testConfig(5))

	assert.Equal(t, resErr, err)
	assert.Equal(t, 1, calls, "non-retryable errors must not be retried")
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Do(func() error {
		calls++
		return &errs.Error{Type: errs.ErrorTypeServerError, Message: "boom", Code: 500}
	}, testConfig(3))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retry attempts")
	assert.Equal(t, 3, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := testConfig(0)
	cfg.Context = ctx
	cfg.Backoff = &ConstantBackoff{Delay: 50 * time.Millisecond}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := Do(func() error {
		return &errs.Error{Type: errs.ErrorTypeNetwork, Message: "down"}
	}, cfg)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	result, err := DoWithResult(func() (string, error) {
		calls++
		if calls < 2 {
			return "", &errs.Error{Type: errs.ErrorTypeRateLimit, Message: "slow down", Code: 429}
		}
		return "ok", nil
	}, testConfig(3))

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 2, calls)
}

func TestDefaultRetryIf(t *testing.T) {
	assert.False(t, DefaultRetryIf(nil))
	assert.False(t, DefaultRetryIf(context.Canceled))
	assert.False(t, DefaultRetryIf(errs.NewNoDataError("x")))
	assert.True(t, DefaultRetryIf(&errs.Error{Type: errs.ErrorTypeNetwork}))
	assert.True(t, DefaultRetryIf(errors.New("mystery")), "unknown errors default to retryable")
}

func TestExponentialBackoffGrowth(t *testing.T) {
	eb := &ExponentialBackoff{
		BaseDelay:  10 * time.Millisecond,
		MaxDelay:   80 * time.Millisecond,
		Multiplier: 2.0,
	}

	assert.Equal(t, 10*time.Millisecond, eb.NextDelay(1))
	assert.Equal(t, 20*time.Millisecond, eb.NextDelay(2))
	assert.Equal(t, 40*time.Millisecond, eb.NextDelay(3))
	assert.Equal(t, 80*time.Millisecond, eb.NextDelay(4))
	assert.Equal(t, 80*time.Millisecond, eb.NextDelay(10), "delay caps at MaxDelay")
	assert.Equal(t, time.Duration(0), eb.NextDelay(0))
}
