package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/exhibitpal/internal/config"
	"git.home.luguber.info/inful/exhibitpal/internal/foundation/errors"
)

// TestDefaultPolicy verifies the baseline default values.
func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, config.RetryBackoffExponential, p.Mode)
	require.Equal(t, 500*time.Millisecond, p.Initial)
	require.Equal(t, 10*time.Second, p.Max)
	require.Equal(t, 3, p.MaxAttempts)
}

// TestNewPolicyOverrides checks override precedence and clamping when initial > max.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, config.RetryBackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxAttempts)

	unknown := NewPolicy("jitter", 0, 0, 0)
	require.Equal(t, DefaultPolicy(), unknown)
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.RetryConfig{Backoff: config.RetryBackoffLinear, InitialDelay: time.Second, MaxDelay: 3 * time.Second, MaxAttempts: 4})
	require.Equal(t, config.RetryBackoffLinear, p.Mode)
	require.Equal(t, 4, p.MaxAttempts)
}

// TestDelayModes ensures fixed, linear, exponential behave and respect cap.
func TestDelayModes(t *testing.T) {
	fixed := NewPolicy(config.RetryBackoffFixed, 100*time.Millisecond, 500*time.Millisecond, 3)
	for i := 1; i <= 3; i++ {
		require.Equal(t, 100*time.Millisecond, fixed.Delay(i))
	}

	linear := NewPolicy(config.RetryBackoffLinear, 100*time.Millisecond, 250*time.Millisecond, 5)
	cases := []struct {
		attempt int
		want    time.Duration
	}{{1, 100 * time.Millisecond}, {2, 200 * time.Millisecond}, {3, 250 * time.Millisecond}, {4, 250 * time.Millisecond}}
	for _, c := range cases {
		require.Equal(t, c.want, linear.Delay(c.attempt), "linear attempt %d", c.attempt)
	}

	exp := NewPolicy(config.RetryBackoffExponential, 50*time.Millisecond, 160*time.Millisecond, 5)
	expCases := []struct {
		attempt int
		want    time.Duration
	}{{1, 50 * time.Millisecond}, {2, 100 * time.Millisecond}, {3, 160 * time.Millisecond}, {4, 160 * time.Millisecond}, {64, 160 * time.Millisecond}}
	for _, c := range expCases {
		require.Equal(t, c.want, exp.Delay(c.attempt), "exp attempt %d", c.attempt)
	}
}

// TestDelayEdgeCases ensures non-positive attempts yield zero.
func TestDelayEdgeCases(t *testing.T) {
	p := NewPolicy(config.RetryBackoffLinear, 10*time.Millisecond, 20*time.Millisecond, 1)
	require.Zero(t, p.Delay(0))
	require.Zero(t, p.Delay(-1))
}

// TestValidate covers validation error paths.
func TestValidate(t *testing.T) {
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Max: time.Second, MaxAttempts: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, MaxAttempts: 1}.Validate())
	require.Error(t, Policy{Mode: config.RetryBackoffLinear, Initial: time.Second, Max: time.Second}.Validate())
	require.NoError(t, DefaultPolicy().Validate())
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 3)
	var retries []int
	err := p.Do(context.Background(), func(attempt int) error {
		if attempt < 3 {
			return stderrors.New("transient")
		}
		return nil
	}, func(attempt int, delay time.Duration, err error) {
		retries = append(retries, attempt)
		require.Equal(t, time.Millisecond, delay)
	})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2}, retries)
}

func TestDoReturnsLastError(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)
	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		return stderrors.New("still failing")
	}, nil)
	require.EqualError(t, err, "still failing")
	require.Equal(t, 2, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 5)
	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		return errors.AuthError("refresh token revoked").Build()
	}, nil)
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

func TestDoHonorsContext(t *testing.T) {
	p := NewPolicy(config.RetryBackoffFixed, time.Hour, time.Hour, 3)
	ctx, cancel := context.WithCancel(context.Background())
	err := p.Do(ctx, func(int) error {
		cancel()
		return stderrors.New("boom")
	}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
