package resilience

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) Policy {
	return Policy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestRun_FirstAttempt(t *testing.T) {
	calls := 0
	v, err := Run(context.Background(), fastPolicy(3), func(context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	assert.Equal(t, 1, calls)
}

func TestRun_RetriesTransient(t *testing.T) {
	calls := 0
	var retried []int
	p := fastPolicy(3)
	p.OnRetry = func(attempt int, _ error) { retried = append(retried, attempt) }

	v, err := Run(context.Background(), p, func(context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, Transient(errors.New("busy"), http.StatusServiceUnavailable)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestRun_GivesUp(t *testing.T) {
	calls := 0
	_, err := Run(context.Background(), fastPolicy(2), func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("down"), http.StatusBadGateway)
	})
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestRun_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	_, err := Run(context.Background(), fastPolicy(5), func(context.Context) (int, error) {
		calls++
		return 0, eris.New("bad request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestRun_ZeroAttemptsStillCallsOnce(t *testing.T) {
	calls := 0
	_, _ = Run(context.Background(), Policy{}, func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("x"), 0)
	})
	assert.Equal(t, 1, calls)
}

func TestRun_CustomRetryable(t *testing.T) {
	calls := 0
	p := fastPolicy(3)
	p.Retryable = func(error) bool { return true }
	_, err := Run(context.Background(), p, func(context.Context) (int, error) {
		calls++
		return 0, errors.New("plain")
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	p := Policy{Attempts: 10, BaseDelay: time.Hour}
	p.OnRetry = func(int, error) { cancel() }

	_, err := Run(ctx, p, func(context.Context) (int, error) {
		calls++
		return 0, Transient(errors.New("busy"), 0)
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_Delay(t *testing.T) {
	p := Policy{BaseDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond}
	assert.Equal(t, 100*time.Millisecond, p.delay(1))
	assert.Equal(t, 200*time.Millisecond, p.delay(2))
	assert.Equal(t, 300*time.Millisecond, p.delay(3))
	assert.Equal(t, time.Duration(0), Policy{}.delay(4))

	p.Jitter = 0.5
	for i := 0; i < 20; i++ {
		d := p.delay(1)
		assert.GreaterOrEqual(t, d, 50*time.Millisecond)
		assert.LessOrEqual(t, d, 150*time.Millisecond)
	}
}

func TestIsTransient(t *testing.T) {
	assert.False(t, IsTransient(nil))
	assert.True(t, IsTransient(Transient(errors.New("x"), 429)))
	assert.True(t, IsTransient(eris.Wrap(Transient(errors.New("x"), 500), "geocode: call")))
	assert.True(t, IsTransient(errors.New("read tcp: connection reset by peer")))
	assert.False(t, IsTransient(errors.New("invalid request")))
}

func TestRetryableStatus(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		assert.True(t, RetryableStatus(code), "status %d", code)
	}
	for _, code := range []int{200, 400, 401, 403, 404} {
		assert.False(t, RetryableStatus(code), "status %d", code)
	}
}
