package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sima922/clouds-pos/pkg/apperr"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return apperr.Transient(errors.New("deadlock detected"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoDoesNotRetryNonTransientErrors(t *testing.T) {
	p := Policy{MaxAttempts: 5, InitialDelay: time.Millisecond}

	fatal := errors.New("constraint violation")
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return fatal
	})

	assert.ErrorIs(t, err, fatal)
	assert.Equal(t, 1, calls)
}

func TestDoExhaustionWrapsLastError(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Millisecond}

	transient := apperr.Transient(errors.New("lock not available"))
	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return transient
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Contains(t, err.Error(), "retries exhausted after 3 attempts")
	assert.True(t, apperr.IsTransient(err), "the wrapped cause must stay inspectable")
}

func TestDoBackoffDoubles(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: 20 * time.Millisecond}

	start := time.Now()
	_ = p.Do(context.Background(), func() error {
		return apperr.Transient(errors.New("busy"))
	})
	elapsed := time.Since(start)

	// Two sleeps: 20ms then 40ms.
	assert.GreaterOrEqual(t, elapsed, 60*time.Millisecond)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	p := Policy{MaxAttempts: 10, InitialDelay: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := p.Do(ctx, func() error {
		calls++
		return apperr.Transient(errors.New("busy"))
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDoRespectsAlreadyCanceledContext(t *testing.T) {
	p := Policy{MaxAttempts: 3, InitialDelay: time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := p.Do(ctx, func() error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestWorkflowPolicies(t *testing.T) {
	assert.Equal(t, 3, ChangePolicy.MaxAttempts)
	assert.Equal(t, 5, InventoryPolicy.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, ChangePolicy.InitialDelay)
	assert.Equal(t, 100*time.Millisecond, InventoryPolicy.InitialDelay)
}
