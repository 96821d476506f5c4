// Package retry runs an operation under a bounded exponential-backoff policy.
// Only errors the storage layer marked transient are retried; validation and
// fatal storage errors return immediately.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/Sima922/clouds-pos/pkg/apperr"
)

// Policy bounds a retry loop. Delay doubles after every failed attempt:
// InitialDelay, 2×, 4×, and so on.
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// Change persistence and the inventory pass use the ceilings the order
// workflow was designed with: 3 and 5 attempts, 100ms initial backoff.
var (
	ChangePolicy    = Policy{MaxAttempts: 3, InitialDelay: 100 * time.Millisecond}
	InventoryPolicy = Policy{MaxAttempts: 5, InitialDelay: 100 * time.Millisecond}
)

// Do invokes fn until it succeeds, fails non-transiently, the attempt budget
// runs out, or ctx is done. Exhaustion wraps the last transient error so the
// caller surfaces it as fatal.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	delay := p.InitialDelay
	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		err = fn()
		if err == nil || !apperr.IsTransient(err) {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("retries exhausted after %d attempts: %w", p.MaxAttempts, err)
}
