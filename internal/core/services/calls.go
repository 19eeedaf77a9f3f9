package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/dishsafe/internal/core/domain"
)

// callContext bounds a single external call.
// A zero timeout leaves the parent deadline in place.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// classifyCallErr maps an expired deadline onto domain.ErrTimeout so callers
// can match on a single error kind regardless of which layer timed out.
func classifyCallErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return err
}
