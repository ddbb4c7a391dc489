package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/fieldtriage/internal/core/domain"
)

// defaultDownstreamTimeout bounds external calls when no timeout is configured.
const defaultDownstreamTimeout = 2 * time.Second

// callResult carries the outcome of a bounded call across goroutines.
type callResult[T any] struct {
	value T
	err   error
}

// callBounded runs fn under a deadline. The call runs in its own goroutine
// so an implementation that ignores ctx still cannot block past the
// deadline. Panics inside fn are returned as errors.
func callBounded[T any](
	ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error),
) (T, error) {
	if timeout <= 0 {
		timeout = defaultDownstreamTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan callResult[T], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				done <- callResult[T]{value: zero, err: fmt.Errorf("%w: panic: %v", domain.ErrDownstreamError, r)}
			}
		}()
		v, err := fn(ctx)
		done <- callResult[T]{value: v, err: err}
	}()

	select {
	case res := <-done:
		return res.value, classifyDownstream(res.err)
	case <-ctx.Done():
		var zero T
		return zero, classifyDownstream(ctx.Err())
	}
}

// classifyDownstream maps an adapter error onto the error taxonomy.
func classifyDownstream(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrDownstreamTimeout), errors.Is(err, domain.ErrDownstreamError):
		return err
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", domain.ErrDownstreamTimeout, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrDownstreamError, err)
	}
}
