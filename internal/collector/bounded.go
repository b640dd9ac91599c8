package collector

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSampleTimeout is returned when a read does not finish within its bound.
var ErrSampleTimeout = errors.New("sample timed out")

// bounded runs fn with a deadline and stops waiting once it passes. fn may keep
// running in the background, so it must not touch shared state.
func bounded[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		val T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn(ctx)
		ch <- result{v, err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("%w after %s: %v", ErrSampleTimeout, timeout, ctx.Err())
	}
}
