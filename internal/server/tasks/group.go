// Package tasks runs fire-and-forget work that must outlive the request
// that started it but still finish before the process exits.
package tasks

import (
	"context"
	"sync"
	"time"
)

// Group tracks detached goroutines so that shutdown can drain them.
type Group struct {
	wg sync.WaitGroup
}

// Go runs fn in a new goroutine. fn receives a context that keeps the values
// of ctx but not its cancellation, bounded by timeout when timeout > 0.
func (g *Group) Go(ctx context.Context, timeout time.Duration, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		runCtx := detached
		if timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(detached, timeout)
			defer cancel()
		}

		fn(runCtx)
	}()
}

// Wait blocks until every task started with Go has returned or ctx is done.
func (g *Group) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
