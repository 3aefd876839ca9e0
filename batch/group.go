package batch

import (
	"context"
	"sync"
)

// Group runs functions in goroutines, at most limit at a time, and cancels
// its context on the first error. Unlike errgroup, the cancellation cause is
// the error itself.
type Group struct {
	ctx     context.Context
	cancel  context.CancelCauseFunc
	wg      sync.WaitGroup
	sem     chan struct{}
	errOnce sync.Once
	err     error
}

// NewGroup returns a new Group and a Context derived from ctx. A limit below
// one means no limit. The derived Context is canceled when the first function
// returns an error or when Wait returns, whichever happens first.
func NewGroup(ctx context.Context, limit int) (*Group, context.Context) {
	ctx, cancel := context.WithCancelCause(ctx)

	g := &Group{ctx: ctx, cancel: cancel}
	if limit > 0 {
		g.sem = make(chan struct{}, limit)
	}

	return g, ctx
}

// Go calls f in a new goroutine once a slot is free. It blocks while the
// group is at its limit. f is not called when the group context is done
// by the time a slot is acquired.
func (g *Group) Go(f func(ctx context.Context) error) {
	if g.sem != nil {
		select {
		case g.sem <- struct{}{}:
		case <-g.ctx.Done():
			return
		}
	}

	if g.ctx.Err() != nil {
		g.release()
		return
	}

	g.wg.Add(1)

	go func() {
		defer g.wg.Done()
		defer g.release()

		if err := f(g.ctx); err != nil {
			g.errOnce.Do(func() {
				g.err = err
				g.cancel(err)
			})
		}
	}()
}

func (g *Group) release() {
	if g.sem != nil {
		<-g.sem
	}
}

// Wait blocks until all started functions have returned, then returns the
// first non-nil error from them.
func (g *Group) Wait() error {
	g.wg.Wait()
	g.cancel(nil)
	return g.err
}
