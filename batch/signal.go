package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// ErrInterrupted is returned by WaitInterrupted when a signal arrives.
var ErrInterrupted = errors.New("interrupted")

// WaitInterrupted blocks until one of signals (SIGINT and SIGTERM when none
// are given) arrives or ctx is done.
func WaitInterrupted(ctx context.Context, signals ...os.Signal) error {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, signals...)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		return fmt.Errorf("%w: %s", ErrInterrupted, sig)

	case <-ctx.Done():
		return ctx.Err()
	}
}
