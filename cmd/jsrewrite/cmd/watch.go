package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vitalvas/jsrewrite/batch"
	"github.com/vitalvas/jsrewrite/metrics"
	"github.com/vitalvas/jsrewrite/watch"
)

func newWatchCmd(root *rootOptions) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Rewrite sources under dir in place whenever they change",
		Long: `watch rewrites every matching file under dir once, then keeps rewriting
files as they are created or modified until interrupted. Files whose
rewritten text equals their content are left alone, so the command does
not trigger on its own writes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, engine, err := root.setup(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("debounce") {
				conf.Watch.Debounce, _ = cmd.Flags().GetDuration("debounce")
				if err := conf.Validate(); err != nil {
					return fmt.Errorf("invalid flags: %w", err)
				}
			}

			m := metrics.New(nil, engine.Rules())
			runner := batch.NewRunner(engine, batch.Options{
				Workers:  conf.Workers,
				Write:    true,
				Logger:   logger,
				Observer: m,
			})

			watcher, err := watch.New(watch.Config{
				Dir:        args[0],
				Debounce:   conf.Watch.Debounce,
				Extensions: conf.Watch.Extensions,
			}, logger)
			if err != nil {
				return err
			}
			defer func() { _ = watcher.Close() }()

			rewriteFiles := func(ctx context.Context, files []string) error {
				if _, err := runner.Run(ctx, files); err != nil {
					return err
				}

				if conf.MetricsFile != "" {
					m.RunCompleted()
					if err := m.WriteTextfile(conf.MetricsFile); err != nil {
						logger.Error("failed to write metrics", "file", conf.MetricsFile, "error", err)
					}
				}
				return nil
			}

			files, err := watcher.Files()
			if err != nil {
				return err
			}
			if err := rewriteFiles(cmd.Context(), files); err != nil {
				return err
			}

			return watchUntilInterrupted(cmd.Context(), logger, func(ctx context.Context) error {
				return watcher.Run(ctx, rewriteFiles)
			})
		},
	}

	watchCmd.Flags().Duration("debounce", 0, "quiet period before changed files are rewritten")

	return watchCmd
}

// watchUntilInterrupted runs fn until it returns, ctx is done or SIGINT or
// SIGTERM arrives. An interrupt is a clean exit.
func watchUntilInterrupted(ctx context.Context, logger *slog.Logger, fn func(ctx context.Context) error) error {
	group, ctx := batch.NewGroup(ctx, 0)

	group.Go(func(ctx context.Context) error {
		return batch.WaitInterrupted(ctx)
	})

	group.Go(func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return context.Canceled
	})

	err := group.Wait()
	if errors.Is(err, batch.ErrInterrupted) || errors.Is(err, context.Canceled) {
		logger.Info("watch stopped", "reason", err)
		return nil
	}

	return err
}
