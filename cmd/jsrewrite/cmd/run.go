package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vitalvas/jsrewrite/batch"
	"github.com/vitalvas/jsrewrite/metrics"
)

const stdinName = "<stdin>"

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		write    bool
		failFast bool
	)

	runCmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Rewrite files, or standard input when no files are given",
		Example: `  jsrewrite run app.js lib/client.mjs
  jsrewrite run --write src/*.js
  cat app.js | jsrewrite run > app.out.js`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, engine, err := root.setup(cmd)
			if err != nil {
				return err
			}

			m := metrics.New(nil, engine.Rules())
			runner := batch.NewRunner(engine, batch.Options{
				Workers:  conf.Workers,
				Write:    write,
				FailFast: failFast,
				Logger:   logger,
				Observer: m,
			})

			if len(args) == 0 {
				if write {
					return errors.New("--write needs file arguments")
				}
				err = runStdin(cmd, runner)
			} else {
				err = runFiles(cmd, runner, args, write)
			}

			if conf.MetricsFile != "" {
				m.RunCompleted()
				if werr := m.WriteTextfile(conf.MetricsFile); werr != nil {
					logger.Error("failed to write metrics", "file", conf.MetricsFile, "error", werr)
					err = errors.Join(err, werr)
				}
			}

			return err
		},
	}

	runCmd.Flags().BoolVarP(&write, "write", "w", false, "replace changed files in place instead of printing")
	runCmd.Flags().BoolVar(&failFast, "fail-fast", false, "stop at the first file that fails")

	return runCmd
}

func runStdin(cmd *cobra.Command, runner *batch.Runner) error {
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && isTerminal(int(f.Fd())) {
		return errors.New("refusing to read source from a terminal, pass files or pipe input")
	}

	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	result := runner.Source(stdinName, src)
	runner.Record(result)
	if result.Err != nil {
		return result.Err
	}

	_, err = io.WriteString(cmd.OutOrStdout(), result.Output)
	return err
}

func runFiles(cmd *cobra.Command, runner *batch.Runner, files []string, write bool) error {
	results, runErr := runner.Run(cmd.Context(), files)

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			continue
		}
		if !write {
			if _, err := io.WriteString(cmd.OutOrStdout(), result.Output); err != nil {
				return err
			}
		}
	}

	switch {
	case runErr != nil:
		return fmt.Errorf("%d of %d files failed: %w", failed, len(results), runErr)
	case failed > 0:
		return fmt.Errorf("%d of %d files failed", failed, len(results))
	}

	return nil
}
