// Package batch applies a rewrite engine to many source files concurrently.
package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vitalvas/jsrewrite/jsparse"
	"github.com/vitalvas/jsrewrite/rewrite"
)

// Result is the outcome of rewriting one source.
type Result struct {
	File   string
	Output string
	Report rewrite.Report
	// Changed is set when a rule fired and the printed output differs from
	// the input text.
	Changed  bool
	Written  bool
	Duration time.Duration
	Err      error
}

// Observer receives every Result as soon as it is known.
type Observer interface {
	Observe(Result)
}

// Options configure a Runner.
type Options struct {
	Workers int
	// Write replaces changed files in place.
	Write bool
	// FailFast stops scheduling files after the first failure.
	FailFast bool
	Logger   *slog.Logger
	Observer Observer
}

// Runner rewrites files with one engine. A Runner is safe for concurrent use.
type Runner struct {
	id     string
	engine *rewrite.Engine
	opts   Options
	logger *slog.Logger
}

// NewRunner returns a runner with a fresh run id.
func NewRunner(engine *rewrite.Engine, opts Options) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	id := uuid.NewString()

	return &Runner{
		id:     id,
		engine: engine,
		opts:   opts,
		logger: logger.With("run_id", id),
	}
}

// ID returns the run id attached to every log record of this runner.
func (r *Runner) ID() string {
	return r.id
}

// Source parses src, applies one engine pass and prints the result.
// name is only used in errors.
func (r *Runner) Source(name string, src []byte) Result {
	started := time.Now()
	result := Result{File: name}

	prog, err := jsparse.ParseString(string(src))
	if err != nil {
		result.Err = fmt.Errorf("%s: %w", name, err)
	} else {
		result.Report = r.engine.Run(prog)
		result.Output = jsparse.Print(prog)
		result.Changed = result.Report.Changed() && result.Output != string(src)
	}

	result.Duration = time.Since(started)
	return result
}

// File rewrites one file, replacing it when Write is set and the output
// changed.
func (r *Runner) File(path string) Result {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{File: path, Err: fmt.Errorf("failed to read %s: %w", path, err)}
	}

	result := r.Source(path, src)
	if result.Err != nil || !r.opts.Write || !result.Changed {
		return result
	}

	if err := writeFile(path, result.Output); err != nil {
		result.Err = fmt.Errorf("failed to write %s: %w", path, err)
		return result
	}
	result.Written = true

	return result
}

// Run rewrites files with at most Workers in flight. Results keep the order
// of files; files never processed are recorded as failures carrying the
// cancellation cause. The returned error is the first failure when FailFast
// is set, otherwise the context error if any.
func (r *Runner) Run(ctx context.Context, files []string) ([]Result, error) {
	results := make([]Result, len(files))
	processed := make([]bool, len(files))

	group, groupCtx := NewGroup(ctx, r.opts.Workers)

	for i, path := range files {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func(ctx context.Context) error {
			if ctx.Err() != nil {
				return nil
			}

			result := r.File(path)
			results[i] = result
			processed[i] = true
			r.Record(result)

			if result.Err != nil && r.opts.FailFast {
				return result.Err
			}
			return nil
		})
	}

	err := group.Wait()

	for i, path := range files {
		if !processed[i] {
			results[i] = Result{File: path, Err: fmt.Errorf("not processed: %w", context.Cause(groupCtx))}
			r.Record(results[i])
		}
	}

	if err != nil {
		return results, err
	}

	return results, ctx.Err()
}

// Record passes result to the observer and the log. Run records every file
// it processes; callers record results they produce themselves.
func (r *Runner) Record(result Result) {
	if r.opts.Observer != nil {
		r.opts.Observer.Observe(result)
	}

	if result.Err != nil {
		r.logger.Error("rewrite failed", "file", result.File, "error", result.Err)
		return
	}

	r.logger.Info("file processed",
		"file", result.File,
		"visited", result.Report.Visited,
		"rewrites", result.Report.Total(),
		"changed", result.Changed,
		"written", result.Written,
		"duration", result.Duration,
	)

	for rule, count := range result.Report.Rewrites {
		r.logger.Debug("rule applied", "file", result.File, "rule", rule, "count", count)
	}
}

// writeFile replaces path through a temporary file in the same directory,
// keeping the original permissions.
func writeFile(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}
