package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execResult struct {
	stdout string
	stderr string
	err    error
}

func execute(t *testing.T, stdin string, args ...string) execResult {
	t.Helper()

	var stdout, stderr bytes.Buffer

	rootCmd := NewRootCmd()
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(context.Background())

	return execResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeSource(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionCmd(t *testing.T) {
	res := execute(t, "", "version")

	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "jsrewrite "+Version+"\n")
	assert.Contains(t, res.stdout, "Git Commit: ")
	assert.Contains(t, res.stdout, "OS/Arch: ")
}

func TestRulesCmd(t *testing.T) {
	res := execute(t, "", "rules")

	require.NoError(t, res.err)
	assert.Equal(t, "fetch-member-call\nfetch-call\nstrict-equality\n", res.stdout)
}

func TestRunCmdStdin(t *testing.T) {
	t.Run("rewrites", func(t *testing.T) {
		res := execute(t, `const res = await window.fetch(u); if (res === null) { return; }`, "run")

		require.NoError(t, res.err)
		assert.Equal(t,
			"const res = await window.my_fetch(u);\nif (__strict_eq_lhs === null) {\n    return;\n}\n",
			res.stdout,
		)
	})

	t.Run("selected rules only", func(t *testing.T) {
		res := execute(t, `fetch(a); a === b;`, "run", "--rules", "strict-equality")

		require.NoError(t, res.err)
		assert.Equal(t, "fetch(a);\n__strict_eq_lhs === b;\n", res.stdout)
	})

	t.Run("parse error", func(t *testing.T) {
		res := execute(t, `fetch(`, "run")

		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "<stdin>: parse errors")
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, "rewrite failed")
	})

	t.Run("write needs files", func(t *testing.T) {
		res := execute(t, `fetch(a);`, "run", "--write")
		assert.EqualError(t, res.err, "--write needs file arguments")
	})

	t.Run("unknown rule", func(t *testing.T) {
		res := execute(t, `fetch(a);`, "run", "--rules", "bogus")
		assert.EqualError(t, res.err, "invalid flags: unknown rule: bogus")
	})

	t.Run("bad log level", func(t *testing.T) {
		res := execute(t, `fetch(a);`, "run", "--log-level", "chatty")
		assert.EqualError(t, res.err, "invalid flags: unknown log level: chatty")
	})
}

func TestRunCmdFiles(t *testing.T) {
	t.Run("prints in argument order", func(t *testing.T) {
		dir := t.TempDir()
		a := writeSource(t, dir, "a.js", `fetch(a);`)
		b := writeSource(t, dir, "b.js", `globalThis.fetch(b);`)

		res := execute(t, "", "run", "--workers", "2", b, a)

		require.NoError(t, res.err)
		assert.Equal(t, "globalThis.my_fetch(b);\nmy_fetch(a);\n", res.stdout)
	})

	t.Run("write in place", func(t *testing.T) {
		dir := t.TempDir()
		a := writeSource(t, dir, "a.js", `if (x === y) { fetch(x); }`)

		res := execute(t, "", "run", "-w", a)
		require.NoError(t, res.err)
		assert.Empty(t, res.stdout)

		data, err := os.ReadFile(a)
		require.NoError(t, err)
		assert.Equal(t, "if (__strict_eq_lhs === y) {\n    my_fetch(x);\n}\n", string(data))
	})

	t.Run("failures are counted", func(t *testing.T) {
		dir := t.TempDir()
		good := writeSource(t, dir, "good.js", `fetch(a);`)
		bad := writeSource(t, dir, "bad.js", `let = ;`)

		res := execute(t, "", "run", good, bad)

		assert.EqualError(t, res.err, "1 of 2 files failed")
		assert.Equal(t, "my_fetch(a);\n", res.stdout)
	})

	t.Run("fail fast reports the summary", func(t *testing.T) {
		dir := t.TempDir()
		good := writeSource(t, dir, "good.js", `fetch(a);`)
		bad := writeSource(t, dir, "bad.js", `let = ;`)
		metricsFile := filepath.Join(dir, "jsrewrite.prom")

		res := execute(t, "", "run", "--fail-fast", "--workers", "1", "--metrics-file", metricsFile, good, bad, good, good)

		require.Error(t, res.err)
		assert.Contains(t, res.err.Error(), "3 of 4 files failed: ")
		assert.Contains(t, res.err.Error(), "bad.js: parse errors")
		assert.Equal(t, "my_fetch(a);\n", res.stdout)

		data, err := os.ReadFile(metricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `jsrewrite_files_total{result="failed"} 3`)
		assert.Contains(t, string(data), `jsrewrite_files_total{result="changed"} 1`)
	})

	t.Run("metrics file", func(t *testing.T) {
		dir := t.TempDir()
		a := writeSource(t, dir, "a.js", `fetch(a); window.fetch(b);`)
		metricsFile := filepath.Join(dir, "jsrewrite.prom")

		res := execute(t, "", "run", "--metrics-file", metricsFile, a)
		require.NoError(t, res.err)

		data, err := os.ReadFile(metricsFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), `jsrewrite_rewrites_total{rule="fetch-call"} 1`)
		assert.Contains(t, string(data), `jsrewrite_rewrites_total{rule="fetch-member-call"} 1`)
		assert.Contains(t, string(data), `jsrewrite_files_total{result="changed"} 1`)
	})

	t.Run("config file", func(t *testing.T) {
		dir := t.TempDir()
		a := writeSource(t, dir, "a.js", `fetch(a);`)
		conf := writeSource(t, dir, "jsrewrite.yaml", "log:\n  level: debug\n  type: json\nrules:\n  - fetch-call\n")

		res := execute(t, "", "run", "--config", conf, a)
		require.NoError(t, res.err)
		assert.Equal(t, "my_fetch(a);\n", res.stdout)

		var sawFile bool
		for _, line := range strings.Split(strings.TrimSpace(res.stderr), "\n") {
			var entry map[string]any
			require.NoError(t, json.Unmarshal([]byte(line), &entry), line)

			if entry["msg"] == "file processed" {
				sawFile = true
				assert.Equal(t, a, entry["file"])
				assert.NotEmpty(t, entry["run_id"])
			}
		}
		assert.True(t, sawFile)
	})

	t.Run("missing config file", func(t *testing.T) {
		res := execute(t, `fetch(a);`, "run", "--config", filepath.Join(t.TempDir(), "absent.yaml"))

		assert.ErrorIs(t, res.err, os.ErrNotExist)
		assert.Empty(t, res.stdout)
	})

	t.Run("flags override config file", func(t *testing.T) {
		dir := t.TempDir()
		conf := writeSource(t, dir, "jsrewrite.toml", "rules = [\"fetch-call\"]\n")

		res := execute(t, `a === b;`, "run", "--config", conf, "--rules", "strict-equality")
		require.NoError(t, res.err)
		assert.Equal(t, "__strict_eq_lhs === b;\n", res.stdout)
	})
}

func TestWatchCmdArgs(t *testing.T) {
	res := execute(t, "", "watch")
	assert.Error(t, res.err)

	res = execute(t, "", "watch", filepath.Join(t.TempDir(), "absent"))
	assert.ErrorIs(t, res.err, os.ErrNotExist)

	res = execute(t, "", "watch", "--debounce", "-1s", t.TempDir())
	assert.EqualError(t, res.err, "invalid flags: watch debounce must not be negative, got -1s")
}

func TestWatchUntilInterrupted(t *testing.T) {
	t.Run("context cancellation is a clean exit", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() {
			done <- watchUntilInterrupted(ctx, discard(), func(ctx context.Context) error {
				<-ctx.Done()
				return nil
			})
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(3 * time.Second):
			t.Fatal("timeout")
		}
	})

	t.Run("watch error is returned", func(t *testing.T) {
		watchErr := errors.New("watcher events channel closed")

		err := watchUntilInterrupted(context.Background(), discard(), func(context.Context) error {
			return watchErr
		})

		assert.Equal(t, watchErr, err)
	})
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.False(t, isTerminal(int(f.Fd())))

	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	defer func() { _ = w.Close() }()

	assert.False(t, isTerminal(int(r.Fd())))
}
