package batch

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/jsrewrite/rewrite"
)

type collector struct {
	mu      sync.Mutex
	results []Result
}

func (c *collector) Observe(result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

func (c *collector) files() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := make([]string, 0, len(c.results))
	for _, result := range c.results {
		files = append(files, filepath.Base(result.File))
	}
	return files
}

func writeSources(t *testing.T, sources map[string]string) (string, []string) {
	t.Helper()

	dir := t.TempDir()
	paths := make([]string, 0, len(sources))
	for name, content := range sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o640))
		paths = append(paths, path)
	}

	return dir, paths
}

func newTestRunner(opts Options) *Runner {
	return NewRunner(rewrite.NewEngine(rewrite.DefaultRules()...), opts)
}

func TestRunnerSource(t *testing.T) {
	r := newTestRunner(Options{})

	t.Run("rewrites", func(t *testing.T) {
		result := r.Source("app.js", []byte(`const res = await fetch(url);`))

		require.NoError(t, result.Err)
		assert.Equal(t, "const res = await my_fetch(url);\n", result.Output)
		assert.True(t, result.Changed)
		assert.Equal(t, map[string]int{rewrite.RuleFetchCall: 1}, result.Report.Rewrites)
	})

	t.Run("canonical input with firing rule is unchanged", func(t *testing.T) {
		result := r.Source("eq.js", []byte("if (__strict_eq_lhs === b) {\n    go();\n}\n"))

		require.NoError(t, result.Err)
		assert.True(t, result.Report.Changed())
		assert.False(t, result.Changed)
	})

	t.Run("no rule fired", func(t *testing.T) {
		result := r.Source("plain.js", []byte(`custom_fetch(a)`))

		require.NoError(t, result.Err)
		assert.Equal(t, "custom_fetch(a);\n", result.Output)
		assert.False(t, result.Changed)
	})

	t.Run("parse error names the source", func(t *testing.T) {
		result := r.Source("broken.js", []byte(`fetch(`))

		require.Error(t, result.Err)
		assert.Contains(t, result.Err.Error(), "broken.js: parse errors")
		assert.Empty(t, result.Output)
	})
}

func TestRunnerRun(t *testing.T) {
	t.Run("keeps file order", func(t *testing.T) {
		_, paths := writeSources(t, map[string]string{
			"a.js": `fetch(a);`,
			"b.js": `window.fetch(b);`,
			"c.js": `x === y;`,
			"d.js": `noop();`,
		})

		observer := &collector{}
		r := newTestRunner(Options{Workers: 2, Observer: observer})

		results, err := r.Run(context.Background(), paths)
		require.NoError(t, err)
		require.Len(t, results, len(paths))

		for i, result := range results {
			assert.Equal(t, paths[i], result.File)
			assert.NoError(t, result.Err)
		}
		assert.ElementsMatch(t, []string{"a.js", "b.js", "c.js", "d.js"}, observer.files())
	})

	t.Run("write replaces changed files only", func(t *testing.T) {
		dir, _ := writeSources(t, map[string]string{
			"changed.js":   `globalThis.fetch(u);`,
			"untouched.js": `custom_fetch(u)`,
		})
		changed := filepath.Join(dir, "changed.js")
		untouched := filepath.Join(dir, "untouched.js")

		r := newTestRunner(Options{Workers: 4, Write: true})
		results, err := r.Run(context.Background(), []string{changed, untouched})
		require.NoError(t, err)

		assert.True(t, results[0].Written)
		assert.False(t, results[1].Written)

		data, err := os.ReadFile(changed)
		require.NoError(t, err)
		assert.Equal(t, "globalThis.my_fetch(u);\n", string(data))

		info, err := os.Stat(changed)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

		data, err = os.ReadFile(untouched)
		require.NoError(t, err)
		assert.Equal(t, `custom_fetch(u)`, string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("second write pass is a no-op", func(t *testing.T) {
		_, paths := writeSources(t, map[string]string{
			"eq.js": `if (a === b) { fetch(a); }`,
		})

		r := newTestRunner(Options{Write: true})

		first, err := r.Run(context.Background(), paths)
		require.NoError(t, err)
		assert.True(t, first[0].Written)

		second, err := r.Run(context.Background(), paths)
		require.NoError(t, err)
		assert.False(t, second[0].Written)
		assert.False(t, second[0].Changed)
	})

	t.Run("failures are reported per file", func(t *testing.T) {
		dir, _ := writeSources(t, map[string]string{
			"good.js": `fetch(a);`,
			"bad.js":  `const = 1;`,
		})
		files := []string{
			filepath.Join(dir, "bad.js"),
			filepath.Join(dir, "missing.js"),
			filepath.Join(dir, "good.js"),
		}

		r := newTestRunner(Options{Workers: 3})
		results, err := r.Run(context.Background(), files)
		require.NoError(t, err)

		assert.ErrorContains(t, results[0].Err, "parse errors")
		assert.ErrorIs(t, results[1].Err, os.ErrNotExist)
		assert.NoError(t, results[2].Err)
	})

	t.Run("fail fast stops scheduling", func(t *testing.T) {
		dir, _ := writeSources(t, map[string]string{
			"bad.js":  `if (`,
			"good.js": `fetch(a);`,
		})
		files := []string{filepath.Join(dir, "bad.js")}
		for i := 0; i < 50; i++ {
			files = append(files, filepath.Join(dir, "good.js"))
		}

		observer := &collector{}
		r := newTestRunner(Options{Workers: 1, FailFast: true, Observer: observer})
		results, err := r.Run(context.Background(), files)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse errors")
		require.Len(t, results, len(files))
		assert.ErrorContains(t, results[len(results)-1].Err, "not processed")

		// Files that were never started are still observed as failures.
		assert.Len(t, observer.files(), len(files))
	})

	t.Run("unsupported syntax is never written", func(t *testing.T) {
		src := "while (retry) { fetch(url); }\nconst req = new Request(url);\nif (ok) { fetch(a); } else ;"
		_, paths := writeSources(t, map[string]string{"loop.js": src})

		r := newTestRunner(Options{Write: true})
		result := r.File(paths[0])

		assert.ErrorContains(t, result.Err, "unsupported keyword: while")
		assert.False(t, result.Written)

		data, err := os.ReadFile(paths[0])
		require.NoError(t, err)
		assert.Equal(t, src, string(data))
	})

	t.Run("canceled context", func(t *testing.T) {
		_, paths := writeSources(t, map[string]string{"a.js": `fetch(a);`})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		results, err := newTestRunner(Options{}).Run(ctx, paths)
		assert.ErrorIs(t, err, context.Canceled)
		assert.ErrorIs(t, results[0].Err, context.Canceled)
	})
}

func TestRunnerLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := newTestRunner(Options{Logger: logger})
	_, err := uuid.Parse(r.ID())
	require.NoError(t, err)

	r.Record(r.Source("app.js", []byte(`fetch(a); a === b;`)))
	r.Record(r.Source("bad.js", []byte(`(`)))

	out := buf.String()
	assert.Contains(t, out, "run_id="+r.ID())
	assert.Contains(t, out, `msg="file processed" run_id=`)
	assert.Contains(t, out, "rewrites=2")
	assert.Contains(t, out, "rule=fetch-call count=1")
	assert.Contains(t, out, `msg="rewrite failed"`)
}

func TestNewRunnerIDsDiffer(t *testing.T) {
	assert.NotEqual(t, newTestRunner(Options{}).ID(), newTestRunner(Options{}).ID())
}
