package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitalvas/jsrewrite/jsast"
	"github.com/vitalvas/jsrewrite/jsparse"
)

func parse(t *testing.T, src string) *jsast.Program {
	t.Helper()
	prog, err := jsparse.ParseString(src)
	require.NoError(t, err)
	return prog
}

// transformSource returns the printed result of one pass over src.
func transformSource(t *testing.T, src string) string {
	t.Helper()
	return jsparse.Print(Transform(parse(t, src), Metadata{}))
}

// printSource returns src in the printer's canonical layout.
func printSource(t *testing.T, src string) string {
	t.Helper()
	return jsparse.Print(parse(t, src))
}

func TestTransform(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "replace fetch",
			input:    `const res = await fetch('http://localhost:9999');`,
			expected: `const res = await my_fetch('http://localhost:9999');`,
		},
		{
			name:     "global this fetch",
			input:    `const res = await globalThis.fetch('http://localhost:9999');`,
			expected: `const res = await globalThis.my_fetch('http://localhost:9999');`,
		},
		{
			name:     "window fetch",
			input:    `const res = await window.fetch('http://localhost:9999');`,
			expected: `const res = await window.my_fetch('http://localhost:9999');`,
		},
		{
			name:     "not replace custom fetch",
			input:    `const res = await custom_fetch('http://localhost:9999');`,
			expected: `const res = await custom_fetch('http://localhost:9999');`,
		},
		{
			name:     "strict equality in if test",
			input:    `if (a === b) { log(a); }`,
			expected: `if (__strict_eq_lhs === b) { log(a); }`,
		},
		{
			name:     "member fetch arguments untouched",
			input:    `window.fetch(fetchUrl, [method, fetch])`,
			expected: `window.my_fetch(fetchUrl, [method, fetch])`,
		},
		{
			name:     "nested calls rewritten independently",
			input:    `fetch(fetch(a), window.fetch(b))`,
			expected: `my_fetch(my_fetch(a), window.my_fetch(b))`,
		},
		{
			name:     "call inside function body",
			input:    `async function load(u) { return await globalThis.fetch(u); }`,
			expected: `async function load(u) { return await globalThis.my_fetch(u); }`,
		},
		{
			name:     "strict equality with call on the left",
			input:    `const same = fetch(a) === b;`,
			expected: `const same = __strict_eq_lhs === b;`,
		},
		{
			name:     "strict equality with literal and nested expression",
			input:    `x = 1 === y; z = (p + q) === r;`,
			expected: `x = __strict_eq_lhs === y; z = __strict_eq_lhs === r;`,
		},
		{
			name:     "nested strict equality",
			input:    `t = (a === b) === c;`,
			expected: `t = __strict_eq_lhs === c;`,
		},
		{
			name:     "right operand untouched",
			input:    `ok = a === (b === c);`,
			expected: `ok = __strict_eq_lhs === (__strict_eq_lhs === c);`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, printSource(t, tt.expected), transformSource(t, tt.input))
		})
	}
}

func TestTransformExactOutput(t *testing.T) {
	assert.Equal(t,
		"const res = await my_fetch('http://localhost:9999');\n",
		transformSource(t, `const res = await fetch('http://localhost:9999');`),
	)
	assert.Equal(t,
		"if (__strict_eq_lhs === b) {\n    log(a);\n}\n",
		transformSource(t, `if (a === b) { log(a); }`),
	)
}

func TestTransformNoOp(t *testing.T) {
	inputs := []string{
		`const res = await custom_fetch('http://localhost:9999');`,
		`other.fetch_thing(a);`,
		`other.fetch(a);`,
		`window.fetcher(a);`,
		`window["fetch"](a);`,
		`window[fetch](a);`,
		`fetch;`,
		`x = window.fetch;`,
		`(fetch)(a);`,
		`window.fetch.call(window, a);`,
		`self.window.fetch(a);`,
		`globalthis.fetch(a);`,
		`Fetch(a);`,
		`if (a == b) { log(a); }`,
		`if (a !== b) { log(a); } else { c = a != b; }`,
		`z = a < b && c >= d || !e;`,
		`let a, b = [1, 'fetch', null];`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			prog := parse(t, input)
			before := jsparse.Print(prog)

			Transform(prog, Metadata{Filename: "noop.js"})

			assert.Equal(t, before, jsparse.Print(prog))
			assert.Equal(t, parse(t, input), prog)
		})
	}
}

func TestTransformIdempotent(t *testing.T) {
	inputs := []string{
		`const res = await fetch('http://localhost:9999');`,
		`window.fetch(a); globalThis.fetch(b); fetch(c);`,
		`if (fetch(a) === b) { log(a === c); }`,
		`async function f(u) { if (u === null) { return; } return await window.fetch(u); }`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			prog := parse(t, input)

			once := jsparse.Print(Transform(prog, Metadata{}))
			twice := jsparse.Print(Transform(prog, Metadata{}))

			assert.Equal(t, once, twice)
		})
	}
}

func TestTransformReturnsSameProgram(t *testing.T) {
	prog := parse(t, `fetch(a);`)
	assert.Same(t, prog, Transform(prog, Metadata{}))
}

func TestTransformPreservesSpans(t *testing.T) {
	src := `if (alpha === b) { window.fetch(u); }`
	prog := parse(t, src)

	ifStmt := prog.Body[0].(*jsast.IfStatement)
	bin := ifStmt.Test.(*jsast.BinaryExpression)
	oldLeft := bin.Left
	call := ifStmt.Consequent.(*jsast.BlockStatement).Body[0].(*jsast.ExpressionStatement).Expression.(*jsast.CallExpression)
	prop := call.Callee.(*jsast.MemberExpression).PropertyName()
	propSpan := prop.Loc

	Transform(prog, Metadata{})

	t.Run("replacement inherits span", func(t *testing.T) {
		left, ok := bin.Left.(*jsast.Identifier)
		require.True(t, ok)
		assert.NotSame(t, oldLeft, bin.Left)
		assert.Equal(t, StrictEqualityPlaceholder, left.Name)
		assert.Equal(t, oldLeft.Span(), left.Loc)
		assert.Equal(t, "alpha", src[left.Loc.Start:left.Loc.End])
	})

	t.Run("rename keeps node and span", func(t *testing.T) {
		assert.Same(t, prop, call.Callee.(*jsast.MemberExpression).PropertyName())
		assert.Equal(t, FetchReplacement, prop.Name)
		assert.Equal(t, propSpan, prop.Loc)
	})

	t.Run("operator and right operand untouched", func(t *testing.T) {
		assert.Equal(t, jsast.OpStrictEq, bin.Operator)
		assert.Equal(t, "b", bin.Right.(*jsast.Identifier).Name)
	})
}
