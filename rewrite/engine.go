// Package rewrite implements structural, rule-driven rewriting of a jsast tree.
//
// An Engine holds rules keyed by node kind. Run walks a Program once,
// children before parents, and at each node applies the first registered
// rule of that node's kind whose matcher accepts it. Rules key only on the
// shape of the tree, so structurally identical call sites are always
// rewritten identically.
//
// Example:
//
//	prog, err := jsparse.ParseString(`const res = await fetch(url);`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rewrite.Transform(prog, rewrite.Metadata{})
//	fmt.Print(jsparse.Print(prog)) // const res = await my_fetch(url);
package rewrite

import (
	"fmt"

	"github.com/vitalvas/jsrewrite/jsast"
)

// Rule pairs a matcher with the action applied when it accepts a node.
// Match and Apply receive nodes of type Kind only. Apply mutates one child
// slot of the node it receives and must leave sibling slots alone.
type Rule struct {
	Name  string
	Kind  jsast.Kind
	Match func(jsast.Node) bool
	Apply func(jsast.Node)
}

// Engine applies a fixed set of rules in a single pass.
// Register must not be called concurrently with Run; once registration is
// done an Engine may run passes over distinct programs concurrently.
type Engine struct {
	rules map[jsast.Kind][]Rule
	names []string
}

// NewEngine creates an engine with the given rules registered in order.
func NewEngine(rules ...Rule) *Engine {
	e := &Engine{
		rules: make(map[jsast.Kind][]Rule),
	}
	for _, rule := range rules {
		e.Register(rule)
	}
	return e
}

// Register appends a rule. When several rules of one kind accept a node, the
// first registered wins. Returns the engine to allow method chaining.
// Panics on a rule without name, matcher or action, or with a duplicate name.
func (e *Engine) Register(rule Rule) *Engine {
	if rule.Name == "" || rule.Match == nil || rule.Apply == nil {
		panic(fmt.Sprintf("rewrite: incomplete rule %q", rule.Name))
	}
	for _, name := range e.names {
		if name == rule.Name {
			panic(fmt.Sprintf("rewrite: duplicate rule %q", rule.Name))
		}
	}

	e.rules[rule.Kind] = append(e.rules[rule.Kind], rule)
	e.names = append(e.names, rule.Name)
	return e
}

// Rules returns the registered rule names in registration order.
func (e *Engine) Rules() []string {
	names := make([]string, len(e.names))
	copy(names, e.names)
	return names
}

// Report summarizes one pass.
type Report struct {
	// Visited counts nodes visited, replacement nodes excluded.
	Visited int
	// Rewrites counts applied actions per rule name.
	Rewrites map[string]int
}

// Changed reports whether any rule fired.
func (r Report) Changed() bool {
	return r.Total() > 0
}

// Total returns the number of applied actions across all rules.
func (r Report) Total() int {
	total := 0
	for _, count := range r.Rewrites {
		total += count
	}
	return total
}

// Run performs one pass over prog, mutating it in place.
func (e *Engine) Run(prog *jsast.Program) Report {
	if prog == nil {
		panic("rewrite: nil program")
	}

	report := Report{Rewrites: make(map[string]int)}

	jsast.Walk(prog, func(node jsast.Node) {
		report.Visited++

		for _, rule := range e.rules[node.Kind()] {
			if rule.Match(node) {
				rule.Apply(node)
				report.Rewrites[rule.Name]++
				return
			}
		}
	})

	return report
}
