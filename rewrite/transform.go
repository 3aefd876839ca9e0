package rewrite

import "github.com/vitalvas/jsrewrite/jsast"

// Metadata is host supplied context for a transform call. The built-in rules
// do not read it.
type Metadata struct {
	Filename       string
	UnresolvedMark uint32
	Comments       bool
}

var defaultEngine = NewEngine(DefaultRules()...)

// Transform runs one pass of the built-in rules over prog and returns it.
func Transform(prog *jsast.Program, _ Metadata) *jsast.Program {
	defaultEngine.Run(prog)
	return prog
}
