package rewrite

import (
	"fmt"

	"github.com/vitalvas/jsrewrite/jsast"
)

// Built-in rule configuration. These are fixed at build time.
const (
	FetchName                 = "fetch"
	FetchReplacement          = "my_fetch"
	StrictEqualityOperator    = jsast.OpStrictEq
	StrictEqualityPlaceholder = "__strict_eq_lhs"
)

// Built-in rule names.
const (
	RuleFetchMemberCall = "fetch-member-call"
	RuleFetchCall       = "fetch-call"
	RuleStrictEquality  = "strict-equality"
)

// GlobalObjects returns the object names through which a member call to
// FetchName is rewritten.
func GlobalObjects() []string {
	return []string{"window", "globalThis"}
}

// DefaultRules returns the built-in rules in registration order.
func DefaultRules() []Rule {
	return []Rule{
		MemberCallRename(RuleFetchMemberCall, GlobalObjects(), FetchName, FetchReplacement),
		CallRename(RuleFetchCall, FetchName, FetchReplacement),
		BinaryLeftReplace(RuleStrictEquality, StrictEqualityOperator, StrictEqualityPlaceholder),
	}
}

// DefaultRuleNames returns the names of DefaultRules in order.
func DefaultRuleNames() []string {
	rules := DefaultRules()
	names := make([]string, 0, len(rules))
	for _, rule := range rules {
		names = append(names, rule.Name)
	}
	return names
}

// SelectRules returns the built-in rules with the given names, keeping the
// built-in registration order. An empty selection returns all of them.
func SelectRules(names ...string) ([]Rule, error) {
	all := DefaultRules()
	if len(names) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	selected := make([]Rule, 0, len(names))
	for _, rule := range all {
		if wanted[rule.Name] {
			selected = append(selected, rule)
			delete(wanted, rule.Name)
		}
	}

	for _, name := range names {
		if wanted[name] {
			return nil, fmt.Errorf("unknown rule: %s", name)
		}
	}

	return selected, nil
}

// MemberCallRename matches obj.from(...) where obj is an identifier in
// objects and from is a plain property, and renames the property to to.
// The object and the arguments are left untouched.
func MemberCallRename(name string, objects []string, from, to string) Rule {
	allowed := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		allowed[obj] = struct{}{}
	}

	property := func(node jsast.Node) *jsast.Identifier {
		call := node.(*jsast.CallExpression)

		member, ok := call.Callee.(*jsast.MemberExpression)
		if !ok {
			return nil
		}
		obj, ok := member.Object.(*jsast.Identifier)
		if !ok {
			return nil
		}
		if _, ok := allowed[obj.Name]; !ok {
			return nil
		}
		prop := member.PropertyName()
		if prop == nil || prop.Name != from {
			return nil
		}
		return prop
	}

	return Rule{
		Name: name,
		Kind: jsast.KindCallExpression,
		Match: func(node jsast.Node) bool {
			return property(node) != nil
		},
		Apply: func(node jsast.Node) {
			property(node).Name = to
		},
	}
}

// CallRename matches from(...) with a bare identifier callee and renames the
// callee to to.
func CallRename(name, from, to string) Rule {
	callee := func(node jsast.Node) *jsast.Identifier {
		call := node.(*jsast.CallExpression)

		ident, ok := call.Callee.(*jsast.Identifier)
		if !ok || ident.Name != from {
			return nil
		}
		return ident
	}

	return Rule{
		Name: name,
		Kind: jsast.KindCallExpression,
		Match: func(node jsast.Node) bool {
			return callee(node) != nil
		},
		Apply: func(node jsast.Node) {
			callee(node).Name = to
		},
	}
}

// BinaryLeftReplace matches any binary expression using op and replaces its
// left operand with a new identifier named placeholder, whatever the operand
// was. The new identifier inherits the span of the operand it replaces.
// Panics when op is not a binary operator.
func BinaryLeftReplace(name string, op jsast.Operator, placeholder string) Rule {
	if !op.IsBinary() {
		panic(fmt.Sprintf("rewrite: %s is not a binary operator", op))
	}

	return Rule{
		Name: name,
		Kind: jsast.KindBinaryExpression,
		Match: func(node jsast.Node) bool {
			return node.(*jsast.BinaryExpression).Operator == op
		},
		Apply: func(node jsast.Node) {
			bin := node.(*jsast.BinaryExpression)
			bin.Left = &jsast.Identifier{
				Name: placeholder,
				Loc:  bin.Left.Span(),
			}
		},
	}
}
