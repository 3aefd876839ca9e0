package jsast

import (
	"fmt"
	"reflect"
)

// MalformedTreeError is the panic value raised by Walk when a required child
// slot is empty. It signals a broken tree handed over by the producer.
type MalformedTreeError struct {
	Parent Kind
	Field  string
}

func (e *MalformedTreeError) Error() string {
	return fmt.Sprintf("malformed tree: %s has no %s", e.Parent, e.Field)
}

// Walk visits node and every node reachable from it exactly once, children
// first (post-order), calling fn for each. Children are read before fn runs
// on their parent, so when fn replaces a child slot the new occupant is not
// visited during this walk.
//
// Optional slots (Alternate, Init, Argument of return) are skipped when nil.
// A nil required slot panics with *MalformedTreeError.
func Walk(node Node, fn func(Node)) {
	switch n := node.(type) {
	case *Program:
		for _, stmt := range n.Body {
			Walk(required(n, "Body element", stmt), fn)
		}

	case *Identifier, *Literal:
		// leaf

	case *MemberExpression:
		Walk(required(n, "Object", n.Object), fn)
		Walk(required(n, "Property", n.Property), fn)

	case *CallExpression:
		Walk(required(n, "Callee", n.Callee), fn)
		for _, arg := range n.Arguments {
			Walk(required(n, "Arguments element", arg), fn)
		}

	case *BinaryExpression:
		Walk(required(n, "Left", n.Left), fn)
		Walk(required(n, "Right", n.Right), fn)

	case *UnaryExpression:
		Walk(required(n, "Argument", n.Argument), fn)

	case *AwaitExpression:
		Walk(required(n, "Argument", n.Argument), fn)

	case *ParenExpression:
		Walk(required(n, "Expression", n.Expression), fn)

	case *AssignmentExpression:
		Walk(required(n, "Target", n.Target), fn)
		Walk(required(n, "Value", n.Value), fn)

	case *ArrayExpression:
		for _, elem := range n.Elements {
			Walk(required(n, "Elements element", elem), fn)
		}

	case *ExpressionStatement:
		Walk(required(n, "Expression", n.Expression), fn)

	case *VariableDeclaration:
		for _, decl := range n.Declarations {
			Walk(required(n, "Declarations element", decl), fn)
		}

	case *VariableDeclarator:
		Walk(required(n, "Name", n.Name), fn)
		if !isNil(n.Init) {
			Walk(n.Init, fn)
		}

	case *IfStatement:
		Walk(required(n, "Test", n.Test), fn)
		Walk(required(n, "Consequent", n.Consequent), fn)
		if !isNil(n.Alternate) {
			Walk(n.Alternate, fn)
		}

	case *BlockStatement:
		for _, stmt := range n.Body {
			Walk(required(n, "Body element", stmt), fn)
		}

	case *ReturnStatement:
		if !isNil(n.Argument) {
			Walk(n.Argument, fn)
		}

	case *FunctionDeclaration:
		Walk(required(n, "Name", n.Name), fn)
		for _, param := range n.Params {
			Walk(required(n, "Params element", param), fn)
		}
		Walk(required(n, "Body", n.Body), fn)

	default:
		panic(fmt.Sprintf("jsast: unexpected node type %T", node))
	}

	fn(node)
}

func required(parent Node, field string, child Node) Node {
	if isNil(child) {
		panic(&MalformedTreeError{Parent: parent.Kind(), Field: field})
	}
	return child
}

// isNil also catches typed nil pointers stored in an interface slot.
func isNil(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
