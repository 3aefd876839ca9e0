package jsparse

import (
	"fmt"
	"strings"

	"github.com/vitalvas/jsrewrite/jsast"
)

const indentUnit = "    "

// Print renders a node as JavaScript source in canonical layout: one
// statement per line, four-space indentation, semicolons after simple
// statements. Parentheses come only from ParenExpression nodes.
func Print(node jsast.Node) string {
	pr := &printer{}
	pr.node(node)
	return pr.buf.String()
}

type printer struct {
	buf    strings.Builder
	indent int
}

func (pr *printer) write(s string) {
	pr.buf.WriteString(s)
}

func (pr *printer) writeIndent() {
	for i := 0; i < pr.indent; i++ {
		pr.buf.WriteString(indentUnit)
	}
}

func (pr *printer) node(node jsast.Node) {
	switch n := node.(type) {
	case *jsast.Program:
		for _, stmt := range n.Body {
			pr.statement(stmt)
			pr.write("\n")
		}
	case *jsast.VariableDeclarator:
		pr.declarator(n)
	case jsast.Statement:
		pr.statement(n)
	case jsast.Expression:
		pr.expression(n)
	default:
		panic(fmt.Sprintf("jsparse: cannot print %T", node))
	}
}

func (pr *printer) statement(stmt jsast.Statement) {
	switch s := stmt.(type) {
	case *jsast.ExpressionStatement:
		pr.expression(s.Expression)
		pr.write(";")

	case *jsast.VariableDeclaration:
		pr.write(s.DeclKind.String())
		pr.write(" ")
		for i, decl := range s.Declarations {
			if i > 0 {
				pr.write(", ")
			}
			pr.declarator(decl)
		}
		pr.write(";")

	case *jsast.IfStatement:
		pr.write("if (")
		pr.expression(s.Test)
		pr.write(") ")
		pr.statement(s.Consequent)
		if s.Alternate != nil {
			pr.write(" else ")
			pr.statement(s.Alternate)
		}

	case *jsast.BlockStatement:
		pr.block(s)

	case *jsast.ReturnStatement:
		pr.write("return")
		if s.Argument != nil {
			pr.write(" ")
			pr.expression(s.Argument)
		}
		pr.write(";")

	case *jsast.FunctionDeclaration:
		if s.Async {
			pr.write("async ")
		}
		pr.write("function ")
		pr.write(s.Name.Name)
		pr.write("(")
		for i, param := range s.Params {
			if i > 0 {
				pr.write(", ")
			}
			pr.write(param.Name)
		}
		pr.write(") ")
		pr.block(s.Body)

	default:
		panic(fmt.Sprintf("jsparse: cannot print statement %T", stmt))
	}
}

func (pr *printer) declarator(decl *jsast.VariableDeclarator) {
	pr.write(decl.Name.Name)
	if decl.Init != nil {
		pr.write(" = ")
		pr.expression(decl.Init)
	}
}

func (pr *printer) block(b *jsast.BlockStatement) {
	if len(b.Body) == 0 {
		pr.write("{}")
		return
	}

	pr.write("{\n")
	pr.indent++
	for _, stmt := range b.Body {
		pr.writeIndent()
		pr.statement(stmt)
		pr.write("\n")
	}
	pr.indent--
	pr.writeIndent()
	pr.write("}")
}

func (pr *printer) expression(expr jsast.Expression) {
	switch e := expr.(type) {
	case *jsast.Identifier:
		pr.write(e.Name)

	case *jsast.Literal:
		pr.write(e.Raw)

	case *jsast.MemberExpression:
		pr.expression(e.Object)
		if e.Computed {
			pr.write("[")
			pr.expression(e.Property)
			pr.write("]")
		} else {
			pr.write(".")
			pr.expression(e.Property)
		}

	case *jsast.CallExpression:
		pr.expression(e.Callee)
		pr.write("(")
		pr.list(e.Arguments)
		pr.write(")")

	case *jsast.BinaryExpression:
		pr.expression(e.Left)
		pr.write(" ")
		pr.write(e.Operator.String())
		pr.write(" ")
		pr.expression(e.Right)

	case *jsast.UnaryExpression:
		pr.write(e.Operator.String())
		if e.Operator == jsast.OpTypeof || needsSpaceAfterSign(e) {
			pr.write(" ")
		}
		pr.expression(e.Argument)

	case *jsast.AwaitExpression:
		pr.write("await ")
		pr.expression(e.Argument)

	case *jsast.ParenExpression:
		pr.write("(")
		pr.expression(e.Expression)
		pr.write(")")

	case *jsast.AssignmentExpression:
		pr.expression(e.Target)
		pr.write(" = ")
		pr.expression(e.Value)

	case *jsast.ArrayExpression:
		pr.write("[")
		pr.list(e.Elements)
		pr.write("]")

	default:
		panic(fmt.Sprintf("jsparse: cannot print expression %T", expr))
	}
}

func (pr *printer) list(exprs []jsast.Expression) {
	for i, expr := range exprs {
		if i > 0 {
			pr.write(", ")
		}
		pr.expression(expr)
	}
}

// needsSpaceAfterSign keeps "- -x" from printing as the decrement "--x".
func needsSpaceAfterSign(u *jsast.UnaryExpression) bool {
	inner, ok := u.Argument.(*jsast.UnaryExpression)
	if !ok {
		return false
	}
	sign := u.Operator.String()
	return (u.Operator == jsast.OpNeg || u.Operator == jsast.OpPos) && inner.Operator.String() == sign
}
