package jsast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNodeInterfaces(t *testing.T) {
	expressions := []Expression{
		&Identifier{},
		&Literal{},
		&MemberExpression{},
		&CallExpression{},
		&BinaryExpression{},
		&UnaryExpression{},
		&AwaitExpression{},
		&ParenExpression{},
		&AssignmentExpression{},
		&ArrayExpression{},
	}
	for _, expr := range expressions {
		t.Run(expr.Kind().String(), func(t *testing.T) {
			expr.node()
			expr.expression()
			var _ Node = expr
			assert.NotEqual(t, "UNKNOWN", expr.Kind().String())
		})
	}

	statements := []Statement{
		&ExpressionStatement{},
		&VariableDeclaration{},
		&IfStatement{},
		&BlockStatement{},
		&ReturnStatement{},
		&FunctionDeclaration{},
	}
	for _, stmt := range statements {
		t.Run(stmt.Kind().String(), func(t *testing.T) {
			stmt.node()
			stmt.statement()
			var _ Node = stmt
			assert.NotEqual(t, "UNKNOWN", stmt.Kind().String())
		})
	}

	t.Run("Program and VariableDeclarator", func(t *testing.T) {
		var _ Node = &Program{}
		var _ Node = &VariableDeclarator{}
		assert.Equal(t, "Program", KindProgram.String())
		assert.Equal(t, "VariableDeclarator", KindVariableDeclarator.String())
	})
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "CallExpression", KindCallExpression.String())
	assert.Equal(t, "UNKNOWN", Kind(255).String())
}

func TestSpan(t *testing.T) {
	id := &Identifier{Name: "a", Loc: Span{Start: 4, End: 5}}
	assert.Equal(t, Span{Start: 4, End: 5}, id.Span())
}

func TestPropertyName(t *testing.T) {
	t.Run("plain property", func(t *testing.T) {
		m := &MemberExpression{Object: ident("window"), Property: ident("fetch")}
		assert.Equal(t, "fetch", m.PropertyName().Name)
	})

	t.Run("computed property", func(t *testing.T) {
		m := &MemberExpression{
			Object:   ident("window"),
			Property: &Literal{LitKind: LiteralString, Raw: `"fetch"`},
			Computed: true,
		}
		assert.Nil(t, m.PropertyName())
	})

	t.Run("computed identifier", func(t *testing.T) {
		m := &MemberExpression{Object: ident("window"), Property: ident("key"), Computed: true}
		assert.Nil(t, m.PropertyName())
	})
}

func TestOperator(t *testing.T) {
	tests := []struct {
		op     Operator
		text   string
		binary bool
	}{
		{OpEq, "==", true},
		{OpStrictEq, "===", true},
		{OpStrictNe, "!==", true},
		{OpLogicalOr, "||", true},
		{OpNot, "!", false},
		{OpNeg, "-", false},
		{OpTypeof, "typeof", false},
		{OpInvalid, "INVALID", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.text, tt.op.String())
			assert.Equal(t, tt.binary, tt.op.IsBinary())
		})
	}
}

func TestDeclKindString(t *testing.T) {
	assert.Equal(t, "var", DeclVar.String())
	assert.Equal(t, "let", DeclLet.String())
	assert.Equal(t, "const", DeclConst.String())
}
