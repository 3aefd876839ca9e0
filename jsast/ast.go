// Package jsast defines the syntax tree rewritten by package rewrite.
//
// The node set is closed: every type implementing Node lives in this package,
// and Walk handles each of them explicitly. Each non-root node is owned by
// exactly one parent slot (a field or a slice element); replacing a child
// means assigning a new value to that slot.
package jsast

// Node is the base interface for all syntax tree nodes.
type Node interface {
	Kind() Kind
	Span() Span
	node()
}

// Expression represents an expression node.
type Expression interface {
	Node
	expression()
}

// Statement represents a statement node.
type Statement interface {
	Node
	statement()
}

// Program is the root of a parsed source file.
type Program struct {
	Body []Statement
	Loc  Span
}

func (p *Program) Kind() Kind { return KindProgram }
func (p *Program) Span() Span { return p.Loc }
func (p *Program) node()      {}

// Identifier is a bare name reference (e.g., fetch, window).
type Identifier struct {
	Name string
	Loc  Span
}

func (i *Identifier) Kind() Kind  { return KindIdentifier }
func (i *Identifier) Span() Span  { return i.Loc }
func (i *Identifier) node()       {}
func (i *Identifier) expression() {}

// LiteralKind distinguishes literal values.
type LiteralKind uint8

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBoolean
	LiteralNull
)

// Literal is a primitive value. Raw holds the source text including quotes.
type Literal struct {
	LitKind LiteralKind
	Raw     string
	Loc     Span
}

func (l *Literal) Kind() Kind  { return KindLiteral }
func (l *Literal) Span() Span  { return l.Loc }
func (l *Literal) node()       {}
func (l *Literal) expression() {}

// MemberExpression is a property access (e.g., window.fetch, list[0]).
// When Computed is false, Property is an *Identifier.
type MemberExpression struct {
	Object   Expression
	Property Expression
	Computed bool
	Loc      Span
}

func (m *MemberExpression) Kind() Kind  { return KindMemberExpression }
func (m *MemberExpression) Span() Span  { return m.Loc }
func (m *MemberExpression) node()       {}
func (m *MemberExpression) expression() {}

// PropertyName returns the plain property identifier, or nil for computed access.
func (m *MemberExpression) PropertyName() *Identifier {
	if m.Computed {
		return nil
	}
	ident, _ := m.Property.(*Identifier)
	return ident
}

// CallExpression is a function call (e.g., fetch(url)).
type CallExpression struct {
	Callee    Expression
	Arguments []Expression
	Loc       Span
}

func (c *CallExpression) Kind() Kind  { return KindCallExpression }
func (c *CallExpression) Span() Span  { return c.Loc }
func (c *CallExpression) node()       {}
func (c *CallExpression) expression() {}

// BinaryExpression represents a binary expression (e.g., left === right).
type BinaryExpression struct {
	Left     Expression
	Operator Operator
	Right    Expression
	Loc      Span
}

func (b *BinaryExpression) Kind() Kind  { return KindBinaryExpression }
func (b *BinaryExpression) Span() Span  { return b.Loc }
func (b *BinaryExpression) node()       {}
func (b *BinaryExpression) expression() {}

// UnaryExpression represents a prefix operator (e.g., !ok, typeof x).
type UnaryExpression struct {
	Operator Operator
	Argument Expression
	Loc      Span
}

func (u *UnaryExpression) Kind() Kind  { return KindUnaryExpression }
func (u *UnaryExpression) Span() Span  { return u.Loc }
func (u *UnaryExpression) node()       {}
func (u *UnaryExpression) expression() {}

// AwaitExpression represents await <argument>.
type AwaitExpression struct {
	Argument Expression
	Loc      Span
}

func (a *AwaitExpression) Kind() Kind  { return KindAwaitExpression }
func (a *AwaitExpression) Span() Span  { return a.Loc }
func (a *AwaitExpression) node()       {}
func (a *AwaitExpression) expression() {}

// ParenExpression keeps source parentheses so that re-emission is faithful.
type ParenExpression struct {
	Expression Expression
	Loc        Span
}

func (p *ParenExpression) Kind() Kind  { return KindParenExpression }
func (p *ParenExpression) Span() Span  { return p.Loc }
func (p *ParenExpression) node()       {}
func (p *ParenExpression) expression() {}

// AssignmentExpression represents target = value.
type AssignmentExpression struct {
	Target Expression
	Value  Expression
	Loc    Span
}

func (a *AssignmentExpression) Kind() Kind  { return KindAssignmentExpression }
func (a *AssignmentExpression) Span() Span  { return a.Loc }
func (a *AssignmentExpression) node()       {}
func (a *AssignmentExpression) expression() {}

// ArrayExpression represents an array literal (e.g., [1, 2, 3]).
type ArrayExpression struct {
	Elements []Expression
	Loc      Span
}

func (a *ArrayExpression) Kind() Kind  { return KindArrayExpression }
func (a *ArrayExpression) Span() Span  { return a.Loc }
func (a *ArrayExpression) node()       {}
func (a *ArrayExpression) expression() {}

// ExpressionStatement is an expression evaluated for its effect.
type ExpressionStatement struct {
	Expression Expression
	Loc        Span
}

func (e *ExpressionStatement) Kind() Kind { return KindExpressionStatement }
func (e *ExpressionStatement) Span() Span { return e.Loc }
func (e *ExpressionStatement) node()      {}
func (e *ExpressionStatement) statement() {}

// DeclKind is the keyword of a variable declaration.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
)

func (d DeclKind) String() string {
	switch d {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	default:
		return "var"
	}
}

// VariableDeclaration represents const/let/var with one or more declarators.
type VariableDeclaration struct {
	DeclKind     DeclKind
	Declarations []*VariableDeclarator
	Loc          Span
}

func (v *VariableDeclaration) Kind() Kind { return KindVariableDeclaration }
func (v *VariableDeclaration) Span() Span { return v.Loc }
func (v *VariableDeclaration) node()      {}
func (v *VariableDeclaration) statement() {}

// VariableDeclarator binds Name to an optional Init.
type VariableDeclarator struct {
	Name *Identifier
	Init Expression
	Loc  Span
}

func (v *VariableDeclarator) Kind() Kind { return KindVariableDeclarator }
func (v *VariableDeclarator) Span() Span { return v.Loc }
func (v *VariableDeclarator) node()      {}

// IfStatement represents if (test) consequent [else alternate].
type IfStatement struct {
	Test       Expression
	Consequent Statement
	Alternate  Statement
	Loc        Span
}

func (i *IfStatement) Kind() Kind { return KindIfStatement }
func (i *IfStatement) Span() Span { return i.Loc }
func (i *IfStatement) node()      {}
func (i *IfStatement) statement() {}

// BlockStatement is a braced statement list.
type BlockStatement struct {
	Body []Statement
	Loc  Span
}

func (b *BlockStatement) Kind() Kind { return KindBlockStatement }
func (b *BlockStatement) Span() Span { return b.Loc }
func (b *BlockStatement) node()      {}
func (b *BlockStatement) statement() {}

// ReturnStatement represents return [argument].
type ReturnStatement struct {
	Argument Expression
	Loc      Span
}

func (r *ReturnStatement) Kind() Kind { return KindReturnStatement }
func (r *ReturnStatement) Span() Span { return r.Loc }
func (r *ReturnStatement) node()      {}
func (r *ReturnStatement) statement() {}

// FunctionDeclaration represents [async] function name(params) { body }.
type FunctionDeclaration struct {
	Async  bool
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
	Loc    Span
}

func (f *FunctionDeclaration) Kind() Kind { return KindFunctionDeclaration }
func (f *FunctionDeclaration) Span() Span { return f.Loc }
func (f *FunctionDeclaration) node()      {}
func (f *FunctionDeclaration) statement() {}
