package jsast

// Kind identifies the concrete type of a Node.
type Kind uint8

const (
	KindProgram Kind = iota
	KindIdentifier
	KindLiteral
	KindMemberExpression
	KindCallExpression
	KindBinaryExpression
	KindUnaryExpression
	KindAwaitExpression
	KindParenExpression
	KindAssignmentExpression
	KindArrayExpression
	KindExpressionStatement
	KindVariableDeclaration
	KindVariableDeclarator
	KindIfStatement
	KindBlockStatement
	KindReturnStatement
	KindFunctionDeclaration
)

var kindNames = map[Kind]string{
	KindProgram:              "Program",
	KindIdentifier:           "Identifier",
	KindLiteral:              "Literal",
	KindMemberExpression:     "MemberExpression",
	KindCallExpression:       "CallExpression",
	KindBinaryExpression:     "BinaryExpression",
	KindUnaryExpression:      "UnaryExpression",
	KindAwaitExpression:      "AwaitExpression",
	KindParenExpression:      "ParenExpression",
	KindAssignmentExpression: "AssignmentExpression",
	KindArrayExpression:      "ArrayExpression",
	KindExpressionStatement:  "ExpressionStatement",
	KindVariableDeclaration:  "VariableDeclaration",
	KindVariableDeclarator:   "VariableDeclarator",
	KindIfStatement:          "IfStatement",
	KindBlockStatement:       "BlockStatement",
	KindReturnStatement:      "ReturnStatement",
	KindFunctionDeclaration:  "FunctionDeclaration",
}

// String returns the name of the node kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Span is a half-open byte range [Start, End) in the source text.
type Span struct {
	Start int
	End   int
}
