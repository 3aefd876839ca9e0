package jsparse

import (
	"fmt"

	"github.com/vitalvas/jsrewrite/jsast"
)

// Operator precedence levels for parsing expressions.
// Precedence order (lowest to highest): ASSIGN < OR < AND < EQUALS < COMPARE < SUM < PRODUCT < PREFIX < POSTFIX
const (
	_ int = iota
	LOWEST
	ASSIGN
	OR
	AND
	EQUALS
	COMPARE
	SUM
	PRODUCT
	PREFIX
	POSTFIX
)

var precedences = map[TokenType]int{
	TokenAssign:   ASSIGN,
	TokenOr:       OR,
	TokenAnd:      AND,
	TokenEq:       EQUALS,
	TokenNe:       EQUALS,
	TokenStrictEq: EQUALS,
	TokenStrictNe: EQUALS,
	TokenLt:       COMPARE,
	TokenGt:       COMPARE,
	TokenLe:       COMPARE,
	TokenGe:       COMPARE,
	TokenPlus:     SUM,
	TokenMinus:    SUM,
	TokenAsterisk: PRODUCT,
	TokenSlash:    PRODUCT,
	TokenPercent:  PRODUCT,
	TokenLParen:   POSTFIX,
	TokenLBracket: POSTFIX,
	TokenDot:      POSTFIX,
}

var binaryOperators = map[TokenType]jsast.Operator{
	TokenEq:       jsast.OpEq,
	TokenNe:       jsast.OpNe,
	TokenStrictEq: jsast.OpStrictEq,
	TokenStrictNe: jsast.OpStrictNe,
	TokenLt:       jsast.OpLt,
	TokenGt:       jsast.OpGt,
	TokenLe:       jsast.OpLe,
	TokenGe:       jsast.OpGe,
	TokenPlus:     jsast.OpAdd,
	TokenMinus:    jsast.OpSub,
	TokenAsterisk: jsast.OpMul,
	TokenSlash:    jsast.OpDiv,
	TokenPercent:  jsast.OpMod,
	TokenAnd:      jsast.OpLogicalAnd,
	TokenOr:       jsast.OpLogicalOr,
}

var unaryOperators = map[TokenType]jsast.Operator{
	TokenNot:    jsast.OpNot,
	TokenMinus:  jsast.OpNeg,
	TokenPlus:   jsast.OpPos,
	TokenTypeof: jsast.OpTypeof,
}

// Parser parses tokens from a lexer into a syntax tree.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	errors    []string
}

// NewParser creates a new parser for the given lexer.
func NewParser(lexer *Lexer) *Parser {
	p := &Parser{lexer: lexer}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseString parses source text into a Program.
func ParseString(src string) (*jsast.Program, error) {
	return NewParser(NewLexer(src)).Parse()
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

// Errors returns the list of parsing errors encountered.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(tok Token, format string, args ...any) {
	line, col := position(p.lexer.input, tok.Start)
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", line, col, fmt.Sprintf(format, args...)))
}

func (p *Parser) addTokenError(tok Token) {
	if errMsg, ok := tok.Value.(string); ok {
		p.addError(tok, "lexer error: %s", errMsg)
	} else {
		p.addError(tok, "lexer error at: %s", tok.Literal)
	}
}

// expectPeek advances when the next token has type t and records an error otherwise.
func (p *Parser) expectPeek(t TokenType) bool {
	if p.peekToken.Type == t {
		p.nextToken()
		return true
	}
	if p.peekToken.Type == TokenError {
		p.addTokenError(p.peekToken)
	} else {
		p.addError(p.peekToken, "expected %s, got %s", t, p.peekToken.Type)
	}
	return false
}

// Parse parses the whole input and returns the program.
// Returns an error if any statement fails to parse.
func (p *Parser) Parse() (*jsast.Program, error) {
	prog := &jsast.Program{
		Body: []jsast.Statement{},
		Loc:  jsast.Span{Start: 0, End: len(p.lexer.input)},
	}

	for p.curToken.Type != TokenEOF {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Body = append(prog.Body, stmt)
		}
		p.nextToken()
	}

	if len(p.errors) > 0 {
		return nil, fmt.Errorf("parse errors: %v", p.errors)
	}
	return prog, nil
}

func (p *Parser) span(start Token) jsast.Span {
	return jsast.Span{Start: start.Start, End: p.curToken.End}
}

func (p *Parser) parseStatement() jsast.Statement {
	switch p.curToken.Type {
	case TokenSemicolon:
		return nil
	case TokenConst, TokenLet, TokenVar:
		return p.parseVariableDeclaration()
	case TokenIf:
		return p.parseIfStatement()
	case TokenLBrace:
		return p.parseBlockStatement()
	case TokenReturn:
		return p.parseReturnStatement()
	case TokenFunction:
		return p.parseFunctionDeclaration()
	case TokenAsync:
		if p.peekToken.Type == TokenFunction {
			return p.parseFunctionDeclaration()
		}
	}
	return p.parseExpressionStatement()
}

// endStatement consumes an optional trailing semicolon. Without one the
// statement must be followed by a line break, a closing brace or the end of
// input.
func (p *Parser) endStatement() bool {
	switch {
	case p.peekToken.Type == TokenSemicolon:
		p.nextToken()
	case p.peekToken.Type == TokenRBrace, p.peekToken.Type == TokenEOF, p.peekToken.NewlineBefore:
	case p.peekToken.Type == TokenError:
		p.addTokenError(p.peekToken)
		return false
	default:
		p.addError(p.peekToken, "unexpected %s after statement", describe(p.peekToken))
		return false
	}
	return true
}

// nestedStatement parses the body of an if or else branch, which must not be
// empty.
func (p *Parser) nestedStatement() jsast.Statement {
	if p.curToken.Type == TokenSemicolon {
		p.addError(p.curToken, "empty statement is not supported")
		return nil
	}
	return p.parseStatement()
}

func describe(tok Token) string {
	switch tok.Type {
	case TokenIdent, TokenReserved, TokenNumber, TokenString:
		return fmt.Sprintf("%s %q", tok.Type, tok.Literal)
	}
	return tok.Type.String()
}

func (p *Parser) parseVariableDeclaration() jsast.Statement {
	start := p.curToken
	decl := &jsast.VariableDeclaration{}

	switch start.Type {
	case TokenConst:
		decl.DeclKind = jsast.DeclConst
	case TokenLet:
		decl.DeclKind = jsast.DeclLet
	default:
		decl.DeclKind = jsast.DeclVar
	}

	for {
		if !p.expectPeek(TokenIdent) {
			return nil
		}

		declStart := p.curToken
		declarator := &jsast.VariableDeclarator{
			Name: &jsast.Identifier{Name: p.curToken.Literal, Loc: p.span(p.curToken)},
		}

		if p.peekToken.Type == TokenAssign {
			p.nextToken()
			p.nextToken()
			declarator.Init = p.parseExpression(LOWEST)
			if declarator.Init == nil {
				return nil
			}
		}

		declarator.Loc = p.span(declStart)
		decl.Declarations = append(decl.Declarations, declarator)

		if p.peekToken.Type != TokenComma {
			break
		}
		p.nextToken()
	}

	if !p.endStatement() {
		return nil
	}
	decl.Loc = p.span(start)
	return decl
}

func (p *Parser) parseIfStatement() jsast.Statement {
	start := p.curToken

	if !p.expectPeek(TokenLParen) {
		return nil
	}
	p.nextToken()

	test := p.parseExpression(LOWEST)
	if test == nil || !p.expectPeek(TokenRParen) {
		return nil
	}
	p.nextToken()

	consequent := p.nestedStatement()
	if consequent == nil {
		return nil
	}

	stmt := &jsast.IfStatement{Test: test, Consequent: consequent}

	if p.peekToken.Type == TokenElse {
		p.nextToken()
		p.nextToken()
		stmt.Alternate = p.nestedStatement()
		if stmt.Alternate == nil {
			return nil
		}
	}

	stmt.Loc = p.span(start)
	return stmt
}

func (p *Parser) parseBlockStatement() jsast.Statement {
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	return block
}

func (p *Parser) parseBlock() *jsast.BlockStatement {
	start := p.curToken
	block := &jsast.BlockStatement{Body: []jsast.Statement{}}

	p.nextToken()
	for p.curToken.Type != TokenRBrace && p.curToken.Type != TokenEOF {
		if stmt := p.parseStatement(); stmt != nil {
			block.Body = append(block.Body, stmt)
		}
		p.nextToken()
	}

	if p.curToken.Type != TokenRBrace {
		p.addError(p.curToken, "expected }, got %s", p.curToken.Type)
		return nil
	}

	block.Loc = p.span(start)
	return block
}

func (p *Parser) parseReturnStatement() jsast.Statement {
	start := p.curToken
	stmt := &jsast.ReturnStatement{}

	// A line break after return ends the statement.
	switch {
	case p.peekToken.NewlineBefore:
	case p.peekToken.Type == TokenSemicolon, p.peekToken.Type == TokenRBrace, p.peekToken.Type == TokenEOF:
	default:
		p.nextToken()
		stmt.Argument = p.parseExpression(LOWEST)
		if stmt.Argument == nil {
			return nil
		}
	}

	if !p.endStatement() {
		return nil
	}
	stmt.Loc = p.span(start)
	return stmt
}

func (p *Parser) parseFunctionDeclaration() jsast.Statement {
	start := p.curToken
	fn := &jsast.FunctionDeclaration{}

	if p.curToken.Type == TokenAsync {
		fn.Async = true
		p.nextToken()
	}

	if !p.expectPeek(TokenIdent) {
		return nil
	}
	fn.Name = &jsast.Identifier{Name: p.curToken.Literal, Loc: p.span(p.curToken)}

	if !p.expectPeek(TokenLParen) {
		return nil
	}

	fn.Params = []*jsast.Identifier{}
	if p.peekToken.Type != TokenRParen {
		for {
			if !p.expectPeek(TokenIdent) {
				return nil
			}
			fn.Params = append(fn.Params, &jsast.Identifier{Name: p.curToken.Literal, Loc: p.span(p.curToken)})

			if p.peekToken.Type != TokenComma {
				break
			}
			p.nextToken()
		}
	}

	if !p.expectPeek(TokenRParen) || !p.expectPeek(TokenLBrace) {
		return nil
	}

	fn.Body = p.parseBlock()
	if fn.Body == nil {
		return nil
	}

	fn.Loc = p.span(start)
	return fn
}

func (p *Parser) parseExpressionStatement() jsast.Statement {
	start := p.curToken

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.endStatement() {
		return nil
	}
	return &jsast.ExpressionStatement{Expression: expr, Loc: p.span(start)}
}

func (p *Parser) parseExpression(precedence int) jsast.Expression {
	var left jsast.Expression

	switch p.curToken.Type {
	case TokenError:
		p.addTokenError(p.curToken)
		return nil
	case TokenIdent:
		left = &jsast.Identifier{Name: p.curToken.Literal, Loc: p.span(p.curToken)}
	case TokenString:
		left = p.parseLiteral(jsast.LiteralString)
	case TokenNumber:
		left = p.parseLiteral(jsast.LiteralNumber)
	case TokenTrue, TokenFalse:
		left = p.parseLiteral(jsast.LiteralBoolean)
	case TokenNull:
		left = p.parseLiteral(jsast.LiteralNull)
	case TokenLParen:
		left = p.parseParenExpression()
	case TokenLBracket:
		left = p.parseArrayExpression()
	case TokenNot, TokenMinus, TokenPlus, TokenTypeof:
		left = p.parseUnaryExpression()
	case TokenAwait:
		left = p.parseAwaitExpression()
	case TokenReserved:
		p.addError(p.curToken, "unsupported keyword: %s", p.curToken.Literal)
		return nil
	default:
		p.addError(p.curToken, "unexpected token: %s", p.curToken.Type)
		return nil
	}

	for left != nil && precedence < p.peekPrecedence() {
		p.nextToken()

		switch p.curToken.Type {
		case TokenDot:
			left = p.parseMemberExpression(left)
		case TokenLBracket:
			left = p.parseComputedMemberExpression(left)
		case TokenLParen:
			left = p.parseCallExpression(left)
		case TokenAssign:
			left = p.parseAssignmentExpression(left)
		default:
			left = p.parseBinaryExpression(left)
		}
	}

	return left
}

func (p *Parser) parseLiteral(kind jsast.LiteralKind) jsast.Expression {
	return &jsast.Literal{LitKind: kind, Raw: p.curToken.Literal, Loc: p.span(p.curToken)}
}

func (p *Parser) parseParenExpression() jsast.Expression {
	start := p.curToken
	p.nextToken()

	expr := p.parseExpression(LOWEST)
	if expr == nil || !p.expectPeek(TokenRParen) {
		return nil
	}

	return &jsast.ParenExpression{Expression: expr, Loc: p.span(start)}
}

func (p *Parser) parseArrayExpression() jsast.Expression {
	start := p.curToken

	elements, ok := p.parseExpressionList(TokenRBracket)
	if !ok {
		return nil
	}

	return &jsast.ArrayExpression{Elements: elements, Loc: p.span(start)}
}

// parseExpressionList parses comma separated expressions up to the closing token.
// The current token is the opening delimiter; on return it is the closing one.
func (p *Parser) parseExpressionList(end TokenType) ([]jsast.Expression, bool) {
	list := []jsast.Expression{}

	if p.peekToken.Type == end {
		p.nextToken()
		return list, true
	}

	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)

	for p.peekToken.Type == TokenComma {
		p.nextToken()
		if p.peekToken.Type == end {
			// trailing comma
			break
		}
		p.nextToken()
		expr = p.parseExpression(LOWEST)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil, false
	}

	return list, true
}

func (p *Parser) parseUnaryExpression() jsast.Expression {
	start := p.curToken
	operator := unaryOperators[start.Type]

	p.nextToken()
	argument := p.parseExpression(PREFIX)
	if argument == nil {
		return nil
	}

	return &jsast.UnaryExpression{Operator: operator, Argument: argument, Loc: p.span(start)}
}

func (p *Parser) parseAwaitExpression() jsast.Expression {
	start := p.curToken

	p.nextToken()
	argument := p.parseExpression(PREFIX)
	if argument == nil {
		return nil
	}

	return &jsast.AwaitExpression{Argument: argument, Loc: p.span(start)}
}

func (p *Parser) parseMemberExpression(object jsast.Expression) jsast.Expression {
	// Keywords are valid property names (e.g., promise.catch, obj.if).
	if p.peekToken.Type == TokenError || !isPropertyName(p.peekToken) {
		p.addError(p.peekToken, "expected property name, got %s", p.peekToken.Type)
		return nil
	}
	p.nextToken()

	property := &jsast.Identifier{Name: p.curToken.Literal, Loc: p.span(p.curToken)}
	return &jsast.MemberExpression{
		Object:   object,
		Property: property,
		Loc:      jsast.Span{Start: object.Span().Start, End: p.curToken.End},
	}
}

func (p *Parser) parseComputedMemberExpression(object jsast.Expression) jsast.Expression {
	p.nextToken()

	property := p.parseExpression(LOWEST)
	if property == nil || !p.expectPeek(TokenRBracket) {
		return nil
	}

	return &jsast.MemberExpression{
		Object:   object,
		Property: property,
		Computed: true,
		Loc:      jsast.Span{Start: object.Span().Start, End: p.curToken.End},
	}
}

func (p *Parser) parseCallExpression(callee jsast.Expression) jsast.Expression {
	args, ok := p.parseExpressionList(TokenRParen)
	if !ok {
		return nil
	}

	return &jsast.CallExpression{
		Callee:    callee,
		Arguments: args,
		Loc:       jsast.Span{Start: callee.Span().Start, End: p.curToken.End},
	}
}

func (p *Parser) parseAssignmentExpression(target jsast.Expression) jsast.Expression {
	switch t := target.(type) {
	case *jsast.Identifier:
	case *jsast.MemberExpression:
	default:
		p.addError(p.curToken, "invalid assignment target: %s", t.Kind())
		return nil
	}

	p.nextToken()
	// right-associative: a = b = c
	value := p.parseExpression(ASSIGN - 1)
	if value == nil {
		return nil
	}

	return &jsast.AssignmentExpression{
		Target: target,
		Value:  value,
		Loc:    jsast.Span{Start: target.Span().Start, End: p.curToken.End},
	}
}

func (p *Parser) parseBinaryExpression(left jsast.Expression) jsast.Expression {
	operator := binaryOperators[p.curToken.Type]
	precedence := p.curPrecedence()

	p.nextToken()
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}

	return &jsast.BinaryExpression{
		Left:     left,
		Operator: operator,
		Right:    right,
		Loc:      jsast.Span{Start: left.Span().Start, End: p.curToken.End},
	}
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}
