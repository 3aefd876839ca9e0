package jsparse

// TokenType represents the type of a token in the supported JavaScript subset.
type TokenType uint8

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenString
	TokenNumber

	// Keywords
	TokenConst
	TokenLet
	TokenVar
	TokenIf
	TokenElse
	TokenReturn
	TokenFunction
	TokenAsync
	TokenAwait
	TokenTrue
	TokenFalse
	TokenNull
	TokenTypeof

	// TokenReserved is a JavaScript keyword outside the supported subset.
	TokenReserved

	// Comparison operators
	TokenEq       // ==
	TokenNe       // !=
	TokenStrictEq // ===
	TokenStrictNe // !==
	TokenLt       // <
	TokenGt       // >
	TokenLe       // <=
	TokenGe       // >=

	// Arithmetic operators
	TokenPlus     // +
	TokenMinus    // -
	TokenAsterisk // *
	TokenSlash    // /
	TokenPercent  // %

	// Logical operators
	TokenAnd // &&
	TokenOr  // ||
	TokenNot // !

	TokenAssign // =

	// Delimiters
	TokenLParen   // (
	TokenRParen   // )
	TokenLBrace   // {
	TokenRBrace   // }
	TokenLBracket // [
	TokenRBracket // ]

	// Separators
	TokenComma     // ,
	TokenSemicolon // ;
	TokenDot       // .

	TokenError // lexer error
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenIdent:     "IDENT",
	TokenString:    "STRING",
	TokenNumber:    "NUMBER",
	TokenConst:     "const",
	TokenLet:       "let",
	TokenVar:       "var",
	TokenIf:        "if",
	TokenElse:      "else",
	TokenReturn:    "return",
	TokenFunction:  "function",
	TokenAsync:     "async",
	TokenAwait:     "await",
	TokenTrue:      "true",
	TokenFalse:     "false",
	TokenNull:      "null",
	TokenTypeof:    "typeof",
	TokenReserved:  "RESERVED",
	TokenEq:        "==",
	TokenNe:        "!=",
	TokenStrictEq:  "===",
	TokenStrictNe:  "!==",
	TokenLt:        "<",
	TokenGt:        ">",
	TokenLe:        "<=",
	TokenGe:        ">=",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenAsterisk:  "*",
	TokenSlash:     "/",
	TokenPercent:   "%",
	TokenAnd:       "&&",
	TokenOr:        "||",
	TokenNot:       "!",
	TokenAssign:    "=",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenLBrace:    "{",
	TokenRBrace:    "}",
	TokenLBracket:  "[",
	TokenRBracket:  "]",
	TokenComma:     ",",
	TokenSemicolon: ";",
	TokenDot:       ".",
	TokenError:     "ERROR",
}

var keywords = map[string]TokenType{
	"const":    TokenConst,
	"let":      TokenLet,
	"var":      TokenVar,
	"if":       TokenIf,
	"else":     TokenElse,
	"return":   TokenReturn,
	"function": TokenFunction,
	"async":    TokenAsync,
	"await":    TokenAwait,
	"true":     TokenTrue,
	"false":    TokenFalse,
	"null":     TokenNull,
	"typeof":   TokenTypeof,
}

// reserved lists the keywords the parser does not support. Lexing them as
// identifiers would split statements such as `new Foo()` or `while (x) {}`
// into unrelated ones.
var reserved = map[string]bool{
	"break":      true,
	"case":       true,
	"catch":      true,
	"class":      true,
	"continue":   true,
	"debugger":   true,
	"default":    true,
	"delete":     true,
	"do":         true,
	"enum":       true,
	"export":     true,
	"extends":    true,
	"finally":    true,
	"for":        true,
	"import":     true,
	"in":         true,
	"instanceof": true,
	"new":        true,
	"super":      true,
	"switch":     true,
	"throw":      true,
	"try":        true,
	"void":       true,
	"while":      true,
	"with":       true,
	"yield":      true,
}

// isPropertyName reports whether tok may follow a dot as a property name.
func isPropertyName(tok Token) bool {
	switch tok.Type {
	case TokenIdent, TokenReserved:
		return true
	}
	_, ok := keywords[tok.Literal]
	return ok
}

// String returns the string representation of a token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Token represents a lexical token. Start and End are byte offsets into the
// input; Value carries the message of a TokenError. NewlineBefore is set when
// a line break separates the token from the previous one.
type Token struct {
	Type          TokenType
	Literal       string
	Start         int
	End           int
	Value         any
	NewlineBefore bool
}
