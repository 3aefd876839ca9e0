package jsparse

// Lexer tokenizes JavaScript source text into tokens.
type Lexer struct {
	input string
	pos   int
	ch    byte
	// newline is set when the whitespace before the current token held a
	// line break.
	newline bool
}

// NewLexer creates a new lexer for the given input string.
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

// atEOF reports whether the input is exhausted. A NUL byte inside the input
// is not the end.
func (l *Lexer) atEOF() bool {
	return l.pos > len(l.input)
}

func (l *Lexer) peekChar() byte {
	return l.peekCharAt(0)
}

func (l *Lexer) peekCharAt(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.atEOF():
			return
		case l.ch == '\n':
			l.newline = true
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && !l.atEOF() {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for !l.atEOF() && !(l.ch == '*' && l.peekChar() == '/') {
				if l.ch == '\n' {
					l.newline = true
				}
				l.readChar()
			}
			if !l.atEOF() {
				l.readChar()
				l.readChar()
			}
		default:
			return
		}
	}
}

// readOperatorToken handles multi-character operators.
func (l *Lexer) readOperatorToken() (Token, bool) {
	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				return Token{Type: TokenStrictEq, Literal: "==="}, true
			}
			return Token{Type: TokenEq, Literal: "=="}, true
		}
		return Token{Type: TokenAssign, Literal: "="}, true
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			if l.peekChar() == '=' {
				l.readChar()
				return Token{Type: TokenStrictNe, Literal: "!=="}, true
			}
			return Token{Type: TokenNe, Literal: "!="}, true
		}
		return Token{Type: TokenNot, Literal: "!"}, true
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			return Token{Type: TokenLe, Literal: "<="}, true
		}
		return Token{Type: TokenLt, Literal: "<"}, true
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			return Token{Type: TokenGe, Literal: ">="}, true
		}
		return Token{Type: TokenGt, Literal: ">"}, true
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			return Token{Type: TokenAnd, Literal: "&&"}, true
		}
	case '+', '-':
		if l.peekChar() == l.ch {
			l.readChar()
			literal := l.input[l.pos-2 : l.pos]
			return Token{Type: TokenError, Literal: literal, Value: "unsupported operator: " + literal}, true
		}
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			return Token{Type: TokenOr, Literal: "||"}, true
		}
	}
	return Token{}, false
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() Token {
	l.newline = false
	l.skipWhitespace()

	start := l.pos - 1
	if l.atEOF() {
		return Token{Type: TokenEOF, Start: len(l.input), End: len(l.input), NewlineBefore: l.newline}
	}

	tok := l.scan()
	tok.Start = start
	tok.End = l.pos - 1
	tok.NewlineBefore = l.newline
	return tok
}

func (l *Lexer) scan() Token {
	if tok, ok := l.readOperatorToken(); ok {
		l.readChar()
		return tok
	}

	var tok Token

	switch l.ch {
	case '(':
		tok = Token{Type: TokenLParen, Literal: "("}
	case ')':
		tok = Token{Type: TokenRParen, Literal: ")"}
	case '{':
		tok = Token{Type: TokenLBrace, Literal: "{"}
	case '}':
		tok = Token{Type: TokenRBrace, Literal: "}"}
	case '[':
		tok = Token{Type: TokenLBracket, Literal: "["}
	case ']':
		tok = Token{Type: TokenRBracket, Literal: "]"}
	case ',':
		tok = Token{Type: TokenComma, Literal: ","}
	case ';':
		tok = Token{Type: TokenSemicolon, Literal: ";"}
	case '+':
		tok = Token{Type: TokenPlus, Literal: "+"}
	case '-':
		tok = Token{Type: TokenMinus, Literal: "-"}
	case '*':
		tok = Token{Type: TokenAsterisk, Literal: "*"}
	case '/':
		tok = Token{Type: TokenSlash, Literal: "/"}
	case '%':
		tok = Token{Type: TokenPercent, Literal: "%"}
	case '\'', '"':
		literal, ok := l.readString(l.ch)
		if !ok {
			return Token{Type: TokenError, Literal: literal, Value: "unterminated string"}
		}
		tok = Token{Type: TokenString, Literal: literal}
	case '.':
		if isDigit(l.peekChar()) {
			return Token{Type: TokenNumber, Literal: l.readNumber()}
		}
		tok = Token{Type: TokenDot, Literal: "."}
	default:
		switch {
		case isIdentStart(l.ch):
			literal := l.readIdentifier()
			if kw, ok := keywords[literal]; ok {
				return Token{Type: kw, Literal: literal}
			}
			if reserved[literal] {
				return Token{Type: TokenReserved, Literal: literal}
			}
			return Token{Type: TokenIdent, Literal: literal}
		case isDigit(l.ch):
			return Token{Type: TokenNumber, Literal: l.readNumber()}
		case l.ch == 0:
			tok = Token{Type: TokenError, Literal: "\x00", Value: "unexpected NUL character"}
		default:
			tok = Token{Type: TokenError, Literal: string(l.ch), Value: "unexpected character: " + string(l.ch)}
		}
	}

	l.readChar()
	return tok
}

// readString scans a quoted string and returns it including both quotes.
// On success the lexer is left on the closing quote.
func (l *Lexer) readString(quote byte) (string, bool) {
	start := l.pos - 1
	l.readChar()

	for l.ch != quote {
		if l.atEOF() || l.ch == '\n' {
			return l.input[start : l.pos-1], false
		}
		if l.ch == '\\' {
			l.readChar()
			if l.atEOF() {
				return l.input[start : l.pos-1], false
			}
		}
		l.readChar()
	}

	return l.input[start:l.pos], true
}

func (l *Lexer) readIdentifier() string {
	start := l.pos - 1
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[start : l.pos-1]
}

func (l *Lexer) readNumber() string {
	start := l.pos - 1

	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isDigit(l.ch) || isHexChar(l.ch) {
			l.readChar()
		}
		return l.input[start : l.pos-1]
	}

	for isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekCharAt(1))) {
			l.readChar()
			l.readChar()
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return l.input[start : l.pos-1]
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// isHexChar checks if the byte is a hex letter (a-f, A-F).
func isHexChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// position converts a byte offset into a 1-based line and column.
func position(input string, offset int) (int, int) {
	if offset > len(input) {
		offset = len(input)
	}
	line, col := 1, 1
	for i := 0; i < offset; i++ {
		if input[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}
