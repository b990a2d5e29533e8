// Package lexer tokenizes expression source text.
//
// Expressions are single-line, so the lexer tracks columns only. Unknown
// characters become ILLEGAL tokens rather than errors, leaving the parser
// to report them with position information.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ecolang-io/ecolang/internal/token"
)

// Lexer tokenizes a single expression into a sequence of tokens.
type Lexer struct {
	source string
	pos    int // current byte offset in source
}

// New creates a Lexer for the given expression text.
func New(source string) *Lexer {
	return &Lexer{source: source}
}

// Tokenize scans the entire expression and returns all tokens, ending
// with an EOF token.
func (l *Lexer) Tokenize() []token.Token {
	var tokens []token.Token
	for {
		tok := l.next()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			return tokens
		}
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.source) {
		return 0
	}
	return l.source[l.pos]
}

func (l *Lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.source) {
		return 0
	}
	return l.source[l.pos+offset]
}

func (l *Lexer) position() token.Position {
	return token.Position{Char: l.pos, Column: l.pos}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.source) {
		ch := l.source[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' {
			l.pos++
		} else {
			break
		}
	}
}

// emit builds a token spanning from start to the current position.
func (l *Lexer) emit(typ token.Type, start token.Position, literal string) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) next() token.Token {
	l.skipWhitespace()

	start := l.position()
	if l.pos >= len(l.source) {
		return l.emit(token.EOF, start, "")
	}

	ch := l.peek()
	switch {
	case isDigit(ch) || (ch == '.' && isDigit(l.peekAt(1))):
		return l.readNumber()
	case ch == '"' || ch == '\'':
		return l.readString()
	case isIdentStart(rune(ch)) || utf8.RuneLen(rune(ch)) > 1:
		return l.readIdentifier()
	}

	two := l.pair()
	switch two {
	case "**":
		l.pos += 2
		return l.emit(token.POW, start, two)
	case "//":
		l.pos += 2
		return l.emit(token.SLASH_SLASH, start, two)
	case "==":
		l.pos += 2
		return l.emit(token.EQ, start, two)
	case "!=":
		l.pos += 2
		return l.emit(token.NOT_EQ, start, two)
	case "<=":
		l.pos += 2
		return l.emit(token.LT_EQUALS, start, two)
	case ">=":
		l.pos += 2
		return l.emit(token.GT_EQUALS, start, two)
	}

	l.pos++
	lit := string(ch)
	switch ch {
	case '+':
		return l.emit(token.PLUS, start, lit)
	case '-':
		return l.emit(token.MINUS, start, lit)
	case '*':
		return l.emit(token.ASTERISK, start, lit)
	case '/':
		return l.emit(token.SLASH, start, lit)
	case '%':
		return l.emit(token.MOD, start, lit)
	case '<':
		return l.emit(token.LT, start, lit)
	case '>':
		return l.emit(token.GT, start, lit)
	case '=':
		return l.emit(token.ASSIGN, start, lit)
	case '(':
		return l.emit(token.LPAREN, start, lit)
	case ')':
		return l.emit(token.RPAREN, start, lit)
	case ',':
		return l.emit(token.COMMA, start, lit)
	}
	return l.emit(token.ILLEGAL, start, lit)
}

func (l *Lexer) pair() string {
	if l.pos+2 > len(l.source) {
		return ""
	}
	return l.source[l.pos : l.pos+2]
}

// readNumber scans an integer or float literal. A literal containing a
// decimal point or an exponent is a FLOAT; otherwise it is an INT.
func (l *Lexer) readNumber() token.Token {
	start := l.position()
	isFloat := false
	for l.pos < len(l.source) && isDigit(l.peek()) {
		l.pos++
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		isFloat = true
		l.pos++
		for l.pos < len(l.source) && isDigit(l.peek()) {
			l.pos++
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		mark := l.pos
		l.pos++
		if l.peek() == '+' || l.peek() == '-' {
			l.pos++
		}
		if isDigit(l.peek()) {
			isFloat = true
			for l.pos < len(l.source) && isDigit(l.peek()) {
				l.pos++
			}
		} else {
			l.pos = mark
		}
	}
	literal := l.source[start.Char:l.pos]
	if isFloat {
		return l.emit(token.FLOAT, start, literal)
	}
	return l.emit(token.INT, start, literal)
}

// readString scans a quoted string literal, handling the escape sequences
// \\, \", \', \n and \t. An unterminated string yields an ILLEGAL token
// whose literal is the opening quote.
func (l *Lexer) readString() token.Token {
	start := l.position()
	quote := l.peek()
	l.pos++
	var sb strings.Builder
	for l.pos < len(l.source) {
		ch := l.peek()
		if ch == '\\' {
			esc := l.peekAt(1)
			switch esc {
			case '\\', '"', '\'':
				sb.WriteByte(esc)
				l.pos += 2
				continue
			case 'n':
				sb.WriteByte('\n')
				l.pos += 2
				continue
			case 't':
				sb.WriteByte('\t')
				l.pos += 2
				continue
			}
			sb.WriteByte(ch)
			l.pos++
			continue
		}
		if ch == quote {
			l.pos++
			return l.emit(token.STRING, start, sb.String())
		}
		sb.WriteByte(ch)
		l.pos++
	}
	return token.Token{
		Type:          token.ILLEGAL,
		Literal:       string(quote),
		StartPosition: start,
		EndPosition:   start.Advance(1),
	}
}

func (l *Lexer) readIdentifier() token.Token {
	start := l.position()
	for l.pos < len(l.source) {
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.pos += size
	}
	if l.pos == start.Char {
		// Not a valid identifier start after all (for example a lone
		// non-letter multibyte rune).
		r, size := utf8.DecodeRuneInString(l.source[l.pos:])
		l.pos += size
		return l.emit(token.ILLEGAL, start, string(r))
	}
	literal := l.source[start.Char:l.pos]
	return l.emit(token.LookupIdentifier(literal), start, literal)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
