// Package token defines the tokens used when lexing expression source text.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an expression string.
// Expressions are single-line, so only the column varies.
type Position struct {
	Char   int // byte offset within the expression
	Column int // 0-indexed column number
}

// ColumnNumber returns the 1-indexed column number for this position.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
func (p Position) Advance(n int) Position {
	return Position{
		Char:   p.Char + n,
		Column: p.Column + n,
	}
}

// NoPos is the zero value Position.
var NoPos = Position{}

// Token represents one token lexed from expression source text.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AND         Type = "and"
	ASSIGN      Type = "="
	ASTERISK    Type = "*"
	COMMA       Type = ","
	EOF         Type = "EOF"
	EQ          Type = "=="
	FALSE       Type = "FALSE"
	FLOAT       Type = "FLOAT"
	GT          Type = ">"
	GT_EQUALS   Type = ">="
	IDENT       Type = "IDENT"
	ILLEGAL     Type = "ILLEGAL"
	INT         Type = "INT"
	LPAREN      Type = "("
	LT          Type = "<"
	LT_EQUALS   Type = "<="
	MINUS       Type = "-"
	MOD         Type = "%"
	NOT         Type = "not"
	NOT_EQ      Type = "!="
	OR          Type = "or"
	PLUS        Type = "+"
	POW         Type = "**"
	RPAREN      Type = ")"
	SLASH       Type = "/"
	SLASH_SLASH Type = "//"
	STRING      Type = "STRING"
	TRUE        Type = "TRUE"
)

// Reserved keywords
var keywords = map[string]Type{
	"and":   AND,
	"false": FALSE,
	"not":   NOT,
	"or":    OR,
	"true":  TRUE,
}

// LookupIdentifier determines whether an identifier is a keyword or not.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
