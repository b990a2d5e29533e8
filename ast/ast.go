// Package ast defines the syntax tree for programs and expressions.
//
// The statement grammar is line-oriented, so statement nodes are built
// around 1-based line numbers and the trimmed text of their line. The
// expression grammar is free-form within a single line; expression nodes
// carry column positions from the expression lexer.
//
// The set of statement variants is closed: the parser produces exactly
// these kinds, and execution dispatches on the concrete type. There is no
// fallthrough case at runtime.
package ast

import "github.com/ecolang-io/ecolang/internal/token"

// Node is implemented by all syntax tree nodes.
type Node interface {
	// String returns a human friendly representation of the node,
	// similar to the original source.
	String() string
}

// Expr represents an expression node. Expressions evaluate to a value.
type Expr interface {
	Node

	// Pos returns the position of the first character of the expression.
	Pos() token.Position

	// End returns the position immediately after the expression.
	End() token.Position

	exprNode()
}

// Stmt represents a statement node. Statements cause side effects and do
// not themselves evaluate to a value.
type Stmt interface {
	Node

	// Line returns the 1-based source line of the statement.
	Line() int

	// Text returns the trimmed source text of the statement's line.
	Text() string

	stmtNode()
}

// Program is a parsed program: an ordered sequence of statements.
type Program struct {
	Statements []Stmt
}

// ExprText is an unevaluated expression embedded in a statement: the raw
// text plus the 1-based column where it begins on its line. Expressions
// are parsed when evaluated, so malformed expressions surface as runtime
// errors on the statement that reaches them.
type ExprText struct {
	Text   string
	Column int // 1-based column of the expression's first character
}
