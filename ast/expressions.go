package ast

import (
	"bytes"

	"github.com/ecolang-io/ecolang/internal/token"
)

// Ident is an expression node that refers to a variable by name.
type Ident struct {
	NamePos token.Position // position of identifier
	Name    string         // identifier name
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Prefix is an operator expression where the operator precedes the
// operand: "-x", "+x", "not x".
type Prefix struct {
	OpPos token.Position // position of operator
	Op    string         // operator: "-", "+", "not"
	X     Expr           // operand
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.Op)
	if x.Op == "not" {
		out.WriteString(" ")
	}
	out.WriteString(x.X.String())
	out.WriteString(")")
	return out.String()
}

// Infix is an operator expression with the operator between the operands.
// This covers arithmetic ("x + y") and the short-circuit boolean
// operators ("x and y", "x or y").
type Infix struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "+", "-", "*", "/", "//", "%", "**", "and", "or"
	Y     Expr           // right operand
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Compare is a comparison expression. It is a distinct node kind so that
// the one-comparator-per-expression rule is structural: the parser cannot
// produce a chained comparison.
type Compare struct {
	X     Expr           // left operand
	OpPos token.Position // position of operator
	Op    string         // operator: "==", "!=", "<", "<=", ">", ">="
	Y     Expr           // right operand
}

func (x *Compare) exprNode() {}

func (x *Compare) Pos() token.Position { return x.X.Pos() }
func (x *Compare) End() token.Position { return x.Y.End() }

func (x *Compare) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	out.WriteString(x.X.String())
	out.WriteString(" " + x.Op + " ")
	out.WriteString(x.Y.String())
	out.WriteString(")")
	return out.String()
}

// Call is a call of one of the whitelisted builtin functions.
type Call struct {
	NamePos token.Position // position of function name
	Name    string         // function name
	Args    []Expr         // call arguments
	Rparen  token.Position // position of ")"
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.NamePos }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	var out bytes.Buffer
	out.WriteString(x.Name)
	out.WriteString("(")
	for i, arg := range x.Args {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(arg.String())
	}
	out.WriteString(")")
	return out.String()
}
