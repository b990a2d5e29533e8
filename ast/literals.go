package ast

import (
	"strconv"

	"github.com/ecolang-io/ecolang/internal/token"
)

// IntLit is an expression node for an integer literal.
type IntLit struct {
	Token token.Token // the literal token
	Value int64       // the parsed value
}

func (x *IntLit) exprNode() {}

func (x *IntLit) Pos() token.Position { return x.Token.StartPosition }
func (x *IntLit) End() token.Position { return x.Token.EndPosition }

func (x *IntLit) String() string { return x.Token.Literal }

// FloatLit is an expression node for a float literal.
type FloatLit struct {
	Token token.Token // the literal token
	Value float64     // the parsed value
}

func (x *FloatLit) exprNode() {}

func (x *FloatLit) Pos() token.Position { return x.Token.StartPosition }
func (x *FloatLit) End() token.Position { return x.Token.EndPosition }

func (x *FloatLit) String() string { return x.Token.Literal }

// StringLit is an expression node for a string literal.
type StringLit struct {
	Token token.Token // the literal token
	Value string      // the unescaped value
}

func (x *StringLit) exprNode() {}

func (x *StringLit) Pos() token.Position { return x.Token.StartPosition }
func (x *StringLit) End() token.Position { return x.Token.EndPosition }

func (x *StringLit) String() string { return strconv.Quote(x.Value) }

// BoolLit is an expression node for true or false.
type BoolLit struct {
	Token token.Token // the literal token
	Value bool        // the parsed value
}

func (x *BoolLit) exprNode() {}

func (x *BoolLit) Pos() token.Position { return x.Token.StartPosition }
func (x *BoolLit) End() token.Position { return x.Token.EndPosition }

func (x *BoolLit) String() string { return x.Token.Literal }
