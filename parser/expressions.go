package parser

import (
	"strconv"

	"github.com/ecolang-io/ecolang/ast"
	"github.com/ecolang-io/ecolang/internal/lexer"
	"github.com/ecolang-io/ecolang/internal/token"
)

// ParseExpression parses a single expression. On failure it returns an
// ExprError whose column is 1-based within the expression text.
func ParseExpression(text string) (ast.Expr, *ExprError) {
	p := &exprParser{tokens: lexer.New(text).Tokenize()}
	expr, err := p.parseExpression(LOWEST)
	if err != nil {
		return nil, err
	}
	if p.current().Type != token.EOF {
		return nil, newExprError(p.current().StartPosition.ColumnNumber())
	}
	return expr, nil
}

// exprParser is a Pratt parser over the expression token stream.
type exprParser struct {
	tokens []token.Token
	pos    int
}

func (p *exprParser) current() token.Token {
	return p.tokens[p.pos]
}

func (p *exprParser) advance() token.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *exprParser) parseExpression(minPrec int) (ast.Expr, *ExprError) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.current()
		prec := precedence(tok.Type)
		if prec <= minPrec {
			return left, nil
		}
		p.advance()
		if isComparator(tok.Type) {
			right, err := p.parseExpression(COMPARE)
			if err != nil {
				return nil, err
			}
			if isComparator(p.current().Type) {
				return nil, &ExprError{
					Message: "Chained comparisons not supported",
					Column:  p.current().StartPosition.ColumnNumber(),
				}
			}
			left = &ast.Compare{X: left, OpPos: tok.StartPosition, Op: string(tok.Type), Y: right}
			continue
		}
		rightPrec := prec
		if tok.Type == token.POW {
			rightPrec = prec - 1
		}
		right, err := p.parseExpression(rightPrec)
		if err != nil {
			return nil, err
		}
		left = &ast.Infix{X: left, OpPos: tok.StartPosition, Op: string(tok.Type), Y: right}
	}
}

func (p *exprParser) parsePrefix() (ast.Expr, *ExprError) {
	tok := p.current()
	switch tok.Type {
	case token.INT:
		p.advance()
		value, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			// Out-of-range integer literals degrade to floats.
			f, ferr := strconv.ParseFloat(tok.Literal, 64)
			if ferr != nil {
				return nil, newExprError(tok.StartPosition.ColumnNumber())
			}
			return &ast.FloatLit{Token: tok, Value: f}, nil
		}
		return &ast.IntLit{Token: tok, Value: value}, nil
	case token.FLOAT:
		p.advance()
		value, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, newExprError(tok.StartPosition.ColumnNumber())
		}
		return &ast.FloatLit{Token: tok, Value: value}, nil
	case token.STRING:
		p.advance()
		return &ast.StringLit{Token: tok, Value: tok.Literal}, nil
	case token.TRUE:
		p.advance()
		return &ast.BoolLit{Token: tok, Value: true}, nil
	case token.FALSE:
		p.advance()
		return &ast.BoolLit{Token: tok, Value: false}, nil
	case token.IDENT:
		p.advance()
		if p.current().Type == token.LPAREN {
			return p.parseCall(tok)
		}
		return &ast.Ident{NamePos: tok.StartPosition, Name: tok.Literal}, nil
	case token.MINUS, token.PLUS:
		p.advance()
		operand, err := p.parseExpression(PREFIX)
		if err != nil {
			return nil, err
		}
		return &ast.Prefix{OpPos: tok.StartPosition, Op: string(tok.Type), X: operand}, nil
	case token.NOT:
		p.advance()
		operand, err := p.parseExpression(NOT)
		if err != nil {
			return nil, err
		}
		return &ast.Prefix{OpPos: tok.StartPosition, Op: "not", X: operand}, nil
	case token.LPAREN:
		p.advance()
		inner, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		if p.current().Type != token.RPAREN {
			return nil, newExprError(p.current().StartPosition.ColumnNumber())
		}
		p.advance()
		return inner, nil
	}
	return nil, newExprError(tok.StartPosition.ColumnNumber())
}

func (p *exprParser) parseCall(name token.Token) (ast.Expr, *ExprError) {
	p.advance() // consume "("
	call := &ast.Call{NamePos: name.StartPosition, Name: name.Literal}
	if p.current().Type == token.RPAREN {
		call.Rparen = p.advance().StartPosition
		return call, nil
	}
	for {
		arg, err := p.parseExpression(LOWEST)
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		switch p.current().Type {
		case token.COMMA:
			p.advance()
		case token.RPAREN:
			call.Rparen = p.advance().StartPosition
			return call, nil
		default:
			return nil, newExprError(p.current().StartPosition.ColumnNumber())
		}
	}
}

