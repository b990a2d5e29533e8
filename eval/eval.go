// Package eval evaluates expressions against a variable environment.
//
// Evaluation is two-phase. The expression text is parsed and statically
// checked first: only the closed set of node kinds the parser produces
// can appear, and identifiers matching known-dangerous names are
// rejected before anything runs. The second phase walks the tree
// computing a value. Failures in either phase carry a column relative to
// the expression text.
package eval

import (
	"math"
	"strings"

	"github.com/ecolang-io/ecolang/ast"
	"github.com/ecolang-io/ecolang/internal/token"
	"github.com/ecolang-io/ecolang/object"
	"github.com/ecolang-io/ecolang/parser"
)

// MaxExponent bounds the absolute value of an exponent. Larger powers
// are rejected rather than computed.
const MaxExponent = 8

// maxRepetition bounds the length of a string built by the * operator.
const maxRepetition = 100000

// Context supplies what an expression may read from the running program.
type Context struct {
	// Lookup resolves a variable reference by name.
	Lookup func(name string) (object.Object, bool)

	// Ops reports the operation count charged so far, read by ecoOps().
	Ops func() int64
}

// Eval parses, checks, and evaluates a single expression.
func Eval(text string, ctx *Context) (object.Object, *Error) {
	expr, perr := parser.ParseExpression(text)
	if perr != nil {
		return nil, &Error{Message: perr.Message, Column: perr.Column}
	}
	if err := validate(expr); err != nil {
		return nil, err
	}
	e := &evaluator{ctx: ctx}
	return e.eval(expr)
}

type evaluator struct {
	ctx *Context
}

func (e *evaluator) eval(node ast.Expr) (object.Object, *Error) {
	switch node := node.(type) {
	case *ast.IntLit:
		return object.NewInt(node.Value), nil
	case *ast.FloatLit:
		return object.NewFloat(node.Value), nil
	case *ast.StringLit:
		return object.NewString(node.Value), nil
	case *ast.BoolLit:
		return object.FromBool(node.Value), nil
	case *ast.Ident:
		return e.evalIdent(node)
	case *ast.Prefix:
		return e.evalPrefix(node)
	case *ast.Infix:
		return e.evalInfix(node)
	case *ast.Compare:
		return e.evalCompare(node)
	case *ast.Call:
		return e.evalCall(node)
	}
	return nil, newError(0, "Unsupported expression element: %T", node)
}

func (e *evaluator) evalIdent(node *ast.Ident) (object.Object, *Error) {
	if e.ctx.Lookup != nil {
		if obj, ok := e.ctx.Lookup(node.Name); ok {
			return obj, nil
		}
	}
	return nil, newError(node.NamePos.ColumnNumber(), "Undefined variable '%s'", node.Name)
}

func (e *evaluator) evalPrefix(node *ast.Prefix) (object.Object, *Error) {
	operand, err := e.eval(node.X)
	if err != nil {
		return nil, err
	}
	col := node.OpPos.ColumnNumber()
	switch node.Op {
	case "not":
		return object.FromBool(!operand.IsTruthy()), nil
	case "-":
		switch operand := operand.(type) {
		case *object.Int:
			return object.NewInt(-operand.Value()), nil
		case *object.Float:
			return object.NewFloat(-operand.Value()), nil
		}
		return nil, newError(col, "bad operand for unary '-': %s", operand.Type())
	case "+":
		switch operand.(type) {
		case *object.Int, *object.Float:
			return operand, nil
		}
		return nil, newError(col, "bad operand for unary '+': %s", operand.Type())
	}
	return nil, newError(col, "Unsupported operator '%s'", node.Op)
}

func (e *evaluator) evalInfix(node *ast.Infix) (object.Object, *Error) {
	// The boolean operators short-circuit and always produce a strict
	// boolean, never the operand value.
	switch node.Op {
	case "and":
		left, err := e.eval(node.X)
		if err != nil {
			return nil, err
		}
		if !left.IsTruthy() {
			return object.False, nil
		}
		right, err := e.eval(node.Y)
		if err != nil {
			return nil, err
		}
		return object.FromBool(right.IsTruthy()), nil
	case "or":
		left, err := e.eval(node.X)
		if err != nil {
			return nil, err
		}
		if left.IsTruthy() {
			return object.True, nil
		}
		right, err := e.eval(node.Y)
		if err != nil {
			return nil, err
		}
		return object.FromBool(right.IsTruthy()), nil
	}

	left, err := e.eval(node.X)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(node.Y)
	if err != nil {
		return nil, err
	}
	return e.arith(node.Op, node.OpPos, left, right)
}

func (e *evaluator) arith(op string, opPos token.Position, left, right object.Object) (object.Object, *Error) {
	col := opPos.ColumnNumber()

	if op == "+" {
		// Concatenation wins whenever either side is a string.
		_, ls := left.(*object.String)
		_, rs := right.(*object.String)
		if ls || rs {
			return object.NewString(left.Inspect() + right.Inspect()), nil
		}
	}
	if op == "*" {
		if result, ok, err := repeatString(col, left, right); ok {
			return result, err
		}
	}

	li, lInt := left.(*object.Int)
	ri, rInt := right.(*object.Int)
	if lInt && rInt {
		return e.intArith(op, col, li.Value(), ri.Value())
	}

	lf, lok := asFloat(left)
	rf, rok := asFloat(right)
	if !lok || !rok {
		return nil, newError(col, "unsupported operands for '%s': %s and %s",
			op, left.Type(), right.Type())
	}
	return e.floatArith(op, col, lf, rf)
}

func (e *evaluator) intArith(op string, col int, a, b int64) (object.Object, *Error) {
	switch op {
	case "+":
		return object.NewInt(a + b), nil
	case "-":
		return object.NewInt(a - b), nil
	case "*":
		return object.NewInt(a * b), nil
	case "/":
		if b == 0 {
			return nil, newError(col, "division by zero")
		}
		return object.NewFloat(float64(a) / float64(b)), nil
	case "//":
		if b == 0 {
			return nil, newError(col, "division by zero")
		}
		return object.NewInt(floorDivInt(a, b)), nil
	case "%":
		if b == 0 {
			return nil, newError(col, "modulo by zero")
		}
		return object.NewInt(modInt(a, b)), nil
	case "**":
		if b > MaxExponent || b < -MaxExponent {
			return nil, newError(col, "Exponent too large; max %d", MaxExponent)
		}
		if b >= 0 {
			return object.NewInt(powInt(a, b)), nil
		}
		return object.NewFloat(math.Pow(float64(a), float64(b))), nil
	}
	return nil, newError(col, "Unsupported operator '%s'", op)
}

func (e *evaluator) floatArith(op string, col int, a, b float64) (object.Object, *Error) {
	switch op {
	case "+":
		return object.NewFloat(a + b), nil
	case "-":
		return object.NewFloat(a - b), nil
	case "*":
		return object.NewFloat(a * b), nil
	case "/":
		if b == 0 {
			return nil, newError(col, "division by zero")
		}
		return object.NewFloat(a / b), nil
	case "//":
		if b == 0 {
			return nil, newError(col, "division by zero")
		}
		return object.NewFloat(math.Floor(a / b)), nil
	case "%":
		if b == 0 {
			return nil, newError(col, "modulo by zero")
		}
		return object.NewFloat(floorMod(a, b)), nil
	case "**":
		if math.Abs(b) > MaxExponent {
			return nil, newError(col, "Exponent too large; max %d", MaxExponent)
		}
		return object.NewFloat(math.Pow(a, b)), nil
	}
	return nil, newError(col, "Unsupported operator '%s'", op)
}

func (e *evaluator) evalCompare(node *ast.Compare) (object.Object, *Error) {
	left, err := e.eval(node.X)
	if err != nil {
		return nil, err
	}
	right, err := e.eval(node.Y)
	if err != nil {
		return nil, err
	}
	switch node.Op {
	case "==":
		return object.FromBool(left.Equals(right)), nil
	case "!=":
		return object.FromBool(!left.Equals(right)), nil
	}
	cmp, ok := object.Compare(left, right)
	if !ok {
		return nil, newError(node.OpPos.ColumnNumber(),
			"'%s' not supported between %s and %s", node.Op, left.Type(), right.Type())
	}
	switch node.Op {
	case "<":
		return object.FromBool(cmp < 0), nil
	case "<=":
		return object.FromBool(cmp <= 0), nil
	case ">":
		return object.FromBool(cmp > 0), nil
	case ">=":
		return object.FromBool(cmp >= 0), nil
	}
	return nil, newError(node.OpPos.ColumnNumber(), "Unsupported operator '%s'", node.Op)
}

func (e *evaluator) evalCall(node *ast.Call) (object.Object, *Error) {
	fn, ok := builtins[node.Name]
	if !ok {
		return nil, newError(node.NamePos.ColumnNumber(), "Unsupported function call")
	}
	args := make([]object.Object, 0, len(node.Args))
	for _, argNode := range node.Args {
		arg, err := e.eval(argNode)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return fn(e, node, args)
}

// repeatString handles string * count and count * string. The first
// return distinguishes "handled" from "not a string repetition".
func repeatString(col int, left, right object.Object) (object.Object, bool, *Error) {
	var s *object.String
	var n *object.Int
	switch l := left.(type) {
	case *object.String:
		s = l
		n, _ = right.(*object.Int)
	case *object.Int:
		s, _ = right.(*object.String)
		n = l
	}
	if s == nil || n == nil {
		return nil, false, nil
	}
	count := n.Value()
	if count <= 0 || len(s.Value()) == 0 {
		return object.NewString(""), true, nil
	}
	if count > maxRepetition/int64(len(s.Value())) {
		return nil, true, newError(col, "string repetition too large")
	}
	return object.NewString(strings.Repeat(s.Value(), int(count))), true, nil
}

func asFloat(obj object.Object) (float64, bool) {
	switch obj := obj.(type) {
	case *object.Int:
		return float64(obj.Value()), true
	case *object.Float:
		return obj.Value(), true
	}
	return 0, false
}

// floorDivInt is integer division rounding toward negative infinity.
func floorDivInt(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// modInt is the remainder with the sign of the divisor.
func modInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// floorMod is the float remainder with the sign of the divisor.
func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func powInt(base, exp int64) int64 {
	result := int64(1)
	for i := int64(0); i < exp; i++ {
		result *= base
	}
	return result
}
