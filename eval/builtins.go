package eval

import (
	"strconv"
	"strings"

	"github.com/ecolang-io/ecolang/ast"
	"github.com/ecolang-io/ecolang/object"
)

// builtin implements one whitelisted callable.
type builtin func(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error)

// builtins is the closed set of functions callable from expressions.
// User-defined functions are invoked with the call statement, never from
// inside an expression.
var builtins = map[string]builtin{
	"len":      builtinLen,
	"length":   builtinLen,
	"toNumber": builtinToNumber,
	"toString": builtinToString,
	"array":    builtinArray,
	"append":   builtinAppend,
	"at":       builtinAt,
	"ecoOps":   builtinEcoOps,
}

func builtinLen(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error) {
	col := call.NamePos.ColumnNumber()
	if len(args) != 1 {
		return nil, newError(col, "%s expects 1 arg", call.Name)
	}
	switch arg := args[0].(type) {
	case *object.String:
		return object.NewInt(int64(arg.Len())), nil
	case *object.List:
		return object.NewInt(int64(arg.Len())), nil
	}
	return nil, newError(col, "%s expects a string or array", call.Name)
}

func builtinToNumber(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error) {
	col := call.NamePos.ColumnNumber()
	if len(args) != 1 {
		return nil, newError(col, "toNumber expects 1 arg")
	}
	switch arg := args[0].(type) {
	case *object.Int:
		return arg, nil
	case *object.Float:
		// Non-string input converts to an integer, truncating toward zero.
		return object.NewInt(int64(arg.Value())), nil
	case *object.Bool:
		if arg.Value() {
			return object.NewInt(1), nil
		}
		return object.NewInt(0), nil
	case *object.String:
		text := strings.TrimSpace(arg.Value())
		if strings.Contains(text, ".") {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, newError(col, "toNumber failed")
			}
			return object.NewFloat(f), nil
		}
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, newError(col, "toNumber failed")
		}
		return object.NewInt(i), nil
	}
	return nil, newError(col, "toNumber failed")
}

func builtinToString(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error) {
	if len(args) != 1 {
		return nil, newError(call.NamePos.ColumnNumber(), "toString expects 1 arg")
	}
	return object.NewString(args[0].Inspect()), nil
}

func builtinArray(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error) {
	if len(args) != 0 {
		return nil, newError(call.NamePos.ColumnNumber(), "array expects 0 args")
	}
	return object.NewList(nil), nil
}

func builtinAppend(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error) {
	col := call.NamePos.ColumnNumber()
	if len(args) != 2 {
		return nil, newError(col, "append expects 2 args")
	}
	list, ok := args[0].(*object.List)
	if !ok {
		return nil, newError(col, "append first arg must be array")
	}
	return list.Append(args[1]), nil
}

func builtinAt(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error) {
	col := call.NamePos.ColumnNumber()
	if len(args) != 2 {
		return nil, newError(col, "at expects 2 args")
	}
	list, ok := args[0].(*object.List)
	if !ok {
		return nil, newError(col, "at first arg must be array")
	}
	var index int64
	switch arg := args[1].(type) {
	case *object.Int:
		index = arg.Value()
	case *object.Float:
		index = int64(arg.Value())
	case *object.Bool:
		if arg.Value() {
			index = 1
		}
	default:
		return nil, newError(col, "at index must be a number")
	}
	item, ok := list.At(int(index))
	if !ok {
		return nil, newError(col, "index out of range")
	}
	return item, nil
}

func builtinEcoOps(e *evaluator, call *ast.Call, args []object.Object) (object.Object, *Error) {
	if len(args) != 0 {
		return nil, newError(call.NamePos.ColumnNumber(), "ecoOps expects 0 args")
	}
	if e.ctx.Ops == nil {
		return object.NewInt(0), nil
	}
	return object.NewInt(e.ctx.Ops()), nil
}
