package sandbox

import (
	"encoding/json"
	"io"
	"strings"
	"unicode"

	"github.com/ecolang-io/ecolang/ast"
	"github.com/ecolang-io/ecolang/eval"
	"github.com/ecolang-io/ecolang/object"
	"github.com/ecolang-io/ecolang/parser"
)

// Serve handles one sandbox request: it reads the request from in,
// evaluates it under the restricted worker grammar, and writes the
// response to out. The returned exit code is nonzero only when the
// request itself is malformed; evaluation failures travel in the
// response's error field.
func Serve(in io.Reader, out io.Writer) int {
	raw, err := io.ReadAll(in)
	if err != nil {
		writeResponse(out, nil, strPtr("bad_payload: "+err.Error()))
		return 1
	}
	var req request
	if err := json.Unmarshal(raw, &req); err != nil {
		writeResponse(out, nil, strPtr("bad_payload: "+err.Error()))
		return 1
	}
	result, evalErr := evalRestricted(req.Code)
	writeResponse(out, result, evalErr)
	return 0
}

func writeResponse(out io.Writer, result any, evalErr *string) {
	data, err := json.Marshal(response{Result: result, Error: evalErr})
	if err != nil {
		data = []byte(`{"result":null,"error":"encode failure"}`)
	}
	data = append(data, '\n')
	_, _ = out.Write(data)
}

// evalRestricted runs lines of the worker grammar: assignments of the
// form name = expr, and bare expressions. Function calls are rejected
// outright. The value bound to result, if any, is returned in its Go
// form; evaluation stops at the first failing line.
func evalRestricted(code string) (any, *string) {
	vars := map[string]object.Object{}
	ctx := &eval.Context{
		Lookup: func(name string) (object.Object, bool) {
			obj, ok := vars[name]
			return obj, ok
		},
	}
	for _, line := range strings.Split(code, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, exprText, isAssign := splitAssign(line)
		if !isAssign {
			exprText = line
		}
		if isAssign && eval.DangerousName(name) {
			return nil, strPtr("name " + name + " not allowed")
		}
		expr, perr := parser.ParseExpression(exprText)
		if perr != nil {
			return nil, strPtr("parse_error: " + perr.Message)
		}
		if msg := rejectRestricted(expr); msg != "" {
			return nil, strPtr(msg)
		}
		val, verr := eval.Eval(exprText, ctx)
		if verr != nil {
			return nil, strPtr("error: " + verr.Message)
		}
		if isAssign {
			vars[name] = val
		}
	}
	if result, ok := vars["result"]; ok {
		return result.Interface(), nil
	}
	return nil, nil
}

// splitAssign splits a line of the form name = expr. A == at the split
// point is a comparison, not an assignment, and a left side that is not
// a bare identifier means the line is an expression.
func splitAssign(line string) (name, expr string, ok bool) {
	idx := strings.Index(line, "=")
	if idx <= 0 || (idx+1 < len(line) && line[idx+1] == '=') {
		return "", "", false
	}
	name = strings.TrimSpace(line[:idx])
	if !isWorkerIdent(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(line[idx+1:]), true
}

func isWorkerIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// rejectRestricted walks an expression and rejects anything outside the
// worker grammar: calls of any kind, and the dangerous names.
func rejectRestricted(node ast.Expr) string {
	switch node := node.(type) {
	case *ast.Ident:
		if eval.DangerousName(node.Name) {
			return "name " + node.Name + " not allowed"
		}
	case *ast.Prefix:
		return rejectRestricted(node.X)
	case *ast.Infix:
		if msg := rejectRestricted(node.X); msg != "" {
			return msg
		}
		return rejectRestricted(node.Y)
	case *ast.Compare:
		if msg := rejectRestricted(node.X); msg != "" {
			return msg
		}
		return rejectRestricted(node.Y)
	case *ast.Call:
		return "Call not allowed"
	}
	return ""
}

func strPtr(s string) *string {
	return &s
}
