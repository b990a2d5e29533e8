package eval

import "github.com/ecolang-io/ecolang/ast"

// dangerousNames are identifiers that are rejected before evaluation,
// wherever they appear in an expression. None of them could resolve to
// anything, but scripts probing for escape hatches should fail with an
// unambiguous message rather than "Undefined variable".
var dangerousNames = map[string]struct{}{
	"__import__": {},
	"builtins":   {},
	"eval":       {},
	"exec":       {},
	"globals":    {},
	"importlib":  {},
	"locals":     {},
	"open":       {},
	"os":         {},
	"subprocess": {},
	"sys":        {},
}

// DangerousName reports whether name is one of the rejected identifiers.
func DangerousName(name string) bool {
	_, ok := dangerousNames[name]
	return ok
}

// validate walks the expression before evaluation, rejecting dangerous
// names. The node kinds themselves form a closed set; anything outside
// it is a defect in the parser, not the script.
func validate(node ast.Expr) *Error {
	switch node := node.(type) {
	case *ast.IntLit, *ast.FloatLit, *ast.StringLit, *ast.BoolLit:
		return nil
	case *ast.Ident:
		return checkName(node.Name, node.NamePos.ColumnNumber())
	case *ast.Prefix:
		return validate(node.X)
	case *ast.Infix:
		if err := validate(node.X); err != nil {
			return err
		}
		return validate(node.Y)
	case *ast.Compare:
		if err := validate(node.X); err != nil {
			return err
		}
		return validate(node.Y)
	case *ast.Call:
		if err := checkName(node.Name, node.NamePos.ColumnNumber()); err != nil {
			return err
		}
		for _, arg := range node.Args {
			if err := validate(arg); err != nil {
				return err
			}
		}
		return nil
	}
	return newError(0, "Unsupported expression element: %T", node)
}

func checkName(name string, column int) *Error {
	if _, ok := dangerousNames[name]; ok {
		return newError(column, "Unsupported name in expression: %s", name)
	}
	return nil
}
