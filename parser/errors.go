package parser

import (
	"fmt"

	"github.com/ecolang-io/ecolang/errz"
)

// ExprError is a failure to parse a single expression. The column is
// 1-based relative to the expression text; callers offset it into line
// coordinates. Expression parse failures surface with a constant message
// so that callers report them uniformly as runtime errors.
type ExprError struct {
	Message string
	Column  int
}

func (e *ExprError) Error() string {
	return fmt.Sprintf("%s (column %d)", e.Message, e.Column)
}

func newExprError(column int) *ExprError {
	return &ExprError{Message: "Syntax error in expression", Column: column}
}

// syntaxError builds a program-level SYNTAX_ERROR anchored to a line.
func syntaxError(line int, lineText, message string) *errz.Error {
	return errz.New(errz.SyntaxError, message).
		WithLine(line).
		WithLineText(lineText)
}
