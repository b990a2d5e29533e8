package eval

import "fmt"

// Error is an expression parse, check, or evaluation failure. The column
// is 1-based relative to the expression text; callers offset it into
// line coordinates. Zero means the column is unknown.
type Error struct {
	Message string
	Column  int
}

func (e *Error) Error() string {
	if e.Column == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (column %d)", e.Message, e.Column)
}

func newError(column int, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Column: column}
}
