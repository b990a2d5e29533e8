package object

import (
	"strconv"
	"unicode/utf8"
)

// String wraps string and implements Object.
type String struct {
	value string
}

func (s *String) Type() Type {
	return STRING
}

// Inspect returns the bare string, which is what say prints. Use Quoted
// for the form that appears inside list renderings.
func (s *String) Inspect() string {
	return s.value
}

// Quoted returns the string in quoted form.
func (s *String) Quoted() string {
	return strconv.Quote(s.value)
}

func (s *String) Interface() any {
	return s.value
}

func (s *String) Value() string {
	return s.value
}

// Len returns the number of runes in the string, not bytes. Output
// budgets and the len builtin count characters.
func (s *String) Len() int {
	return utf8.RuneCountInString(s.value)
}

func (s *String) Equals(other Object) bool {
	if other, ok := other.(*String); ok {
		return s.value == other.value
	}
	return false
}

func (s *String) IsTruthy() bool {
	return s.value != ""
}

// NewString creates a String containing the given value.
func NewString(value string) *String {
	return &String{value: value}
}
