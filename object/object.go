// Package object defines the runtime value types for the language.
//
// The type system is deliberately small: integers, floats, strings,
// booleans, lists, and nil. Values are immutable; operations that would
// mutate (list append) return new values instead.
package object

// Type of an object as a string.
type Type string

const (
	INT    Type = "int"
	FLOAT  Type = "float"
	STRING Type = "string"
	BOOL   Type = "bool"
	LIST   Type = "list"
	NIL    Type = "nil"
)

// Object is the interface that all runtime values implement.
type Object interface {
	// Type of the object.
	Type() Type

	// Inspect returns the display form of the value, as printed by say.
	Inspect() string

	// Interface converts the object to its plain Go representation.
	Interface() any

	// Equals reports whether the object is equal to another object.
	// Ints and floats compare numerically across the two types.
	Equals(other Object) bool

	// IsTruthy reports whether the object evaluates to true in a
	// boolean context. Zero, the empty string, the empty list, and
	// nil are falsy.
	IsTruthy() bool
}
