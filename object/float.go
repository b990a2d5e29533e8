package object

import (
	"math"
	"strconv"
)

// Float wraps float64 and implements Object.
type Float struct {
	value float64
}

func (f *Float) Type() Type {
	return FLOAT
}

func (f *Float) Inspect() string {
	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

func (f *Float) Interface() any {
	return f.value
}

func (f *Float) Value() float64 {
	return f.value
}

func (f *Float) Equals(other Object) bool {
	switch other := other.(type) {
	case *Float:
		return f.value == other.value
	case *Int:
		return f.value == float64(other.value)
	}
	return false
}

func (f *Float) IsTruthy() bool {
	return f.value != 0
}

// IsIntegral reports whether the value is within floating epsilon of an
// integer, the condition under which loop variables snap to integer form.
func (f *Float) IsIntegral() bool {
	return math.Abs(f.value-math.Round(f.value)) < 1e-9
}

// NewFloat creates a Float containing the given value.
func NewFloat(value float64) *Float {
	return &Float{value: value}
}
