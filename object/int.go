package object

import "strconv"

// Int wraps int64 and implements Object.
type Int struct {
	value int64
}

func (i *Int) Type() Type {
	return INT
}

func (i *Int) Inspect() string {
	return strconv.FormatInt(i.value, 10)
}

func (i *Int) Interface() any {
	return i.value
}

func (i *Int) Value() int64 {
	return i.value
}

func (i *Int) Equals(other Object) bool {
	switch other := other.(type) {
	case *Int:
		return i.value == other.value
	case *Float:
		return float64(i.value) == other.value
	}
	return false
}

func (i *Int) IsTruthy() bool {
	return i.value != 0
}

// NewInt creates an Int containing the given value.
func NewInt(value int64) *Int {
	if value >= 0 && value < int64(len(smallInts)) {
		return smallInts[value]
	}
	return &Int{value: value}
}

// Small integers are frequent enough in loop-heavy scripts to preallocate.
var smallInts = func() [256]*Int {
	var ints [256]*Int
	for i := range ints {
		ints[i] = &Int{value: int64(i)}
	}
	return ints
}()
