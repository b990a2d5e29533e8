package object

import "strings"

// Compare returns -1, 0, or 1 ordering a before/equal/after b. The second
// return is false when the two types have no defined ordering. Ints and
// floats order numerically across the two types; strings order
// lexicographically.
func Compare(a, b Object) (int, bool) {
	if x, ok := numeric(a); ok {
		if y, ok := numeric(b); ok {
			switch {
			case x < y:
				return -1, true
			case x > y:
				return 1, true
			}
			return 0, true
		}
		return 0, false
	}
	if x, ok := a.(*String); ok {
		if y, ok := b.(*String); ok {
			return strings.Compare(x.value, y.value), true
		}
	}
	return 0, false
}

func numeric(obj Object) (float64, bool) {
	switch obj := obj.(type) {
	case *Int:
		return float64(obj.value), true
	case *Float:
		return obj.value, true
	}
	return 0, false
}
