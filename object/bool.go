package object

// Bool wraps bool and implements Object.
type Bool struct {
	value bool
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Inspect() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) Interface() any {
	return b.value
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Equals(other Object) bool {
	if other, ok := other.(*Bool); ok {
		return b.value == other.value
	}
	return false
}

func (b *Bool) IsTruthy() bool {
	return b.value
}

var (
	// True is the boolean true singleton.
	True = &Bool{value: true}
	// False is the boolean false singleton.
	False = &Bool{value: false}
)

// FromBool returns the singleton for the given bool.
func FromBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}
