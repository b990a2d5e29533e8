package object

import "strings"

// List wraps a slice of Objects and implements Object. Lists are treated
// as immutable: Append returns a new list sharing no tail with the old.
type List struct {
	items []Object
}

func (l *List) Type() Type {
	return LIST
}

func (l *List) Inspect() string {
	var sb strings.Builder
	sb.WriteString("[")
	for i, item := range l.items {
		if i > 0 {
			sb.WriteString(", ")
		}
		if s, ok := item.(*String); ok {
			sb.WriteString(s.Quoted())
		} else {
			sb.WriteString(item.Inspect())
		}
	}
	sb.WriteString("]")
	return sb.String()
}

func (l *List) Interface() any {
	items := make([]any, 0, len(l.items))
	for _, item := range l.items {
		items = append(items, item.Interface())
	}
	return items
}

func (l *List) Items() []Object {
	return l.items
}

func (l *List) Len() int {
	return len(l.items)
}

// At returns the item at index i. Negative indices address from the end.
func (l *List) At(i int) (Object, bool) {
	if i < 0 {
		i += len(l.items)
	}
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// Append returns a new list with the item added at the end.
func (l *List) Append(item Object) *List {
	items := make([]Object, 0, len(l.items)+1)
	items = append(items, l.items...)
	items = append(items, item)
	return &List{items: items}
}

func (l *List) Equals(other Object) bool {
	otherList, ok := other.(*List)
	if !ok || len(l.items) != len(otherList.items) {
		return false
	}
	for i, item := range l.items {
		if !item.Equals(otherList.items[i]) {
			return false
		}
	}
	return true
}

func (l *List) IsTruthy() bool {
	return len(l.items) > 0
}

// NewList creates a List containing the given items.
func NewList(items []Object) *List {
	return &List{items: items}
}
