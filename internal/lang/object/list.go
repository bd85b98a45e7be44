package object

import "strings"

// List is a mutable, indexable sequence. Element mutation always goes
// through a Reference (see Get) so that `list[i] = x` and `list[i] += 1`
// compose with the same assignment machinery used for scope bindings and
// dynamic-object properties.
//
// Higher-order operations that invoke a callback (map, forEach, filter,
// find, findIndex, sort) are NOT methods here: object has no dependency on
// the evaluator, so it cannot call a Function value. Those are exposed as
// native functions on the List prototype registered by internal/lang/eval,
// which has access to an invoker.
type List struct {
	Elements []Value
}

func (l *List) Kind() Kind { return KindList }

func (l *List) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, el := range l.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(el.String())
	}
	b.WriteByte(']')
	return b.String()
}

func (l *List) Size() int64 { return int64(len(l.Elements)) }

// Get returns a Reference to the element at index i, or ok=false if i is
// out of range.
func (l *List) Get(i int64) (Reference, bool) {
	if i < 0 || i >= int64(len(l.Elements)) {
		return Reference{}, false
	}
	idx := int(i)
	return Reference{
		Name: "list[]",
		Get:  func() (Value, error) { return l.Elements[idx], nil },
		Set: func(v Value) error {
			l.Elements[idx] = v
			return nil
		},
	}, true
}

// Push appends values to the end of the list.
func (l *List) Push(values ...Value) {
	l.Elements = append(l.Elements, values...)
}

// Pop removes and returns the last element, or ok=false if empty.
func (l *List) Pop() (Value, bool) {
	if len(l.Elements) == 0 {
		return nil, false
	}
	last := l.Elements[len(l.Elements)-1]
	l.Elements = l.Elements[:len(l.Elements)-1]
	return last, true
}

// Reverse returns a new List with elements in reverse order.
func (l *List) Reverse() *List {
	out := make([]Value, len(l.Elements))
	for i, el := range l.Elements {
		out[len(l.Elements)-1-i] = el
	}
	return &List{Elements: out}
}

// Join renders elements via String() joined by sep.
func (l *List) Join(sep string) *String {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.String()
	}
	return &String{Value: strings.Join(parts, sep)}
}
