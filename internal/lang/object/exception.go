package object

import "strings"

// Exception wraps a thrown Value together with the call-stack frames
// captured while it unwound, so a `catch` block or an uncaught-throw
// report can show where the throw originated (spec.md §7).
type Exception struct {
	Value Value
	Stack []string
}

func (e *Exception) Kind() Kind { return KindException }

func (e *Exception) String() string {
	var b strings.Builder
	b.WriteString("exception: ")
	b.WriteString(e.Value.String())
	for _, frame := range e.Stack {
		b.WriteString("\n    at ")
		b.WriteString(frame)
	}
	return b.String()
}
