package eval

import (
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// callThreadMethod implements the Thread prototype (spec.md §5
// "wraps an OS-level worker thread ... start() launches, join() waits,
// isActive() reports joinability").
func (ev *Evaluator) callThreadMethod(th *object.Thread, name string, args []object.Value, span lexer.Span) (object.Value, error) {
	switch name {
	case "start":
		if th.Callable == nil {
			return nil, ev.runtimeError("thread has no callable to start", span)
		}
		callable := th.Callable
		// Each started Thread gets its own Evaluator so its call-stack
		// bookkeeping (ev.frames) isn't mutated concurrently with whatever
		// the spawning goroutine does next — the interpreter is specified
		// as single-threaded per logical thread of control, not globally
		// serialized (spec.md §5 "Scheduling model").
		th.Start(func() (object.Value, error) {
			return New().invoke(callable, nil, nil, span, nil)
		})
		return th, nil
	case "join":
		v, err := th.Join()
		if err != nil {
			return nil, err
		}
		return v, nil
	case "isActive":
		return object.BoolValue(th.IsActive()), nil
	default:
		return nil, ev.nameError(name, span)
	}
}
