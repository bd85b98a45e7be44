package object

import (
	"github.com/google/uuid"
	"github.com/sourcegraph/conc"
)

// Thread is the runtime value backing the `Thread` host prototype: a
// single goroutine running one scriptpp function call, joined for its
// result. It is built on conc.WaitGroup so a panic inside the evaluated
// function (a Go-level bug, not a scripted `throw`) is caught and
// re-raised on Join rather than crashing the host process.
type Thread struct {
	ID uuid.UUID
	// Callable is the function passed as the Thread constructor's argument,
	// invoked on the goroutine Start launches. Stored here rather than
	// captured directly in a closure at construction time so the evaluator
	// can register the callable without this package depending on it.
	Callable *Function
	wg       conc.WaitGroup
	done     chan struct{}
	result   Value
	err      error
}

// NewThread returns an idle Thread with a freshly generated ID.
func NewThread() *Thread {
	return &Thread{ID: uuid.New(), done: make(chan struct{})}
}

func (t *Thread) Kind() Kind     { return KindThread }
func (t *Thread) String() string { return "<thread " + t.ID.String() + ">" }

// Start runs fn on a new goroutine. Calling Start more than once on the
// same Thread is a caller error; scriptpp's Thread prototype only ever
// starts a freshly constructed Thread.
func (t *Thread) Start(fn func() (Value, error)) {
	t.wg.Go(func() {
		defer close(t.done)
		t.result, t.err = fn()
	})
}

// Join blocks until fn has returned (or panicked, in which case Wait
// re-raises the panic) and returns its result.
func (t *Thread) Join() (Value, error) {
	t.wg.Wait()
	return t.result, t.err
}

// IsActive reports whether the thread's function has not yet returned.
func (t *Thread) IsActive() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}
