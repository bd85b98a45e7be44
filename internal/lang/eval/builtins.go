package eval

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// Builtins returns the constructor values that need an Evaluator to do
// anything useful — "Dict" (S6: `let d = Dict();`) and "Thread" (spec.md
// §5, wraps a callable for start/join/isActive). The rest of the
// Program-scope built-ins (`print`, `import`, `cwd`, `eval`, the `else`
// identifier) are bound by internal/lang/program instead, since they need
// the module cache and startup working directory that ev has no notion of
// (spec.md §4.6).
func (ev *Evaluator) Builtins() map[string]object.Value {
	return map[string]object.Value{
		"Dict": &object.Function{
			Name: "Dict",
			Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
				return object.NewDictionary(), nil
			},
		},
		"Thread": &object.Function{
			Name: "Thread",
			Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
				if len(args) < 1 {
					return nil, fmt.Errorf("Thread requires a callable argument")
				}
				fn, ok := args[0].(*object.Function)
				if !ok {
					return nil, fmt.Errorf("Thread requires a callable argument")
				}
				th := object.NewThread()
				th.Callable = fn
				return th, nil
			},
		},
	}
}
