package program

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// bindBuiltins installs the Program-scope built-ins spec.md §4.6 names:
// print, import, cwd, eval, the List prototype constructor, and the truthy
// `else` identifier — plus eval.Builtins()'s Dict/Thread constructors,
// which only need an Evaluator and have no Program-level dependency of
// their own.
func (p *Program) bindBuiltins() {
	p.Root.Define("else", object.BoolValue(true))

	for name, v := range p.ev.Builtins() {
		p.Root.Define(name, v)
	}

	p.Root.Define("print", &object.Function{
		Name: "print",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			for i, a := range args {
				s, err := p.ev.Stringify(a)
				if err != nil {
					return nil, err
				}
				if i > 0 {
					fmt.Fprint(p.stdout, " ")
				}
				fmt.Fprint(p.stdout, s)
			}
			fmt.Fprintln(p.stdout)
			return object.NullValue, nil
		},
	})

	p.Root.Define("List", &object.Function{
		Name: "List",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			elems := make([]object.Value, len(args))
			copy(elems, args)
			return &object.List{Elements: elems}, nil
		},
	})

	p.Root.Define("cwd", &object.Function{
		Name: "cwd",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			return &object.String{Value: p.startupDir}, nil
		},
	})

	p.Root.Define("import", &object.Function{
		Name: "import",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			if len(args) < 1 {
				return nil, fmt.Errorf("import requires a module id argument")
			}
			id, ok := args[0].(*object.String)
			if !ok {
				return nil, fmt.Errorf("import requires a string module id")
			}
			return p.Import(id.Value)
		},
	})

	p.Root.Define("eval", &object.Function{
		Name: "eval",
		Native: func(args []object.Value, named map[string]object.Value) (object.Value, error) {
			if len(args) < 1 {
				return nil, fmt.Errorf("eval requires a string argument")
			}
			text, ok := args[0].(*object.String)
			if !ok {
				return nil, fmt.Errorf("eval requires a string argument")
			}
			return p.EvalText(text.Value)
		},
	})
}
