package object

import "github.com/scriptpp-lang/scriptpp/internal/lang/ast"

// NativeFunc is the signature for host-defined functions: native plugin
// exports and builtins like `print`/`import` (spec.md "native/host
// function integration").
type NativeFunc func(args []Value, named map[string]Value) (Value, error)

// Function is either source-defined (Body or Expr set, Closure captured at
// definition time) or host-defined (Native set, Closure nil).
type Function struct {
	Name       string
	Parameters []*ast.Parameter
	Body       *ast.Scope
	Expr       ast.ExprNode
	Closure    Scope
	Native     NativeFunc
}

func (f *Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	name := f.Name
	if name == "" {
		name = "<anonymous>"
	}
	if f.Native != nil {
		return "<native fn " + name + ">"
	}
	return "<fn " + name + ">"
}

// IsNative reports whether f is backed by a Go function rather than an
// AST body.
func (f *Function) IsNative() bool { return f.Native != nil }
