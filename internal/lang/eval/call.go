package eval

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/ast"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// Call invokes a callable Value with already-evaluated arguments, for use
// by host code outside the evaluator — native plugins calling back into a
// script-supplied callback (e.g. the db plugin's `transaction(fn)`) — with
// no source span to attribute frames to.
func (ev *Evaluator) Call(callee object.Value, args []object.Value) (object.Value, error) {
	return ev.callValue(callee, args, nil, lexer.Span{}, nil)
}

// evalArgs evaluates a Call's positional and named arguments left-to-right
// (spec.md §4.5 "evaluate positional and named arguments left-to-right").
func (ev *Evaluator) evalArgs(n *ast.Call, sc *scope.Scope) ([]object.Value, map[string]object.Value, error) {
	args := make([]object.Value, len(n.Args))
	for i, a := range n.Args {
		v, err := ev.EvalValue(a, sc)
		if err != nil {
			return nil, nil, err
		}
		args[i] = v
	}
	var named map[string]object.Value
	if len(n.NamedArgs) > 0 {
		named = make(map[string]object.Value, len(n.NamedArgs))
		for _, na := range n.NamedArgs {
			v, err := ev.EvalValue(na.Value, sc)
			if err != nil {
				return nil, nil, err
			}
			named[na.Name] = v
		}
	}
	return args, named, nil
}

// evalCall handles every `callee(...)` form. A callee written as `a.b(...)`
// is special-cased rather than evaluated generically through Access/Call,
// because the receiver `a` needs to be threaded through as the method's
// `this` (and, for List/String/Dictionary/Thread, dispatched to their
// built-in prototype methods rather than DynamicObject property lookup —
// see the eval package's DESIGN.md entry).
func (ev *Evaluator) evalCall(n *ast.Call, sc *scope.Scope) (object.Value, error) {
	if access, ok := n.Callee.(*ast.Access); ok {
		obj, err := ev.EvalValue(access.Object, sc)
		if err != nil {
			return nil, err
		}
		args, named, err := ev.evalArgs(n, sc)
		if err != nil {
			return nil, err
		}
		return ev.callMethod(obj, access.Field, args, named, n.Loc)
	}

	callee, err := ev.EvalValue(n.Callee, sc)
	if err != nil {
		return nil, err
	}
	args, named, err := ev.evalArgs(n, sc)
	if err != nil {
		return nil, err
	}
	return ev.callValue(callee, args, named, n.Loc, nil)
}

// callMethod dispatches `recv.field(args...)`.
func (ev *Evaluator) callMethod(recv object.Value, field string, args []object.Value, named map[string]object.Value, span lexer.Span) (object.Value, error) {
	switch o := recv.(type) {
	case *object.List:
		return ev.callListMethod(o, field, args, span)
	case *object.String:
		return ev.callStringMethod(o, field, args, span)
	case *object.Dictionary:
		return ev.callDictMethod(o, field, args, span)
	case *object.Thread:
		return ev.callThreadMethod(o, field, args, span)
	case *object.Module:
		v, ok := o.Get(field)
		if !ok {
			return nil, ev.nameError(field, span)
		}
		return ev.callValue(v, args, named, span, nil)
	case *object.DynamicObject:
		if v, ok := o.Get(field); ok {
			if fn, ok := v.(*object.Function); ok {
				return ev.invoke(fn, args, named, span, o)
			}
			return ev.callValue(v, args, named, span, o)
		}
		if getter, ok := o.Override(object.SlotGet); ok {
			v, err := ev.invoke(getter, []object.Value{&object.String{Value: field}}, nil, span, o)
			if err != nil {
				return nil, err
			}
			if fn, ok := v.(*object.Function); ok {
				return ev.invoke(fn, args, named, span, o)
			}
		}
		return nil, ev.nameError(field, span)
	default:
		return nil, ev.typeError(fmt.Sprintf("cannot call method %q on a %s value", field, recv.Kind()), span)
	}
}

// callValue dispatches a bare `callee(args...)` where callee was not
// accessed as `recv.field` — a Function, a Prototype (constructs an
// instance), or a DynamicObject with a __call__ override.
func (ev *Evaluator) callValue(callee object.Value, args []object.Value, named map[string]object.Value, span lexer.Span, receiver object.Value) (object.Value, error) {
	switch c := callee.(type) {
	case *object.Function:
		return ev.invoke(c, args, named, span, receiver)
	case *object.Prototype:
		instance := c.Instantiate()
		if ctor, ok := instance.Override(object.SlotCtor); ok {
			if _, err := ev.invoke(ctor, args, named, span, instance); err != nil {
				return nil, err
			}
		}
		return instance, nil
	case *object.DynamicObject:
		if fn, ok := c.Override(object.SlotCall); ok {
			return ev.invoke(fn, args, named, span, c)
		}
		return nil, ev.typeError("value is not callable", span)
	default:
		return nil, ev.typeError(fmt.Sprintf("cannot call a %s value", callee.Kind()), span)
	}
}

// invoke runs fn against freshly bound arguments. receiver, when non-nil,
// is bound as `this` and — for a DynamicObject — spliced into the scope
// chain so the body can reference instance properties as bare identifiers
// (spec.md GLOSSARY "DynamicObject ... also a scope participant").
func (ev *Evaluator) invoke(fn *object.Function, args []object.Value, named map[string]object.Value, span lexer.Span, receiver object.Value) (object.Value, error) {
	if fn.IsNative() {
		ev.pushFrame(fn.String(), span)
		defer ev.popFrame()
		result, err := fn.Native(args, named)
		if err != nil {
			if thrown, ok := err.(*Thrown); ok {
				return nil, thrown
			}
			return nil, ev.runtimeError(err.Error(), span)
		}
		if result == nil {
			result = object.NullValue
		}
		return result, nil
	}

	var parent object.Scope = fn.Closure
	if dyn, ok := receiver.(*object.DynamicObject); ok {
		parent = dyn.AsScope(fn.Closure)
	}
	fnScope := scope.NewChild(parent, scope.KindFunction)
	if receiver != nil {
		fnScope.Define("this", receiver)
	}
	if err := ev.bindArguments(fn, args, named, fnScope, span); err != nil {
		return nil, err
	}

	ev.pushFrame(fn.String(), span)
	defer ev.popFrame()

	var result object.Value = object.NullValue
	var err error
	switch {
	case fn.Body != nil:
		result, err = ev.evalStatements(fn.Body.Statements, fnScope)
	case fn.Expr != nil:
		result, err = ev.EvalValue(fn.Expr, fnScope)
	}
	if err != nil {
		return nil, err
	}
	if rs, ok := result.(*object.ReturnSentinel); ok {
		return rs.Value, nil
	}
	return result, nil
}

// bindArguments implements spec.md §8 invariant 5: positional arguments
// fill parameters left-to-right, named arguments override by name, an
// omitted parameter with a default evaluates that default against fnScope
// (so later defaults can reference earlier parameters), and every actual
// positional argument is reachable via `__args__` regardless of how many
// parameters there are.
func (ev *Evaluator) bindArguments(fn *object.Function, args []object.Value, named map[string]object.Value, fnScope *scope.Scope, span lexer.Span) error {
	for i, p := range fn.Parameters {
		if i < len(args) {
			fnScope.Define(p.Name, args[i])
			continue
		}
		if v, ok := named[p.Name]; ok {
			fnScope.Define(p.Name, v)
			continue
		}
		if p.Default != nil {
			v, err := ev.EvalValue(p.Default, fnScope)
			if err != nil {
				return err
			}
			fnScope.Define(p.Name, v)
			continue
		}
		return ev.argumentError(fmt.Sprintf("missing required argument %q to %s", p.Name, fn.String()), span)
	}
	for name := range named {
		bound := false
		for _, p := range fn.Parameters {
			if p.Name == name {
				bound = true
				break
			}
		}
		if !bound {
			return ev.argumentError(fmt.Sprintf("%s has no parameter named %q", fn.String(), name), span)
		}
	}
	argList := make([]object.Value, len(args))
	copy(argList, args)
	fnScope.Define("__args__", &object.List{Elements: argList})
	return nil
}
