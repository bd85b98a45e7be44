package eval

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/ast"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// evalAssign implements spec.md §4.5's Assign rule: "evaluate LHS; if LHS
// is an IndexNode, compute (container, key) and call container.set(key,
// value, scope); otherwise LHS must be a Reference, whose set is invoked."
// Access is handled the same way as Index (object and field-as-key)
// because in this value model property containers (DynamicObject, Module,
// Dictionary) are distinct Kinds rather than all being DynamicObjects, so
// Access needs the same "evaluate container, then set" treatment Index
// does — see the eval package's DESIGN.md entry for the full rationale.
func (ev *Evaluator) evalAssign(n *ast.Assign, sc *scope.Scope) (object.Value, error) {
	val, err := ev.EvalValue(n.Value, sc)
	if err != nil {
		return nil, err
	}
	switch target := n.Target.(type) {
	case *ast.Identifier:
		if !sc.Assign(target.Name, val) {
			return nil, ev.nameError(target.Name, target.Loc)
		}
		return val, nil
	case *ast.Access:
		obj, err := ev.EvalValue(target.Object, sc)
		if err != nil {
			return nil, err
		}
		if err := ev.setProperty(obj, target.Field, val, target.Loc); err != nil {
			return nil, err
		}
		return val, nil
	case *ast.Index:
		obj, err := ev.EvalValue(target.Object, sc)
		if err != nil {
			return nil, err
		}
		key, err := ev.EvalValue(target.Key, sc)
		if err != nil {
			return nil, err
		}
		if err := ev.setIndex(obj, key, val, target.Loc); err != nil {
			return nil, err
		}
		return val, nil
	default:
		return nil, ev.typeError("invalid assignment target", n.Loc)
	}
}

// getProperty implements the read side of Access (`a.b`). spec.md §4.5
// requires the object to be a DynamicObject; this evaluator extends that
// to Module (so `import("x").name` resolves an export) and Exception (so
// `e.data`/`e.stack` work in a catch block, per S5), both natural
// consequences of those Kinds already exposing a Get(name) method.
func (ev *Evaluator) getProperty(obj object.Value, field string, span lexer.Span) (object.Value, error) {
	switch o := obj.(type) {
	case *object.DynamicObject:
		if fn, ok := o.Override(object.SlotGet); ok {
			return ev.invoke(fn, []object.Value{&object.String{Value: field}}, nil, span, o)
		}
		if v, ok := o.Get(field); ok {
			return v, nil
		}
		return object.NullValue, nil
	case *object.Module:
		if v, ok := o.Get(field); ok {
			return v, nil
		}
		return object.NullValue, nil
	case *object.Dictionary:
		if v, ok := o.GetField(field); ok {
			return v, nil
		}
		return object.NullValue, nil
	case *object.Exception:
		switch field {
		case "data":
			return o.Value, nil
		case "stack":
			elems := make([]object.Value, len(o.Stack))
			for i, s := range o.Stack {
				elems[i] = &object.String{Value: s}
			}
			return &object.List{Elements: elems}, nil
		default:
			return object.NullValue, nil
		}
	default:
		return nil, ev.typeError(fmt.Sprintf("cannot access property %q on a %s value", field, obj.Kind()), span)
	}
}

func (ev *Evaluator) setProperty(obj object.Value, field string, val object.Value, span lexer.Span) error {
	switch o := obj.(type) {
	case *object.DynamicObject:
		if fn, ok := o.Override(object.SlotSet); ok {
			_, err := ev.invoke(fn, []object.Value{&object.String{Value: field}, val}, nil, span, o)
			return err
		}
		o.Set(field, val)
		return nil
	case *object.Module:
		o.Export(field, val)
		return nil
	case *object.Dictionary:
		o.Put(&object.String{Value: field}, val)
		return nil
	default:
		return ev.typeError(fmt.Sprintf("cannot set property %q on a %s value", field, obj.Kind()), span)
	}
}

// getIndex implements the read side of Index (`a[b]`).
func (ev *Evaluator) getIndex(obj, key object.Value, span lexer.Span) (object.Value, error) {
	switch o := obj.(type) {
	case *object.List:
		idx, ok := key.(*object.Number)
		if !ok {
			return nil, ev.typeError("list index must be a number", span)
		}
		ref, ok := o.Get(idx.AsInt())
		if !ok {
			return nil, ev.runtimeError("list index out of range", span)
		}
		return ref.Deref()
	case *object.String:
		idx, ok := key.(*object.Number)
		if !ok {
			return nil, ev.typeError("string index must be a number", span)
		}
		ref, ok := o.GetRef(idx.AsInt())
		if !ok {
			return nil, ev.runtimeError("string index out of range", span)
		}
		return ref.Deref()
	case *object.Dictionary:
		if v, ok := o.Get(key); ok {
			return v, nil
		}
		return object.NullValue, nil
	case *object.DynamicObject:
		if fn, ok := o.Override(object.SlotGet); ok {
			return ev.invoke(fn, []object.Value{key}, nil, span, o)
		}
		return nil, ev.typeError("value is not indexable", span)
	default:
		return nil, ev.typeError(fmt.Sprintf("cannot index a %s value", obj.Kind()), span)
	}
}

func (ev *Evaluator) setIndex(obj, key, val object.Value, span lexer.Span) error {
	switch o := obj.(type) {
	case *object.List:
		idx, ok := key.(*object.Number)
		if !ok {
			return ev.typeError("list index must be a number", span)
		}
		ref, ok := o.Get(idx.AsInt())
		if !ok {
			return ev.runtimeError("list index out of range", span)
		}
		return ref.Set(val)
	case *object.String:
		idx, ok := key.(*object.Number)
		if !ok {
			return ev.typeError("string index must be a number", span)
		}
		ref, ok := o.GetRef(idx.AsInt())
		if !ok {
			return ev.runtimeError("string index out of range", span)
		}
		if err := ref.Set(val); err != nil {
			return ev.typeError(err.Error(), span)
		}
		return nil
	case *object.Dictionary:
		o.Put(key, val)
		return nil
	case *object.DynamicObject:
		if fn, ok := o.Override(object.SlotSet); ok {
			_, err := ev.invoke(fn, []object.Value{key, val}, nil, span, o)
			return err
		}
		return ev.typeError("value is not indexable", span)
	default:
		return ev.typeError(fmt.Sprintf("cannot index-assign a %s value", obj.Kind()), span)
	}
}
