package eval

import (
	"fmt"
	"sort"

	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// callListMethod implements the List prototype (spec.md Size Budget "Built-
// in prototypes (List, Dict, String, Thread, Exception)"). push/pop/size/
// reverse/join/get/set forward straight to object.List; map/forEach/
// filter/find/findIndex/sort are native here rather than on object.List
// itself because they must invoke a callback Function — see the object
// package's DESIGN.md entry for why that dependency can't run the other
// way.
func (ev *Evaluator) callListMethod(l *object.List, name string, args []object.Value, span lexer.Span) (object.Value, error) {
	switch name {
	case "push":
		l.Push(args...)
		return l, nil
	case "pop":
		v, ok := l.Pop()
		if !ok {
			return object.NullValue, nil
		}
		return v, nil
	case "size":
		return object.NewInt64(l.Size()), nil
	case "reverse":
		return l.Reverse(), nil
	case "join":
		sep := ""
		if len(args) > 0 {
			if s, ok := args[0].(*object.String); ok {
				sep = s.Value
			}
		}
		return l.Join(sep), nil
	case "get":
		idx, err := ev.requireNumberArg(args, 0, "get", span)
		if err != nil {
			return nil, err
		}
		ref, ok := l.Get(idx.AsInt())
		if !ok {
			return nil, ev.runtimeError("list index out of range", span)
		}
		return ref.Deref()
	case "set":
		idx, err := ev.requireNumberArg(args, 0, "set", span)
		if err != nil {
			return nil, err
		}
		if len(args) < 2 {
			return nil, ev.argumentError("set requires a value argument", span)
		}
		ref, ok := l.Get(idx.AsInt())
		if !ok {
			return nil, ev.runtimeError("list index out of range", span)
		}
		if err := ref.Set(args[1]); err != nil {
			return nil, err
		}
		return args[1], nil
	case "map":
		return ev.listMap(l, args, span)
	case "forEach":
		return ev.listForEach(l, args, span)
	case "filter":
		return ev.listFilter(l, args, span)
	case "find":
		return ev.listFind(l, args, span)
	case "findIndex":
		return ev.listFindIndex(l, args, span)
	case "sort":
		return ev.listSort(l, args, span)
	default:
		return nil, ev.nameError(name, span)
	}
}

func (ev *Evaluator) requireCallbackArg(args []object.Value, name string, span lexer.Span) (*object.Function, error) {
	if len(args) < 1 {
		return nil, ev.argumentError(fmt.Sprintf("%s requires a function argument", name), span)
	}
	fn, ok := args[0].(*object.Function)
	if !ok {
		return nil, ev.typeError(fmt.Sprintf("%s requires a function argument", name), span)
	}
	return fn, nil
}

func (ev *Evaluator) requireNumberArg(args []object.Value, i int, name string, span lexer.Span) (*object.Number, error) {
	if i >= len(args) {
		return nil, ev.argumentError(fmt.Sprintf("%s requires a number argument", name), span)
	}
	n, ok := args[i].(*object.Number)
	if !ok {
		return nil, ev.typeError(fmt.Sprintf("%s requires a number argument", name), span)
	}
	return n, nil
}

func (ev *Evaluator) listMap(l *object.List, args []object.Value, span lexer.Span) (object.Value, error) {
	fn, err := ev.requireCallbackArg(args, "map", span)
	if err != nil {
		return nil, err
	}
	out := make([]object.Value, len(l.Elements))
	for i, el := range l.Elements {
		v, err := ev.invoke(fn, []object.Value{el, object.NewInt64(int64(i)), l}, nil, span, nil)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return &object.List{Elements: out}, nil
}

func (ev *Evaluator) listForEach(l *object.List, args []object.Value, span lexer.Span) (object.Value, error) {
	fn, err := ev.requireCallbackArg(args, "forEach", span)
	if err != nil {
		return nil, err
	}
	for i, el := range l.Elements {
		if _, err := ev.invoke(fn, []object.Value{el, object.NewInt64(int64(i)), l}, nil, span, nil); err != nil {
			return nil, err
		}
	}
	return object.NullValue, nil
}

func (ev *Evaluator) listFilter(l *object.List, args []object.Value, span lexer.Span) (object.Value, error) {
	fn, err := ev.requireCallbackArg(args, "filter", span)
	if err != nil {
		return nil, err
	}
	out := []object.Value{}
	for i, el := range l.Elements {
		keep, err := ev.invoke(fn, []object.Value{el, object.NewInt64(int64(i)), l}, nil, span, nil)
		if err != nil {
			return nil, err
		}
		truthy, err := ev.truthy(keep, span)
		if err != nil {
			return nil, err
		}
		if truthy {
			out = append(out, el)
		}
	}
	return &object.List{Elements: out}, nil
}

func (ev *Evaluator) listFind(l *object.List, args []object.Value, span lexer.Span) (object.Value, error) {
	fn, err := ev.requireCallbackArg(args, "find", span)
	if err != nil {
		return nil, err
	}
	for i, el := range l.Elements {
		match, err := ev.invoke(fn, []object.Value{el, object.NewInt64(int64(i)), l}, nil, span, nil)
		if err != nil {
			return nil, err
		}
		truthy, err := ev.truthy(match, span)
		if err != nil {
			return nil, err
		}
		if truthy {
			return el, nil
		}
	}
	return object.NullValue, nil
}

func (ev *Evaluator) listFindIndex(l *object.List, args []object.Value, span lexer.Span) (object.Value, error) {
	fn, err := ev.requireCallbackArg(args, "findIndex", span)
	if err != nil {
		return nil, err
	}
	for i, el := range l.Elements {
		match, err := ev.invoke(fn, []object.Value{el, object.NewInt64(int64(i)), l}, nil, span, nil)
		if err != nil {
			return nil, err
		}
		truthy, err := ev.truthy(match, span)
		if err != nil {
			return nil, err
		}
		if truthy {
			return object.NewInt64(int64(i)), nil
		}
	}
	return object.NewInt64(-1), nil
}

// listSort sorts l in place using fn(a, b) as a three-way comparator
// (negative/zero/positive), matching S2's
// `xs.sort(fn(a,b) -> when { a < b -> -1; a > b -> 1; else -> 0 })`. With no
// callback, it falls back to natural ordering via the `<` operator's
// default/override semantics (applyCompare), matching
// `_examples/original_source/lib/scriptpp/runtime/List.cpp`'s `List::Sort`
// else-branch (`std::ranges::sort` using `a->Less(b)` when no comparator is
// given).
func (ev *Evaluator) listSort(l *object.List, args []object.Value, span lexer.Span) (object.Value, error) {
	if len(args) < 1 {
		return ev.listSortNatural(l, span)
	}
	fn, err := ev.requireCallbackArg(args, "sort", span)
	if err != nil {
		return nil, err
	}
	var sortErr error
	sort.SliceStable(l.Elements, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		result, err := ev.invoke(fn, []object.Value{l.Elements[i], l.Elements[j]}, nil, span, nil)
		if err != nil {
			sortErr = err
			return false
		}
		num, ok := result.(*object.Number)
		if !ok {
			sortErr = ev.typeError("sort comparator must return a number", span)
			return false
		}
		return num.AsInt() < 0
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return l, nil
}

func (ev *Evaluator) listSortNatural(l *object.List, span lexer.Span) (object.Value, error) {
	var sortErr error
	sort.SliceStable(l.Elements, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		result, err := ev.applyCompare("<", l.Elements[i], l.Elements[j], span)
		if err != nil {
			sortErr = err
			return false
		}
		b, ok := result.(*object.Boolean)
		return ok && b.Value
	})
	if sortErr != nil {
		return nil, sortErr
	}
	return l, nil
}
