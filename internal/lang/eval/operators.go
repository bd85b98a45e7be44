package eval

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/ast"
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
	"github.com/scriptpp-lang/scriptpp/internal/lang/scope"
)

// truthy evaluates v's boolean coercion, consulting a DynamicObject's
// __bool__ override before falling back to object.Truthy (spec.md §9
// "Dynamic dispatch ... Same pattern for __get__/__set__/__call__,
// comparison and string/bool coercion").
func (ev *Evaluator) truthy(v object.Value, span lexer.Span) (bool, error) {
	if obj, ok := v.(*object.DynamicObject); ok {
		if fn, ok := obj.Override(object.SlotBool); ok {
			result, err := ev.invoke(fn, nil, nil, span, obj)
			if err != nil {
				return false, err
			}
			return object.Truthy(result), nil
		}
	}
	return object.Truthy(v), nil
}

// Stringify renders v for `print` and string-context coercion (the `+`
// operator concatenating a non-string operand), consulting __string__
// before falling back to Value.String().
func (ev *Evaluator) Stringify(v object.Value) (string, error) {
	if obj, ok := v.(*object.DynamicObject); ok {
		if fn, ok := obj.Override(object.SlotString); ok {
			result, err := ev.invoke(fn, nil, nil, lexer.Span{}, obj)
			if err != nil {
				return "", err
			}
			return result.String(), nil
		}
	}
	return v.String(), nil
}

func (ev *Evaluator) evalBinaryOp(n *ast.BinaryOp, sc *scope.Scope) (object.Value, error) {
	if n.Op == "!" {
		right, err := ev.EvalValue(n.Right, sc)
		if err != nil {
			return nil, err
		}
		truthy, err := ev.truthy(right, n.Loc)
		if err != nil {
			return nil, err
		}
		return object.BoolValue(!truthy), nil
	}

	if n.Op == "&&" || n.Op == "||" {
		left, err := ev.EvalValue(n.Left, sc)
		if err != nil {
			return nil, err
		}
		leftTruthy, err := ev.truthy(left, n.Loc)
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" && !leftTruthy {
			return left, nil
		}
		if n.Op == "||" && leftTruthy {
			return left, nil
		}
		return ev.EvalValue(n.Right, sc)
	}

	left, err := ev.EvalValue(n.Left, sc)
	if err != nil {
		return nil, err
	}
	right, err := ev.EvalValue(n.Right, sc)
	if err != nil {
		return nil, err
	}
	return ev.applyBinary(n.Op, left, right, n.Loc)
}

// applyBinary dispatches a binary operator's default semantics, checking
// for a DynamicObject operator-override slot on the left operand first
// (spec.md §9 "Lookup for `a + b` first asks `a` for `__add__`; if absent
// ... the base rule for a's kind applies").
func (ev *Evaluator) applyBinary(op string, left, right object.Value, span lexer.Span) (object.Value, error) {
	if obj, ok := left.(*object.DynamicObject); ok {
		if slot, ok := overrideSlot(op); ok {
			if fn, ok := obj.Override(slot); ok {
				return ev.invoke(fn, []object.Value{right}, nil, span, obj)
			}
		}
	}

	switch op {
	case "+":
		return ev.applyAdd(left, right, span)
	case "-", "*", "/", "%":
		return ev.applyArith(op, left, right, span)
	case "==":
		eq, err := ev.valuesEqual(left, right, span)
		if err != nil {
			return nil, err
		}
		return object.BoolValue(eq), nil
	case "!=":
		eq, err := ev.valuesEqual(left, right, span)
		if err != nil {
			return nil, err
		}
		return object.BoolValue(!eq), nil
	case "<", "<=", ">", ">=":
		return ev.applyCompare(op, left, right, span)
	default:
		return nil, ev.typeError(fmt.Sprintf("unsupported operator %q", op), span)
	}
}

func overrideSlot(op string) (string, bool) {
	switch op {
	case "+":
		return object.SlotAdd, true
	case "-":
		return object.SlotSubtract, true
	case "*":
		return object.SlotMultiply, true
	case "/":
		return object.SlotDivide, true
	case "%":
		return object.SlotMod, true
	case "==":
		return object.SlotEqual, true
	case "<":
		return object.SlotLess, true
	case ">":
		return object.SlotGreater, true
	default:
		return "", false
	}
}

func (ev *Evaluator) applyAdd(left, right object.Value, span lexer.Span) (object.Value, error) {
	if ln, ok := left.(*object.Number); ok {
		if rn, ok := right.(*object.Number); ok {
			return ln.Add(rn), nil
		}
	}
	if _, ok := left.(*object.String); ok {
		rs, err := ev.Stringify(right)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: left.(*object.String).Value + rs}, nil
	}
	if _, ok := right.(*object.String); ok {
		ls, err := ev.Stringify(left)
		if err != nil {
			return nil, err
		}
		return &object.String{Value: ls + right.(*object.String).Value}, nil
	}
	return nil, ev.typeError(fmt.Sprintf("cannot add %s and %s", left.Kind(), right.Kind()), span)
}

func (ev *Evaluator) applyArith(op string, left, right object.Value, span lexer.Span) (object.Value, error) {
	if op == "*" {
		if ls, ok := left.(*object.String); ok {
			rn, ok := right.(*object.Number)
			if !ok {
				return nil, ev.typeError("right operand of \"*\" on a string must be a number", span)
			}
			return ls.Repeat(rn.AsInt()), nil
		}
	}

	ln, ok := left.(*object.Number)
	if !ok {
		return nil, ev.typeError(fmt.Sprintf("left operand of %q is not a number", op), span)
	}
	rn, ok := right.(*object.Number)
	if !ok {
		return nil, ev.typeError(fmt.Sprintf("right operand of %q is not a number", op), span)
	}
	switch op {
	case "-":
		return ln.Subtract(rn), nil
	case "*":
		return ln.Multiply(rn), nil
	case "/":
		result, ok := ln.Divide(rn)
		if !ok {
			return nil, ev.runtimeError("division by zero", span)
		}
		return result, nil
	case "%":
		result, ok := ln.Mod(rn)
		if !ok {
			return nil, ev.runtimeError("modulo by zero", span)
		}
		return result, nil
	default:
		return nil, ev.typeError(fmt.Sprintf("unsupported operator %q", op), span)
	}
}

func (ev *Evaluator) applyCompare(op string, left, right object.Value, span lexer.Span) (object.Value, error) {
	if ln, ok := left.(*object.Number); ok {
		if rn, ok := right.(*object.Number); ok {
			switch op {
			case "<":
				return object.BoolValue(ln.Less(rn)), nil
			case "<=":
				return object.BoolValue(!ln.Greater(rn)), nil
			case ">":
				return object.BoolValue(ln.Greater(rn)), nil
			default:
				return object.BoolValue(!ln.Less(rn)), nil
			}
		}
	}
	if ls, ok := left.(*object.String); ok {
		if rs, ok := right.(*object.String); ok {
			switch op {
			case "<":
				return object.BoolValue(ls.Value < rs.Value), nil
			case "<=":
				return object.BoolValue(ls.Value <= rs.Value), nil
			case ">":
				return object.BoolValue(ls.Value > rs.Value), nil
			default:
				return object.BoolValue(ls.Value >= rs.Value), nil
			}
		}
	}
	if obj, ok := left.(*object.DynamicObject); ok {
		wantGreater := op == ">" || op == ">="
		slot := object.SlotLess
		if wantGreater {
			slot = object.SlotGreater
		}
		if fn, ok := obj.Override(slot); ok {
			result, err := ev.invoke(fn, []object.Value{right}, nil, span, obj)
			if err != nil {
				return nil, err
			}
			truthy, err := ev.truthy(result, span)
			if err != nil {
				return nil, err
			}
			return object.BoolValue(truthy), nil
		}
	}
	return nil, ev.typeError(fmt.Sprintf("cannot compare %s and %s", left.Kind(), right.Kind()), span)
}

func (ev *Evaluator) valuesEqual(left, right object.Value, span lexer.Span) (bool, error) {
	if obj, ok := left.(*object.DynamicObject); ok {
		if fn, ok := obj.Override(object.SlotEqual); ok {
			result, err := ev.invoke(fn, []object.Value{right}, nil, span, obj)
			if err != nil {
				return false, err
			}
			return ev.truthy(result, span)
		}
	}
	switch lv := left.(type) {
	case *object.Null:
		_, ok := right.(*object.Null)
		return ok, nil
	case *object.Boolean:
		rv, ok := right.(*object.Boolean)
		return ok && lv.Value == rv.Value, nil
	case *object.Number:
		rv, ok := right.(*object.Number)
		return ok && lv.Equal(rv), nil
	case *object.String:
		rv, ok := right.(*object.String)
		return ok && lv.Value == rv.Value, nil
	default:
		return left == right, nil
	}
}
