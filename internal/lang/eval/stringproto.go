package eval

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// callStringMethod implements the String prototype.
func (ev *Evaluator) callStringMethod(s *object.String, name string, args []object.Value, span lexer.Span) (object.Value, error) {
	switch name {
	case "size":
		return object.NewInt64(s.Size()), nil
	case "concat":
		other, err := ev.requireStringArg(args, "concat", span)
		if err != nil {
			return nil, err
		}
		return s.Concat(other), nil
	case "repeat":
		n, err := ev.requireNumberArg(args, 0, "repeat", span)
		if err != nil {
			return nil, err
		}
		return s.Repeat(n.AsInt()), nil
	case "split":
		sep, err := ev.requireStringArg(args, "split", span)
		if err != nil {
			return nil, err
		}
		return s.Split(sep.Value), nil
	case "trim":
		return s.Trim(), nil
	case "at":
		idx, err := ev.requireNumberArg(args, 0, "at", span)
		if err != nil {
			return nil, err
		}
		b, ok := s.ByteAt(idx.AsInt())
		if !ok {
			return nil, ev.runtimeError("string index out of range", span)
		}
		return b, nil
	default:
		return nil, ev.nameError(name, span)
	}
}

func (ev *Evaluator) requireStringArg(args []object.Value, name string, span lexer.Span) (*object.String, error) {
	if len(args) < 1 {
		return nil, ev.argumentError(fmt.Sprintf("%s requires a string argument", name), span)
	}
	s, ok := args[0].(*object.String)
	if !ok {
		return nil, ev.typeError(fmt.Sprintf("%s requires a string argument", name), span)
	}
	return s, nil
}
