package eval

import (
	"github.com/scriptpp-lang/scriptpp/internal/lang/lexer"
	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// callDictMethod implements the Dictionary prototype: put/get/has/delete/
// keys/size (matches S6's `d.put("k", 1); d.get("k")`).
func (ev *Evaluator) callDictMethod(d *object.Dictionary, name string, args []object.Value, span lexer.Span) (object.Value, error) {
	switch name {
	case "put":
		if len(args) < 2 {
			return nil, ev.argumentError("put requires a key and a value", span)
		}
		if !d.Put(args[0], args[1]) {
			return nil, ev.typeError("dictionary key is not hashable", span)
		}
		return args[1], nil
	case "get":
		if len(args) < 1 {
			return nil, ev.argumentError("get requires a key", span)
		}
		v, ok := d.Get(args[0])
		if !ok {
			return object.NullValue, nil
		}
		return v, nil
	case "has":
		if len(args) < 1 {
			return nil, ev.argumentError("has requires a key", span)
		}
		return object.BoolValue(d.Has(args[0])), nil
	case "delete":
		if len(args) < 1 {
			return nil, ev.argumentError("delete requires a key", span)
		}
		return object.BoolValue(d.Delete(args[0])), nil
	case "keys":
		return &object.List{Elements: d.Keys()}, nil
	case "size":
		return object.NewInt64(d.Size()), nil
	default:
		return nil, ev.nameError(name, span)
	}
}
