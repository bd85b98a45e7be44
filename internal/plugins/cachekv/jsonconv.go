package cachekv

import (
	"fmt"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// valueToJSON converts a scriptpp Value into a plain Go value that
// segmentio/encoding/json can marshal, recursing into List and
// Dictionary. Dictionary keys are rendered via String() — cache values
// are expected to be JSON-shaped data, not dictionaries keyed by
// arbitrary Numbers/Booleans, so a non-string key collapses to its
// String() form rather than failing the whole marshal.
func valueToJSON(v object.Value) (any, error) {
	switch val := v.(type) {
	case *object.Null:
		return nil, nil
	case *object.Boolean:
		return val.Value, nil
	case *object.Number:
		if val.NumKind == object.Float32 || val.NumKind == object.Float64 {
			return val.AsFloat(), nil
		}
		return val.AsInt(), nil
	case *object.String:
		return val.Value, nil
	case *object.List:
		out := make([]any, len(val.Elements))
		for i, el := range val.Elements {
			converted, err := valueToJSON(el)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case *object.Dictionary:
		out := make(map[string]any, int(val.Size()))
		for _, key := range val.Keys() {
			elem, _ := val.Get(key)
			converted, err := valueToJSON(elem)
			if err != nil {
				return nil, err
			}
			out[key.String()] = converted
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cache: value of kind %v is not JSON-serializable", v.Kind())
	}
}

// jsonToValue is valueToJSON's inverse for whatever encoding/json's
// Unmarshal into `any` produces (nil, bool, float64, string, []any,
// map[string]any).
func jsonToValue(v any) object.Value {
	switch val := v.(type) {
	case nil:
		return object.NullValue
	case bool:
		return object.BoolValue(val)
	case float64:
		return object.NewFloat64(val)
	case string:
		return &object.String{Value: val}
	case []any:
		elems := make([]object.Value, len(val))
		for i, el := range val {
			elems[i] = jsonToValue(el)
		}
		return &object.List{Elements: elems}
	case map[string]any:
		dict := object.NewDictionary()
		for k, el := range val {
			dict.Put(&object.String{Value: k}, jsonToValue(el))
		}
		return dict
	default:
		return object.NullValue
	}
}
