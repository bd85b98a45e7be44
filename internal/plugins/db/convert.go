package db

import (
	"time"

	"github.com/scriptpp-lang/scriptpp/internal/lang/object"
)

// valueToGo converts a scriptpp Value into whatever Go type the SQL
// driver expects as a bind parameter.
func valueToGo(v object.Value) any {
	switch val := v.(type) {
	case *object.Null:
		return nil
	case *object.Boolean:
		return val.Value
	case *object.Number:
		if val.NumKind == object.Float32 || val.NumKind == object.Float64 {
			return val.AsFloat()
		}
		return val.AsInt()
	case *object.String:
		return val.Value
	default:
		return val.String()
	}
}

// goToValue converts a driver-returned column value into a scriptpp
// Value. sql and pgx surface overlapping but not identical Go types for
// the same SQL types (pgx uses native time.Time/[]byte, database/sql
// scan destinations are usually driver.Value's any of int64/float64/
// bool/[]byte/time.Time/nil), so this covers both.
func goToValue(v any) object.Value {
	switch val := v.(type) {
	case nil:
		return object.NullValue
	case bool:
		return object.BoolValue(val)
	case int64:
		return object.NewInt64(val)
	case int32:
		return object.NewInt32(val)
	case int:
		return object.NewInt64(int64(val))
	case float64:
		return object.NewFloat64(val)
	case float32:
		return object.NewFloat32(val)
	case []byte:
		return &object.String{Value: string(val)}
	case string:
		return &object.String{Value: val}
	case time.Time:
		return &object.String{Value: val.Format(time.RFC3339Nano)}
	default:
		return &object.String{Value: ""}
	}
}
