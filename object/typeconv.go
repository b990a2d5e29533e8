package object

import (
	"encoding/json"
	"fmt"
)

// FromGoType converts a plain Go value into an Object. It accepts the
// types produced by decoding JSON (with or without json.Number) plus the
// native Go numeric types an embedding program is likely to pass.
func FromGoType(value any) (Object, error) {
	switch value := value.(type) {
	case nil:
		return Nil, nil
	case Object:
		return value, nil
	case bool:
		return FromBool(value), nil
	case int:
		return NewInt(int64(value)), nil
	case int32:
		return NewInt(int64(value)), nil
	case int64:
		return NewInt(value), nil
	case float32:
		return NewFloat(float64(value)), nil
	case float64:
		return NewFloat(value), nil
	case json.Number:
		if i, err := value.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := value.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number: %s", value.String())
		}
		return NewFloat(f), nil
	case string:
		return NewString(value), nil
	case []any:
		items := make([]Object, 0, len(value))
		for _, item := range value {
			obj, err := FromGoType(item)
			if err != nil {
				return nil, err
			}
			items = append(items, obj)
		}
		return NewList(items), nil
	}
	return nil, fmt.Errorf("type error: unsupported input type %T", value)
}
