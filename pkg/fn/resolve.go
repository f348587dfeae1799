package fn

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrUnsupportedValue is returned by Resolve when a value is neither
// a scalar, a sequence, a mapping, nor an expression node. Hitting it
// is always a defect in the caller's definitions, never recoverable.
var ErrUnsupportedValue = errors.New("unsupported template value")

// Resolve recursively replaces every expression node in value with
// its intrinsic-function document form. Scalars pass through
// unchanged, sequences and mappings are resolved element-wise with
// their shape preserved, and any other value kind fails with
// ErrUnsupportedValue.
func Resolve(value any) (any, error) {
	switch v := value.(type) {
	case Node:
		return v.Render()
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v, nil
	case []any:
		return resolveSlice(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			resolved, err := Resolve(item)
			if err != nil {
				return nil, err
			}
			out[key] = resolved
		}
		return out, nil
	}

	// Typed sequences and mappings ([]string, map[string]int, ...)
	// are walked through reflection so callers are not forced to
	// declare everything as []any / map[string]any.
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			resolved, err := Resolve(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, resolved)
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			resolved, err := Resolve(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = resolved
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %T (%v)", ErrUnsupportedValue, value, value)
}

func resolveSlice(items []any) ([]any, error) {
	out := make([]any, 0, len(items))
	for _, item := range items {
		resolved, err := Resolve(item)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}
