package settings

import (
	"maps"
	"math"
	"slices"
)

// Values is a generic settings map as decoded from JSON.
type Values map[string]any

// Merge returns left overwritten by right. Keys whose right value is nil
// are removed from the result. Nested maps are replaced, not merged. Neither
// input is modified.
func Merge(left, right Values) Values {
	merged := make(Values, len(left)+len(right))
	maps.Copy(merged, left)

	for key, value := range right {
		if value == nil {
			delete(merged, key)

			continue
		}

		merged[key] = value
	}

	return merged
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	return slices.Sorted(maps.Keys(v))
}

// String returns the string stored under key.
func (v Values) String(key string) (string, bool) {
	s, ok := v[key].(string)

	return s, ok
}

// Int returns the integer stored under key. JSON numbers decode as float64,
// so integral floats are accepted too.
func (v Values) Int(key string) (int, bool) {
	switch n := v[key].(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt || n < math.MinInt {
			return 0, false
		}

		return int(n), true
	default:
		return 0, false
	}
}

// Bool returns the bool stored under key.
func (v Values) Bool(key string) (bool, bool) {
	b, ok := v[key].(bool)

	return b, ok
}

// Map returns the nested map stored under key.
func (v Values) Map(key string) (Values, bool) {
	switch m := v[key].(type) {
	case Values:
		return m, true
	case map[string]any:
		return Values(m), true
	default:
		return nil, false
	}
}
