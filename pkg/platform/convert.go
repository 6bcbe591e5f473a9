package platform

import (
	"fmt"
	"math"
)

// Args is a decoded method-call payload keyed by field name.
type Args map[string]any

// ParseArgs converts a decoded payload into Args. A nil payload yields
// empty Args; anything other than a map is rejected.
func ParseArgs(value any) (Args, error) {
	if value == nil {
		return Args{}, nil
	}
	m := parseMap(value)
	if m == nil {
		return nil, fmt.Errorf("%w: expected map payload, got %T", ErrInvalidArguments, value)
	}
	return Args(m), nil
}

// Has reports whether key is present with a non-nil value.
func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

// Int64 returns the integral value stored under key.
func (a Args) Int64(key string) (int64, bool) {
	if !a.Has(key) {
		return 0, false
	}
	return toInt64(a[key])
}

// String returns the string stored under key.
func (a Args) String(key string) (string, bool) {
	if !a.Has(key) {
		return "", false
	}
	s, ok := a[key].(string)
	return s, ok
}

// Bool returns the boolean stored under key.
func (a Args) Bool(key string) (bool, bool) {
	if !a.Has(key) {
		return false, false
	}
	b, ok := a[key].(bool)
	return b, ok
}

// Map returns the nested map stored under key.
func (a Args) Map(key string) (map[string]any, bool) {
	if !a.Has(key) {
		return nil, false
	}
	m := parseMap(a[key])
	return m, m != nil
}

// toInt64 converts integral numeric values to int64. Floats are accepted
// only when they hold a whole number, since JSON decodes all numbers to float64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float32:
		return floatToInt64(float64(n))
	case float64:
		return floatToInt64(n)
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// parseMap extracts a map[string]any from an any value.
func parseMap(value any) map[string]any {
	if value == nil {
		return nil
	}
	if m, ok := value.(map[string]any); ok {
		if m == nil {
			return map[string]any{}
		}
		return m
	}
	if m, ok := value.(Args); ok {
		if m == nil {
			return map[string]any{}
		}
		return m
	}
	if m, ok := value.(map[any]any); ok {
		converted := make(map[string]any, len(m))
		for key, val := range m {
			if keyString, ok := key.(string); ok {
				converted[keyString] = val
			}
		}
		return converted
	}
	return nil
}
