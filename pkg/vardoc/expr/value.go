package expr

import (
	"fmt"
	"strconv"
)

// Getter is implemented by mapping values that support key lookup, such
// as the host's ordered map type. Member access consults it before
// falling back to plain Go maps.
type Getter interface {
	Get(key string) (any, bool)
}

// IsTruthy returns whether a value is truthy.
// nil is false, bools return their value, empty strings are false,
// zero numbers are false, everything else is true.
func IsTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case int32:
		return val != 0
	case float64:
		return val != 0
	case float32:
		return val != 0
	default:
		return true
	}
}

// Stringify renders a value for template concatenation. nil becomes the
// empty string; everything else uses the default format.
func Stringify(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// asFloat converts a numeric value to float64.
func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	}
	return 0, false
}

// asInt converts an integral value to int64.
func asInt(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int64:
		return val, true
	case int32:
		return int64(val), true
	case float64:
		if val == float64(int64(val)) {
			return int64(val), true
		}
	}
	return 0, false
}

// equal compares two values: numerically when both are numbers,
// otherwise by their default string forms.
func equal(l, r any) bool {
	if lf, ok := asFloat(l); ok {
		if rf, ok := asFloat(r); ok {
			return lf == rf
		}
	}
	return fmt.Sprintf("%v", l) == fmt.Sprintf("%v", r)
}

// member looks up a key on a mapping-shaped value.
func member(v any, key string) (any, bool) {
	switch val := v.(type) {
	case Getter:
		return val.Get(key)
	case map[string]any:
		got, ok := val[key]
		return got, ok
	}
	return nil, false
}
