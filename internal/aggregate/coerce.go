package aggregate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var thousandsPattern = regexp.MustCompile(`^[-+]?\d{1,3}(,\d{3})+(\.\d+)?$`)

// maxIntFloat is 2^63, the first float64 past math.MaxInt64
const maxIntFloat = 1 << 63

// present reports whether a key was supplied: nil and the empty string are absent,
// everything else (including 0 and false) counts.
func present(v interface{}) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// informative is stricter than present: empty lists and blank strings are absent too
func informative(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	case []interface{}:
		return len(t) > 0
	case []string:
		return len(t) > 0
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	}
	return true
}

// toInt coerces a decoded JSON value to an int. Numbers truncate toward zero, strings must be
// integer literals (thousands separators allowed). Both must fit in an int64; anything else
// fails.
func toInt(v interface{}) (int, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) || t >= maxIntFloat || t < -maxIntFloat {
			return 0, false
		}
		return int(t), true
	case float32:
		return toInt(float64(t))
	case int:
		return t, true
	case int64:
		return int(t), true
	case int32:
		return int(t), true
	case string:
		clean := cleanNumeric(t)
		if clean == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(clean, 10, 64)
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

// toFloat coerces a decoded JSON value to a finite float64
func toFloat(v interface{}) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case string:
		clean := cleanNumeric(t)
		if clean == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(clean, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// cleanNumeric trims whitespace and strips comma thousands separators ("1,234" -> "1234")
func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

// toText renders scalars as text; containers and nil yield ""
func toText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}
