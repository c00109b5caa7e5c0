// Package record defines the schema-free record type served by seedapi and the
// loose value rendering used wherever two values are compared.
//
// Records are decoded JSON (or YAML) objects. Their values come from a small
// closed set: nil, bool, string, the integer kinds, float64, json.Number,
// []any and map[string]any. Every comparison in the service goes through
// ToString, so numeric 1 and string "1" are the same id.
package record

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// IDField is the only field with meaning to the service.
const IDField = "id"

// Record is a single schema-free entry within a collection.
type Record map[string]any

// ID returns the raw id value and whether the record carries a non-null id.
func (r Record) ID() (any, bool) {
	v, ok := r[IDField]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Clone returns a shallow copy of r. Nested values are shared.
func Clone(r Record) Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// CanonicalID renders an id value for comparison. The second return value is
// false for a nil id, which never matches anything.
func CanonicalID(v any) (string, bool) {
	if v == nil {
		return "", false
	}
	return ToString(v), true
}

// ToString renders v the way a dynamic language's String() would: integral
// numbers without a decimal point, arrays joined by commas, objects as
// "[object Object]".
func ToString(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			if e == nil {
				continue
			}
			parts[i] = ToString(e)
		}
		return strings.Join(parts, ",")
	case map[string]any, Record:
		return "[object Object]"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	}
	if f, ok := numberValue(v); ok {
		return FormatNumber(f)
	}
	if n, ok := v.(json.Number); ok {
		return string(n)
	}
	return "[object Object]"
}

// FormatNumber renders f in shortest round-trip form. Values outside
// [1e-6, 1e21) use exponent notation without zero padding ("1e+21", "1e-7").
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var decimalLiteral = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ToNumber coerces v to a number. Numbers pass through; strings are trimmed,
// an empty string is 0, and 0x/0o/0b prefixes are honoured. Anything else is
// not a number.
func ToNumber(v any) (float64, bool) {
	if f, ok := numberValue(v); ok {
		return f, !math.IsNaN(f)
	}

	var s string
	switch x := v.(type) {
	case string:
		s = x
	case json.Number:
		s = string(x)
	default:
		return 0, false
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			u, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return 0, false
			}
			return float64(u), true
		}
	}

	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

// IsInteger reports whether f is finite and has no fractional part.
func IsInteger(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}

func numberValue(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	}
	return 0, false
}
