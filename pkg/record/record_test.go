package record

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "null"},
		{"string", "Acme", "Acme"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int64", int64(42), "42"},
		{"int", 7, "7"},
		{"integral float", float64(2), "2"},
		{"fraction", 1.5, "1.5"},
		{"negative", -3.25, "-3.25"},
		{"large exponent", 1e21, "1e+21"},
		{"just under exponent", 1e20, "100000000000000000000"},
		{"small exponent", 1.5e-7, "1.5e-7"},
		{"small fixed", 0.000001, "0.000001"},
		{"json number", json.Number("12"), "12"},
		{"array", []any{int64(1), "a", true}, "1,a,true"},
		{"array with nil", []any{"a", nil, "b"}, "a,,b"},
		{"nested array", []any{[]any{int64(1), int64(2)}, int64(3)}, "1,2,3"},
		{"object", map[string]any{"a": 1}, "[object Object]"},
		{"nan", math.NaN(), "NaN"},
		{"inf", math.Inf(1), "Infinity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ToString(tt.in))
		})
	}
}

func TestCanonicalID(t *testing.T) {
	t.Parallel()

	t.Run("numeric and string ids render the same", func(t *testing.T) {
		t.Parallel()
		a, okA := CanonicalID(int64(1))
		b, okB := CanonicalID("1")
		c, okC := CanonicalID(float64(1))
		assert.True(t, okA && okB && okC)
		assert.Equal(t, a, b)
		assert.Equal(t, b, c)
	})

	t.Run("nil id is not canonical", func(t *testing.T) {
		t.Parallel()
		_, ok := CanonicalID(nil)
		assert.False(t, ok)
	})
}

func TestToNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{int64(5), 5, true},
		{2.5, 2.5, true},
		{"12", 12, true},
		{"  7  ", 7, true},
		{"", 0, true},
		{"0x10", 16, true},
		{"0b101", 5, true},
		{"0o17", 15, true},
		{"1e3", 1000, true},
		{"-4", -4, true},
		{".5", 0.5, true},
		{"abc", 0, false},
		{"12abc", 0, false},
		{"Infinity", 0, false},
		{"0xZZ", 0, false},
		{true, 0, false},
		{nil, 0, false},
		{[]any{int64(1)}, 0, false},
	}

	for _, tt := range tests {
		got, ok := ToNumber(tt.in)
		assert.Equal(t, tt.wantOK, ok, "ToNumber(%#v) ok", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got, "ToNumber(%#v)", tt.in)
		}
	}
}

func TestIsInteger(t *testing.T) {
	t.Parallel()

	assert.True(t, IsInteger(3))
	assert.True(t, IsInteger(-0))
	assert.False(t, IsInteger(3.1))
	assert.False(t, IsInteger(math.Inf(1)))
	assert.False(t, IsInteger(math.NaN()))
}

func TestRecord_ID(t *testing.T) {
	t.Parallel()

	_, ok := Record{"name": "x"}.ID()
	assert.False(t, ok)

	_, ok = Record{"id": nil}.ID()
	assert.False(t, ok)

	v, ok := Record{"id": "a"}.ID()
	assert.True(t, ok)
	assert.Equal(t, "a", v)
}

func TestClone(t *testing.T) {
	t.Parallel()

	orig := Record{"id": int64(1), "name": "Acme"}
	cp := Clone(orig)
	cp["name"] = "Beta"

	assert.Equal(t, "Acme", orig["name"])
	assert.Nil(t, Clone(nil))
}
