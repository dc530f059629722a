package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ValueType
	}{
		{"empty is null", "", ValueTypeNull},
		{"whitespace is null", "   ", ValueTypeNull},
		{"integer", "42", ValueTypeNumber},
		{"negative float", "-3.5", ValueTypeNumber},
		{"scientific", "1e6", ValueTypeNumber},
		{"true", "true", ValueTypeBoolean},
		{"TRUE", "TRUE", ValueTypeBoolean},
		{"false", "False", ValueTypeBoolean},
		{"plain text", "hello world", ValueTypeText},
		{"numeric-ish text", "12 apples", ValueTypeText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Coerce(tt.input).Type)
		})
	}
}

func TestCoerceDigitsStayNumeric(t *testing.T) {
	// "1" and "0" must not be treated as booleans.
	v := Coerce("1")
	require.Equal(t, ValueTypeNumber, v.Type)
	assert.Equal(t, 1.0, *v.NumberVal)

	v = Coerce("0")
	assert.Equal(t, ValueTypeNumber, v.Type)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "", NewNullValue().String())
	assert.Equal(t, "hello", NewTextValue("hello").String())
	assert.Equal(t, "3.5", NewNumberValue(3.5).String())
	assert.Equal(t, "42", NewNumberValue(42).String())
	assert.Equal(t, "true", NewBooleanValue(true).String())
}

func TestIsIntegral(t *testing.T) {
	assert.True(t, NewNumberValue(7).IsIntegral())
	assert.False(t, NewNumberValue(7.25).IsIntegral())
	assert.False(t, NewTextValue("7").IsIntegral())
}

func TestNewTextValueEmptyIsNull(t *testing.T) {
	assert.True(t, NewTextValue("").IsNull())
}
