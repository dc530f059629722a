package record

import (
	"strconv"
	"strings"
)

// ValueType defines the storage type for cell values.
type ValueType string

const (
	ValueTypeText    ValueType = "text"
	ValueTypeNumber  ValueType = "number"
	ValueTypeBoolean ValueType = "boolean"
	ValueTypeNull    ValueType = "null"
)

// Value is a typed scalar cell with deterministic coercion from source text.
type Value struct {
	Type       ValueType `json:"type"`
	TextVal    *string   `json:"text_val,omitempty"`
	NumberVal  *float64  `json:"number_val,omitempty"`
	BooleanVal *bool     `json:"boolean_val,omitempty"`
}

// NewTextValue creates a text value. Empty strings become null.
func NewTextValue(s string) Value {
	if s == "" {
		return NewNullValue()
	}
	return Value{Type: ValueTypeText, TextVal: &s}
}

// NewNumberValue creates a numeric value.
func NewNumberValue(n float64) Value {
	return Value{Type: ValueTypeNumber, NumberVal: &n}
}

// NewBooleanValue creates a boolean value.
func NewBooleanValue(b bool) Value {
	return Value{Type: ValueTypeBoolean, BooleanVal: &b}
}

// NewNullValue creates a null value.
func NewNullValue() Value {
	return Value{Type: ValueTypeNull}
}

// IsNull reports whether the value carries no data.
func (v Value) IsNull() bool {
	return v.Type == ValueTypeNull
}

// Coerce deterministically converts a raw cell string to a typed Value.
// Numbers are tried first (most restrictive), then booleans; everything else
// stays text. Empty cells are null.
func Coerce(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return NewNullValue()
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return NewNumberValue(n)
	}

	// Only the spelled-out forms count as booleans; "1"/"0" stay numeric.
	if strings.EqualFold(s, "true") {
		return NewBooleanValue(true)
	}
	if strings.EqualFold(s, "false") {
		return NewBooleanValue(false)
	}

	return NewTextValue(s)
}

// String renders the value as display text. Null renders as empty.
func (v Value) String() string {
	switch v.Type {
	case ValueTypeText:
		return *v.TextVal
	case ValueTypeNumber:
		return strconv.FormatFloat(*v.NumberVal, 'f', -1, 64)
	case ValueTypeBoolean:
		return strconv.FormatBool(*v.BooleanVal)
	default:
		return ""
	}
}

// IsIntegral reports whether a numeric value has no fractional part.
func (v Value) IsIntegral() bool {
	if v.Type != ValueTypeNumber {
		return false
	}
	return *v.NumberVal == float64(int64(*v.NumberVal))
}
