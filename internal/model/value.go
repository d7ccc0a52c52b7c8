package model

import (
	"encoding/json"
	"fmt"
)

// ValueKind tags the literal held by a HackleValue.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// HackleValue is a configuration-side literal used by match conditions.
type HackleValue struct {
	kind    ValueKind
	str     string
	num     float64
	boolean bool
}

func StringValue(s string) HackleValue { return HackleValue{kind: KindString, str: s} }

func NumberValue(n float64) HackleValue { return HackleValue{kind: KindNumber, num: n} }

func BoolValue(b bool) HackleValue { return HackleValue{kind: KindBool, boolean: b} }

// ValueOf converts a decoded document value into a HackleValue.
// It reports false for values that are not string, number or bool.
func ValueOf(raw any) (HackleValue, bool) {
	switch v := raw.(type) {
	case string:
		return StringValue(v), true
	case bool:
		return BoolValue(v), true
	}
	if n, ok := ToFloat64(raw); ok {
		return NumberValue(n), true
	}
	return HackleValue{}, false
}

func (v HackleValue) Kind() ValueKind { return v.kind }

// AsString returns the string literal; ok is false for other kinds.
func (v HackleValue) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsNumber returns the number literal; ok is false for other kinds.
func (v HackleValue) AsNumber() (float64, bool) { return v.num, v.kind == KindNumber }

// AsBool returns the bool literal; ok is false for other kinds.
func (v HackleValue) AsBool() (bool, bool) { return v.boolean, v.kind == KindBool }

// Raw returns the literal as a plain Go value, nil for KindNull.
func (v HackleValue) Raw() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.boolean
	default:
		return nil
	}
}

func (v HackleValue) String() string {
	if v.kind == KindNull {
		return "null"
	}
	return fmt.Sprint(v.Raw())
}

func (v HackleValue) MarshalJSON() ([]byte, error) { return json.Marshal(v.Raw()) }

// ToFloat64 converts any Go numeric type (and json.Number) to float64.
func ToFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
