package flowgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueType is the type of a literal value.
type ValueType int

const (
	UndefinedType ValueType = iota
	NumberType
	TextType
	BooleanType
)

func (t ValueType) String() string {
	switch t {
	case UndefinedType:
		return "undefined"
	case NumberType:
		return "number"
	case TextType:
		return "text"
	case BooleanType:
		return "boolean"
	}
	return "ValueType(" + strconv.Itoa(int(t)) + ")"
}

// Value is the literal carried by a constant stream.
// Only the field matching Type is meaningful.
type Value struct {
	Type    ValueType
	Number  float64
	Text    string
	Boolean bool
}

// Undefined is the value of a literal with nothing in it yet.
var Undefined = Value{}

func NumberValue(f float64) Value { return Value{Type: NumberType, Number: f} }
func TextValue(s string) Value    { return Value{Type: TextType, Text: s} }
func BooleanValue(b bool) Value   { return Value{Type: BooleanType, Boolean: b} }

// Interface returns the value as nil, float64, string or bool.
func (v Value) Interface() interface{} {
	switch v.Type {
	case NumberType:
		return v.Number
	case TextType:
		return v.Text
	case BooleanType:
		return v.Boolean
	}
	return nil
}

func (v Value) String() string {
	switch v.Type {
	case NumberType:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case TextType:
		return strconv.Quote(v.Text)
	case BooleanType:
		return strconv.FormatBool(v.Boolean)
	}
	return "undefined"
}

// MarshalJSON writes the value as null, a number, a string or a bool.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Undefined
		return nil
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return &Error{Code: EInvalid, Msg: "malformed value", Err: err}
	}
	switch raw := raw.(type) {
	case float64:
		*v = NumberValue(raw)
	case string:
		*v = TextValue(raw)
	case bool:
		*v = BooleanValue(raw)
	default:
		return &Error{
			Code: EInvalid,
			Msg:  fmt.Sprintf("unsupported value %s", data),
		}
	}
	return nil
}
