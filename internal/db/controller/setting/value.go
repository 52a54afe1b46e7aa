package setting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Type is the tag describing how a stored setting value is encoded.
type Type string

const (
	// TypeString is plain text.
	TypeString Type = "string"
	// TypeJSON is any JSON document.
	TypeJSON Type = "json"
	// TypeBoolean is "true" or "false".
	TypeBoolean Type = "boolean"
	// TypeNumber is a finite decimal number.
	TypeNumber Type = "number"
)

// ParseType returns the Type for tag. An empty tag means TypeString.
func ParseType(tag string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(tag))); t {
	case "":
		return TypeString, nil
	case TypeString, TypeJSON, TypeBoolean, TypeNumber:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, tag)
	}
}

// Value is a decoded setting value. Exactly one variant is populated,
// selected by Type.
type Value struct {
	typ  Type
	str  string
	raw  json.RawMessage
	flag bool
	num  float64
}

// StringValue wraps s as a string value.
func StringValue(s string) Value {
	return Value{typ: TypeString, str: s}
}

// BoolValue wraps b as a boolean value.
func BoolValue(b bool) Value {
	return Value{typ: TypeBoolean, flag: b}
}

// NumberValue wraps f as a number value.
func NumberValue(f float64) Value {
	return Value{typ: TypeNumber, num: f}
}

// JSONValue marshals v and wraps the document as a json value.
func JSONValue(v any) (Value, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Value{}, fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	return Value{typ: TypeJSON, raw: raw}, nil
}

// Decode parses the stored text according to t.
func Decode(t Type, text string) (Value, error) {
	switch t {
	case TypeString, "":
		return StringValue(text), nil
	case TypeJSON:
		if !json.Valid([]byte(text)) {
			return Value{}, fmt.Errorf("%w: not a valid json document", ErrInvalidValue)
		}

		return Value{typ: TypeJSON, raw: json.RawMessage(text)}, nil
	case TypeBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, text)
		}

		return BoolValue(b), nil
	case TypeNumber:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{}, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, text)
		}

		return NumberValue(f), nil
	default:
		return Value{}, fmt.Errorf("%w: %q", ErrInvalidType, string(t))
	}
}

// Type returns the variant tag.
func (v Value) Type() Type {
	if v.typ == "" {
		return TypeString
	}

	return v.typ
}

// Encode returns the text stored in the value column.
func (v Value) Encode() string {
	switch v.Type() {
	case TypeJSON:
		return string(v.raw)
	case TypeBoolean:
		return strconv.FormatBool(v.flag)
	case TypeNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return v.str
	}
}

// Text returns the content of a string value.
func (v Value) Text() (string, bool) {
	return v.str, v.Type() == TypeString
}

// Bool returns the boolean of a boolean value.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.Type() == TypeBoolean
}

// Number returns the float of a number value.
func (v Value) Number() (float64, bool) {
	return v.num, v.Type() == TypeNumber
}

// Unmarshal decodes a json value into dst.
func (v Value) Unmarshal(dst any) error {
	if v.Type() != TypeJSON {
		return fmt.Errorf("%w: %s value is not json", ErrInvalidValue, v.Type())
	}

	dec := json.NewDecoder(bytes.NewReader(v.raw))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}

	return nil
}
