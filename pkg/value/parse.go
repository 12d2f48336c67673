package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// Parse decodes JSON into a Value, keeping numbers as json.Number so their
// textual form survives rendering unchanged.
func Parse(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Missing(), fmt.Errorf("value: decode json: %w", err)
	}
	if dec.More() {
		return Missing(), fmt.Errorf("value: decode json: trailing data")
	}
	return Of(raw), nil
}

// ParseString is Parse for string input.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// ParseLenient decodes JSON and returns Missing instead of an error.
func ParseLenient(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		return Missing()
	}
	return v
}

// MustParse panics when data is not valid JSON. Intended for fixtures.
func MustParse(s string) Value {
	v, err := ParseString(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Array builds an array node from values.
func Array(items ...Value) Value {
	raw := make([]any, len(items))
	for i, item := range items {
		raw[i] = item
	}
	return Value{kind: KindArray, raw: raw}
}

// Object builds an object node from values.
func Object(members map[string]Value) Value {
	raw := make(map[string]any, len(members))
	for k, item := range members {
		raw[k] = item
	}
	return Value{kind: KindObject, raw: raw}
}

// FromAny wraps arbitrary Go data. JSON-shaped data is wrapped in place;
// anything else (structs, typed maps and slices, at any depth) is normalised
// through a JSON round trip.
func FromAny(data any) (Value, error) {
	switch v := data.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case json.RawMessage:
		return Parse(v)
	case []byte:
		return Parse(v)
	}

	if v := Of(data); !v.IsMissing() && jsonShaped(data) {
		return v, nil
	}

	rv := reflect.ValueOf(data)
	if rv.Kind() == reflect.Func || rv.Kind() == reflect.Chan {
		return Missing(), fmt.Errorf("value: unsupported type %T", data)
	}

	b, err := json.Marshal(data)
	if err != nil {
		return Missing(), fmt.Errorf("value: encode %T: %w", data, err)
	}
	return Parse(b)
}

func jsonShaped(data any) bool {
	switch v := data.(type) {
	case map[string]any:
		for _, item := range v {
			if !jsonShaped(item) {
				return false
			}
		}
		return true
	case []any:
		for _, item := range v {
			if !jsonShaped(item) {
				return false
			}
		}
		return true
	case nil, Value, bool, string, json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
