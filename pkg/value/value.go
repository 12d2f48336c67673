// Package value models the JSON-like data tree a template executes against.
//
// A Value wraps decoded JSON (maps, slices, json.Number, strings, booleans and
// nil) without converting the tree up front, so the caller's data is read in
// place. The zero Value is Missing, which is distinct from an explicit JSON
// null: Missing marks a failed lookup, Null marks data that is present but
// empty.
package value

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
)

// Kind identifies the JSON type of a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Value is an immutable view over a node of a JSON-like tree.
type Value struct {
	kind Kind
	raw  any
}

// Missing returns the sentinel for an absent or unresolved node.
func Missing() Value { return Value{} }

// Null returns an explicit JSON null.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, raw: b} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, raw: s} }

// Int wraps an integer.
func Int(n int64) Value { return Value{kind: KindNumber, raw: n} }

// Float wraps a floating point number.
func Float(f float64) Value { return Value{kind: KindNumber, raw: f} }

// Of classifies an already decoded JSON value. Unknown Go types are reported
// as Missing; use FromAny for arbitrary Go data.
func Of(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Value{kind: KindBool, raw: v}
	case string:
		return Value{kind: KindString, raw: v}
	case json.Number, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return Value{kind: KindNumber, raw: v}
	case []any:
		return Value{kind: KindArray, raw: v}
	case map[string]any:
		return Value{kind: KindObject, raw: v}
	default:
		return Missing()
	}
}

// Kind reports the node type.
func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }
func (v Value) IsNull() bool    { return v.kind == KindNull }
func (v Value) IsBool() bool    { return v.kind == KindBool }
func (v Value) IsNumber() bool  { return v.kind == KindNumber }
func (v Value) IsString() bool  { return v.kind == KindString }
func (v Value) IsArray() bool   { return v.kind == KindArray }
func (v Value) IsObject() bool  { return v.kind == KindObject }

// Raw returns the underlying decoded representation. Missing and Null both
// return nil.
func (v Value) Raw() any { return v.raw }

// Len returns the number of elements of an array or object, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.raw.([]any))
	case KindObject:
		return len(v.raw.(map[string]any))
	default:
		return 0
	}
}

// Key returns the member named key, or Missing when v is not an object or has
// no such member.
func (v Value) Key(key string) Value {
	if v.kind != KindObject {
		return Missing()
	}
	raw, ok := v.raw.(map[string]any)[key]
	if !ok {
		return Missing()
	}
	return Of(raw)
}

// Index returns the array element at i, or Missing when v is not an array or i
// is out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray {
		return Missing()
	}
	items := v.raw.([]any)
	if i < 0 || i >= len(items) {
		return Missing()
	}
	return Of(items[i])
}

// Path descends one level using a string key or an integer index.
func (v Value) Path(segment any) Value {
	switch s := segment.(type) {
	case string:
		return v.Key(s)
	case int:
		return v.Index(s)
	default:
		return Missing()
	}
}

// Keys returns the object member names in sorted order.
func (v Value) Keys() []string {
	if v.kind != KindObject {
		return nil
	}
	m := v.raw.(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Elements returns the array elements as Values.
func (v Value) Elements() []Value {
	if v.kind != KindArray {
		return nil
	}
	items := v.raw.([]any)
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = Of(item)
	}
	return out
}

// Text renders scalar nodes as text. Containers and Missing render empty,
// null renders "null".
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.raw.(string)
	case KindBool:
		if v.raw.(bool) {
			return "true"
		}
		return "false"
	case KindNumber:
		return numberText(v.raw)
	case KindNull:
		return "null"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindArray || v.kind == KindObject {
		b, err := json.Marshal(v.raw)
		if err != nil {
			return ""
		}
		return string(b)
	}
	if v.kind == KindMissing {
		return "<missing>"
	}
	return v.Text()
}

// Float converts numbers, numeric strings and booleans to float64.
func (v Value) Float() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return numberFloat(v.raw)
	case KindString:
		f, err := strconv.ParseFloat(v.raw.(string), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case KindBool:
		if v.raw.(bool) {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// Int64 converts the value to an integer, truncating fractions.
func (v Value) Int64() (int64, bool) {
	if v.kind == KindNumber {
		switch n := v.raw.(type) {
		case int64:
			return n, true
		case int:
			return int64(n), true
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, true
			}
		}
	}
	f, ok := v.Float()
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(f), true
}

// BoolValue returns the boolean payload; false for non-boolean nodes.
func (v Value) BoolValue() bool {
	b, _ := v.raw.(bool)
	return b
}

// Truthy reports whether a section guarded by v should render. Missing, null,
// false, zero, empty strings and empty containers are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.raw.(bool)
	case KindNumber:
		f, ok := numberFloat(v.raw)
		return ok && f != 0
	case KindString:
		return v.raw.(string) != ""
	case KindArray, KindObject:
		return v.Len() > 0
	default:
		return false
	}
}

// Equal compares two values structurally. Numbers compare by numeric value.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindMissing, KindNull:
		return true
	case KindBool:
		return v.raw.(bool) == other.raw.(bool)
	case KindString:
		return v.raw.(string) == other.raw.(string)
	case KindNumber:
		if numberText(v.raw) == numberText(other.raw) {
			return true
		}
		a, okA := numberFloat(v.raw)
		b, okB := numberFloat(other.raw)
		return okA && okB && a == b
	case KindArray:
		if v.Len() != other.Len() {
			return false
		}
		for i := 0; i < v.Len(); i++ {
			if !v.Index(i).Equal(other.Index(i)) {
				return false
			}
		}
		return true
	case KindObject:
		if v.Len() != other.Len() {
			return false
		}
		for _, key := range v.Keys() {
			if !v.Key(key).Equal(other.Key(key)) {
				return false
			}
		}
		return true
	}
	return false
}

// MarshalJSON encodes the node. Missing encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func numberText(raw any) string {
	switch n := raw.(type) {
	case json.Number:
		return n.String()
	case int64:
		return strconv.FormatInt(n, 10)
	case int:
		return strconv.Itoa(n)
	case int8:
		return strconv.FormatInt(int64(n), 10)
	case int16:
		return strconv.FormatInt(int64(n), 10)
	case int32:
		return strconv.FormatInt(int64(n), 10)
	case uint:
		return strconv.FormatUint(uint64(n), 10)
	case uint8:
		return strconv.FormatUint(uint64(n), 10)
	case uint16:
		return strconv.FormatUint(uint64(n), 10)
	case uint32:
		return strconv.FormatUint(uint64(n), 10)
	case uint64:
		return strconv.FormatUint(n, 10)
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return ""
	}
}

func numberFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
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
	default:
		return 0, false
	}
}
