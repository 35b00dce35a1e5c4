// Package jval implements the dynamic value model and line codec for the
// gbalink wire protocol.
//
// The protocol is newline-delimited JSON, but the handling is deliberately
// not encoding/json: decoding is lenient about unknown string escapes (the
// protocol tolerates hand-constructed client messages), encoding maps
// non-finite numbers to fixed sentinel tokens instead of failing, and the
// array/object distinction is carried explicitly in the Value type so an
// empty object and an empty array never collapse into each other.
package jval

// Kind identifies the type of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
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

// Member is a single key/value pair of an object. Members keep the order in
// which the decoder encountered them; the order carries no protocol meaning.
type Member struct {
	Key   string
	Value Value
}

// Value is one protocol value: null, bool, number, string, array, or object.
// The zero Value is null.
type Value struct {
	kind Kind

	boolVal bool
	numVal  float64
	strVal  string

	arrVal []Value
	objVal []Member
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, boolVal: b} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, numVal: n} }

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, strVal: s} }

// Array returns an array value with the given items.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arrVal: items}
}

// Object returns an object value with the given members.
func Object(members ...Member) Value {
	return Value{kind: KindObject, objVal: members}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// BoolVal returns the boolean content. It is false for non-bool values.
func (v Value) BoolVal() bool { return v.kind == KindBool && v.boolVal }

// NumberVal returns the numeric content, or 0 for non-number values.
func (v Value) NumberVal() float64 {
	if v.kind != KindNumber {
		return 0
	}
	return v.numVal
}

// StringVal returns the string content, or "" for non-string values.
func (v Value) StringVal() string {
	if v.kind != KindString {
		return ""
	}
	return v.strVal
}

// Items returns the array items, or nil for non-array values.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arrVal
}

// Members returns the object members, or nil for non-object values.
func (v Value) Members() []Member {
	if v.kind != KindObject {
		return nil
	}
	return v.objVal
}

// Get looks up an object member by key. The second result is false if the
// value is not an object or has no such key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindObject {
		return Value{}, false
	}
	for _, m := range v.objVal {
		if m.Key == key {
			return m.Value, true
		}
	}
	return Value{}, false
}

// Equal reports structural equality: same kind, same scalar content, same
// shape. Object member order is ignored; duplicate keys compare by first
// occurrence.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal == b.numVal
	case KindString:
		return a.strVal == b.strVal
	case KindArray:
		if len(a.arrVal) != len(b.arrVal) {
			return false
		}
		for i := range a.arrVal {
			if !Equal(a.arrVal[i], b.arrVal[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.objVal) != len(b.objVal) {
			return false
		}
		for _, m := range a.objVal {
			bv, ok := b.Get(m.Key)
			if !ok || !Equal(m.Value, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
