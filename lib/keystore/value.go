package keystore

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind identifies the scalar type held by a Value.
type Kind int

const (
	KindString Kind = iota + 1
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a scalar stored under a key. The zero Value is invalid and is
// never returned alongside ok == true.
type Value struct {
	kind Kind
	s    string
	b    bool
}

// StringValue wraps s as a string Value.
func StringValue(s string) Value {
	return Value{kind: KindString, s: s}
}

// BoolValue wraps b as a bool Value.
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// ParseValue interprets raw command-line or panel input. "true" and "false"
// (any case) become bools, everything else is kept as a string.
func ParseValue(raw string) Value {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	return StringValue(raw)
}

// ValueOf converts a decoded YAML scalar into a Value. Unsupported types
// report ok == false.
func ValueOf(x interface{}) (Value, bool) {
	switch t := x.(type) {
	case string:
		return StringValue(t), true
	case bool:
		return BoolValue(t), true
	case Value:
		return t, t.IsValid()
	default:
		return Value{}, false
	}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsValid() bool { return v.kind == KindString || v.kind == KindBool }

// AsString returns the string held by v. Bool values report ok == false,
// the same way a settings store refuses to read a switch as text.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsBool returns the bool held by v. String values are coerced when they
// parse with strconv.ParseBool or spell YES/NO, which is what hand-edited
// settings files tend to contain.
func (v Value) AsBool() (bool, bool) {
	switch v.kind {
	case KindBool:
		return v.b, true
	case KindString:
		switch strings.ToUpper(strings.TrimSpace(v.s)) {
		case "YES":
			return true, true
		case "NO":
			return false, true
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v.s))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// Interface returns the plain Go value for encoding.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindString:
		return v.s
	case KindBool:
		return v.b
	default:
		return nil
	}
}

func (v Value) Equal(o Value) bool {
	return v.kind == o.kind && v.s == o.s && v.b == o.b
}

func (v Value) String() string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.s)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return "<invalid>"
	}
}
