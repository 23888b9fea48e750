// ABOUTME: Typed metadata value union
// ABOUTME: Closed tagged union of string, number, bool and string-list values

package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ValueKind discriminates the metadata value union.
type ValueKind int

const (
	KindString ValueKind = iota
	KindNumber
	KindBool
	KindStringList
)

// Value is a metadata value. Exactly one of the payload fields is meaningful,
// selected by Kind.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []string
}

// StringValue wraps a string.
func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{Kind: KindNumber, Num: n} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// ListValue wraps a list of strings. The list is copied.
func ListValue(items []string) Value {
	return Value{Kind: KindStringList, List: append([]string(nil), items...)}
}

// Equal reports exact equality: same kind, same payload. String comparison is
// case-sensitive here; case-insensitive matching is a search-layer policy.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return v.Num == other.Num
	case KindBool:
		return v.Bool == other.Bool
	case KindStringList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if v.List[i] != other.List[i] {
				return false
			}
		}
		return true
	}
	return false
}

// String renders the value for display and search contexts.
func (v Value) String() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v.Num), "0"), ".")
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case KindStringList:
		return strings.Join(v.List, ", ")
	}
	return ""
}

// clone returns a copy that shares no mutable state with the receiver.
func (v Value) clone() Value {
	if v.Kind == KindStringList {
		v.List = append([]string(nil), v.List...)
	}
	return v
}

// MarshalJSON encodes the bare payload, so metadata serializes as plain JSON
// values rather than tagged objects.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindStringList:
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	}
	return nil, fmt.Errorf("unknown value kind: %d", v.Kind)
}

// UnmarshalJSON sniffs the JSON value shape and selects the matching kind.
// JSON null is rejected: unmarshaling null into a string is a no-op, which
// would silently read as an empty string value.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return fmt.Errorf("metadata value must not be null")
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringValue(s)
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*v = NumberValue(n)
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolValue(b)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*v = ListValue(list)
		return nil
	}

	return fmt.Errorf("unsupported metadata value: %s", string(data))
}
