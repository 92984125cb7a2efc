package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

const (
	FieldEmail              = "email"
	FieldPhoneNumber        = "phone_number"
	FieldSHA256EmailAddress = "sha256_email_address"
	FieldSHA256PhoneNumber  = "sha256_phone_number"

	// undefinedLiteral is what upstream tag runtimes serialize for unset values.
	undefinedLiteral = "undefined"
)

type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindScalar
	KindSequence
)

// Value is a user-data field value: absent, a single string or a list of strings.
type Value struct {
	kind  ValueKind
	str   string
	items []string

	// raw holds the decoded JSON when it was not plain strings, so a value
	// nobody rewrites is encoded exactly as received.
	raw json.RawMessage
}

func Absent() Value {
	return Value{}
}

func Scalar(s string) Value {
	return Value{kind: KindScalar, str: s}
}

func Sequence(items ...string) Value {
	return Value{kind: KindSequence, items: slices.Clone(items)}
}

func (v Value) Kind() ValueKind {
	return v.kind
}

// Scalar returns the string held by a scalar value.
func (v Value) Scalar() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	return v.str, true
}

// Items returns the value as a list. Scalars become a single element list and
// absent values an empty one. The returned slice is owned by the caller.
func (v Value) Items() []string {
	switch v.kind {
	case KindScalar:
		return []string{v.str}
	case KindSequence:
		return slices.Clone(v.items)
	default:
		return nil
	}
}

func (v Value) IsSequence() bool {
	return v.kind == KindSequence
}

// IsAbsent reports whether the value carries nothing worth processing:
// unset, an empty string, the "undefined" literal or an empty list.
func (v Value) IsAbsent() bool {
	switch v.kind {
	case KindScalar:
		return IsAbsentString(v.str)
	case KindSequence:
		return len(v.items) == 0
	default:
		return true
	}
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindScalar:
		return v.str == other.str
	case KindSequence:
		return slices.Equal(v.items, other.items)
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindScalar:
		return v.str
	case KindSequence:
		return fmt.Sprintf("%v", v.items)
	default:
		return "<absent>"
	}
}

func IsAbsentString(s string) bool {
	return s == "" || s == undefinedLiteral
}

func (v Value) MarshalJSON() ([]byte, error) {
	if v.raw != nil {
		return v.raw, nil
	}
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.str)
	case KindSequence:
		if v.items == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.items)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts strings, lists and, for tolerance, numbers and
// booleans, which are kept as their literal text. Objects and nested lists
// are rejected. Coerced input is re-encoded verbatim unless the value is
// replaced.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Absent()
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Scalar(s)
	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		items := make([]string, 0, len(raw))
		coerced := false
		for _, element := range raw {
			s, err := coerceString(element)
			if err != nil {
				return err
			}
			items = append(items, s)
			if element = bytes.TrimSpace(element); len(element) == 0 || element[0] != '"' {
				coerced = true
			}
		}
		*v = Value{kind: KindSequence, items: items}
		if coerced {
			v.raw = bytes.Clone(data)
		}
	default:
		s, err := coerceString(data)
		if err != nil {
			return err
		}
		*v = Value{kind: KindScalar, str: s, raw: bytes.Clone(data)}
	}
	return nil
}

func coerceString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	if raw[0] == '{' || raw[0] == '[' || !json.Valid(raw) {
		return "", fmt.Errorf("invalid user data value: %s", raw)
	}
	return string(raw), nil
}
