package model

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// UserData is the user_data object of an event. The identifier fields are
// typed; anything else is carried as raw JSON and written back unchanged.
type UserData struct {
	Email              Value
	PhoneNumber        Value
	SHA256EmailAddress Value
	SHA256PhoneNumber  Value

	Extra map[string]json.RawMessage
}

func (u *UserData) field(name string) *Value {
	switch name {
	case FieldEmail:
		return &u.Email
	case FieldPhoneNumber:
		return &u.PhoneNumber
	case FieldSHA256EmailAddress:
		return &u.SHA256EmailAddress
	case FieldSHA256PhoneNumber:
		return &u.SHA256PhoneNumber
	default:
		return nil
	}
}

// Get returns the identifier field by its JSON name. Unknown names are absent.
func (u *UserData) Get(name string) Value {
	if f := u.field(name); f != nil {
		return *f
	}
	return Absent()
}

// Set stores an identifier field. Setting an absent value removes the field.
func (u *UserData) Set(name string, v Value) {
	f := u.field(name)
	if f == nil {
		return
	}
	if v.IsAbsent() {
		*f = Absent()
		return
	}
	*f = v
}

func (u *UserData) Has(name string) bool {
	if f := u.field(name); f != nil {
		return f.Kind() != KindAbsent
	}
	_, ok := u.Extra[name]
	return ok
}

func (u *UserData) Clone() *UserData {
	if u == nil {
		return nil
	}
	clone := &UserData{
		Email:              cloneValue(u.Email),
		PhoneNumber:        cloneValue(u.PhoneNumber),
		SHA256EmailAddress: cloneValue(u.SHA256EmailAddress),
		SHA256PhoneNumber:  cloneValue(u.SHA256PhoneNumber),
	}
	if u.Extra != nil {
		clone.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for k, raw := range u.Extra {
			clone.Extra[k] = bytes.Clone(raw)
		}
	}
	return clone
}

func cloneValue(v Value) Value {
	v.items = slices.Clone(v.items)
	v.raw = bytes.Clone(v.raw)
	return v
}

func (u *UserData) identifierFields() map[string]*Value {
	return map[string]*Value{
		FieldEmail:              &u.Email,
		FieldPhoneNumber:        &u.PhoneNumber,
		FieldSHA256EmailAddress: &u.SHA256EmailAddress,
		FieldSHA256PhoneNumber:  &u.SHA256PhoneNumber,
	}
}

func (u UserData) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(u.Extra)+4)
	maps.Copy(out, u.Extra)

	for name, v := range u.identifierFields() {
		if v.Kind() == KindAbsent {
			continue
		}
		raw, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[name] = raw
	}

	return json.Marshal(out)
}

func (u *UserData) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*u = UserData{}
	fields := u.identifierFields()
	for name, value := range raw {
		if f, ok := fields[name]; ok {
			if err := f.UnmarshalJSON(value); err != nil {
				return err
			}
			continue
		}
		if u.Extra == nil {
			u.Extra = make(map[string]json.RawMessage)
		}
		u.Extra[name] = value
	}
	return nil
}
