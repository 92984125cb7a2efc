package service

import (
	"hashgate/pkg/model"
	"hashgate/pkg/sanitizer"
)

type identifierField struct {
	raw       string
	hashed    string
	normalize func(model.Value) model.Value
}

var identifierFields = []identifierField{
	{raw: model.FieldEmail, hashed: model.FieldSHA256EmailAddress, normalize: sanitizer.NormalizeEmail},
	{raw: model.FieldPhoneNumber, hashed: model.FieldSHA256PhoneNumber, normalize: sanitizer.NormalizePhoneNumber},
}

// Normalize returns a normalized copy of ud; ud itself is never modified.
//
// Raw identifiers are canonicalized in place. With hashUserData set, their
// SHA-256 digests are merged into the matching hashed field, values already
// there are hashed unless they are digests, and the raw keys are dropped.
// Without it, hashed fields are left exactly as received.
func Normalize(ud *model.UserData, hashUserData bool) *model.UserData {
	if ud == nil {
		return nil
	}

	out := ud.Clone()
	for _, f := range identifierFields {
		normalizeIdentifier(out, f, hashUserData)
	}
	return out
}

func normalizeIdentifier(ud *model.UserData, f identifierField, hashUserData bool) {
	raw := ud.Get(f.raw)
	if !raw.IsAbsent() {
		raw = f.normalize(raw)
		ud.Set(f.raw, raw)
	}

	if !hashUserData {
		return
	}

	hashed := ud.Get(f.hashed)
	if !hashed.IsAbsent() {
		hashed = sanitizer.HashData(hashed)
	}
	ud.Set(f.hashed, sanitizer.Append(hashed, sanitizer.HashData(raw)))
	ud.Set(f.raw, model.Absent())
}
