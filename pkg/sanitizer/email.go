package sanitizer

import (
	"hashgate/pkg/model"
	"strings"
)

var (
	// Providers that ignore dots and "+tag" suffixes in the local part.
	gmailDomains = map[string]bool{
		"gmail.com":      true,
		"googlemail.com": true,
	}

	emailPipeline = Pipeline{
		trimAndLower,
		canonicalizeGmail,
	}
)

func canonicalizeGmail(email string) string {
	local, domain, found := strings.Cut(email, "@")
	if !found || !gmailDomains[domain] {
		return email
	}

	local, _, _ = strings.Cut(local, "+")
	local = strings.ReplaceAll(local, ".", "")

	return local + "@" + domain
}

// CanonicalEmail trims and lowercases an address; Gmail addresses also lose
// their "+tag" suffix and the dots in the local part.
func CanonicalEmail(email string) string {
	return emailPipeline.Apply(email)
}

func NormalizeEmail(v model.Value) model.Value {
	return Map(v, CanonicalEmail)
}
