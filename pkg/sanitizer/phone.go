package sanitizer

import (
	"hashgate/pkg/model"
	"regexp"
)

var reNonDigit = regexp.MustCompile(`\D`)

// DigitsWithPlus keeps only the digits of a phone number and prefixes "+".
// The result is not checked for a country code or a plausible length.
func DigitsWithPlus(phone string) string {
	if phone == "" {
		return ""
	}
	return "+" + reNonDigit.ReplaceAllString(phone, "")
}

func NormalizePhoneNumber(v model.Value) model.Value {
	return Map(v, DigitsWithPlus)
}
