package sanitizer

import (
	"crypto/sha256"
	"encoding/hex"
	"hashgate/pkg/model"
	"regexp"
)

var reHashed = regexp.MustCompile(`^[A-Fa-f0-9]{64}$`)

// IsHashed reports whether s already looks like a hex SHA-256 digest.
func IsHashed(s string) bool {
	return reHashed.MatchString(s)
}

func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func hashOnce(s string) string {
	if IsHashed(s) {
		return s
	}
	return SHA256Hex(s)
}

// HashData hashes every element of v that is not a digest yet.
func HashData(v model.Value) model.Value {
	return Map(v, hashOnce)
}
