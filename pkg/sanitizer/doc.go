// Package sanitizer provides normalization and hashing functions for user
// identifiers that leave the system (email addresses, phone numbers).
//
// Every function is pure and idempotent - applying it to its own output
// yields the same output. Functions never fail: empty, "undefined" or unset
// input is returned unchanged instead of producing an error.
//
// Functions are written once against a single string (a Strategy) and lifted
// over model.Value with Map, so a list of emails is normalized element by
// element and keeps its order.
//
// Normalization includes:
//   - Emails: trim, lowercase; Gmail addresses drop "+tag" and dots in the local part
//   - Phone numbers: keep digits only, prefix "+" (no country or length validation)
//   - Hashing: lowercase hex SHA-256, skipped for values that already look like a digest
//   - Merging: concatenate existing and new identifiers without duplicates
package sanitizer
