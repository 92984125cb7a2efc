package errors

import "errors"

var (
	// ErrInvalidEvent marks an event that is not a JSON object or whose
	// user_data cannot be decoded. Retrying it never helps.
	ErrInvalidEvent = errors.New("invalid event")
)
