package errors

import (
	"encoding/json"
	"net/http"
)

// WriteError writes err as a JSON error body. Errors that are not an
// AppError are reported as internal errors without leaking their text.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := AsAppError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())

	// No recovery possible after WriteHeader; return so the caller can log.
	return json.NewEncoder(w).Encode(appErr.Response())
}
