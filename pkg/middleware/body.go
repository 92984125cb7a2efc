package middleware

import (
	"errors"
	apperrors "hashgate/pkg/errors"
	"net/http"
)

// writeBodyError reports a failure to buffer the request body.
func writeBodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		_ = apperrors.WriteError(w, apperrors.PayloadTooLarge(maxErr.Limit))
		return
	}
	_ = apperrors.WriteError(w, apperrors.InvalidInputWrap("failed to read request body", err))
}
