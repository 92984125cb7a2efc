package middleware

import (
	apperrors "hashgate/pkg/errors"
	"net/http"
)

// MaxRequestSize rejects bodies that announce a length above limit and caps
// the rest with http.MaxBytesReader, whose error handlers should map to 413.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = apperrors.WriteError(w, apperrors.PayloadTooLarge(limit))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, limit)
			next.ServeHTTP(w, r)
		})
	}
}
