package http

import (
	apperrors "hashgate/pkg/errors"
	"net/http"
	"strconv"
)

// ExtractBoolQuery reads an optional boolean query parameter. A missing
// parameter yields the fallback; an unparsable one is an input error.
func ExtractBoolQuery(r *http.Request, name string, fallback bool) (bool, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return fallback, nil
	}

	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, apperrors.InvalidInput("invalid " + name + " parameter: " + s)
	}
	return v, nil
}
