package middleware

import (
	"encoding/json"
	"fmt"
	apperrors "hashgate/pkg/errors"
	"hashgate/pkg/logger"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var resp apperrors.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestMaxRequestSize(t *testing.T) {
	readAll := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			writeBodyError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	h := MaxRequestSize(8)(readAll)

	tests := []struct {
		name       string
		body       string
		unknownLen bool
		wantStatus int
	}{
		{name: "within limit", body: "{}", wantStatus: http.StatusOK},
		{name: "declared length too large", body: `{"a":"bcdefgh"}`, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "streamed body too large", body: `{"a":"bcdefgh"}`, unknownLen: true, wantStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.unknownLen {
				req.ContentLength = -1
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, apperrors.CodePayloadTooLarge, decodeError(t, rec).Code)
			}
		})
	}
}

func TestContentTypeValidation(t *testing.T) {
	h := ContentTypeValidation(logger.Discard())(okHandler)

	tests := []struct {
		name        string
		method      string
		contentType string
		wantStatus  int
	}{
		{"json post", http.MethodPost, "application/json", http.StatusOK},
		{"json with charset", http.MethodPost, "application/json; charset=utf-8", http.StatusOK},
		{"form post", http.MethodPost, "application/x-www-form-urlencoded", http.StatusUnsupportedMediaType},
		{"missing header", http.MethodPost, "", http.StatusUnsupportedMediaType},
		{"get without header", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSignatureVerification(t *testing.T) {
	const secret = "s3cret"
	body := `{"user_data":{"email":"a@b.com"},"hash_user_data":true}`

	var seen string
	h := SignatureVerification(secret, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		signature  string
		wantStatus int
	}{
		{"valid with prefix", "sha256=" + Sign([]byte(body), secret), http.StatusOK},
		{"valid without prefix", Sign([]byte(body), secret), http.StatusOK},
		{"valid upper case", strings.ToUpper(Sign([]byte(body), secret)), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", Sign([]byte(body), "other"), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = ""
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
			if tt.signature != "" {
				req.Header.Set(HeaderSignature, tt.signature)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, body, seen, "body must be readable downstream")
			} else {
				assert.Equal(t, apperrors.CodeUnauthorized, decodeError(t, rec).Code)
			}
		})
	}
}

func TestClientRateLimiter_Allow(t *testing.T) {
	rl := NewClientRateLimiter(2, time.Minute, logger.Discard())
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("client-a"))
	assert.True(t, rl.Allow("client-a"))
	assert.False(t, rl.Allow("client-a"))
	assert.True(t, rl.Allow("client-b"), "clients are limited independently")

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("client-a"), "window slides")
}

func TestClientRateLimiter_EvictIdle(t *testing.T) {
	rl := NewClientRateLimiter(1, time.Minute, logger.Discard())
	defer rl.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	rl.Allow("client-a")

	now = now.Add(2 * time.Minute)
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.requests)
}

func TestClientRateLimit_Middleware(t *testing.T) {
	rl := NewClientRateLimiter(1, time.Minute, logger.Discard())
	defer rl.Stop()

	var seen []string
	h := ClientRateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		seen = append(seen, string(b))
		w.WriteHeader(http.StatusOK)
	}))

	send := func(body, remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(`{"client_id":"c1"}`, "10.0.0.1:1000"))

	// Keyed by host, port ignored.
	assert.Equal(t, http.StatusTooManyRequests, send(`{"client_id":"c1"}`, "10.0.0.1:2000"))

	// Changing the body identity does not reset the caller's quota.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusTooManyRequests, send(fmt.Sprintf(`{"client_id":"c%d"}`, i+2), "10.0.0.1:1000"))
	}

	// Another caller claiming the same client id keeps its own quota.
	assert.Equal(t, http.StatusOK, send(`{"client_id":"c1"}`, "10.0.0.2:1000"))

	assert.Equal(t, []string{`{"client_id":"c1"}`, `{"client_id":"c1"}`}, seen)
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, apperrors.CodeInternal, resp.Code)
	assert.NotContains(t, resp.Message, "boom")
}

func TestRequestTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apperrors.CodeTimeout, decodeError(t, rec).Code)
}

func TestRequestTimeout_FastHandler(t *testing.T) {
	h := RequestTimeout(time.Second)(okHandler)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogging_RequestID(t *testing.T) {
	var ctxID string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, ctxID)
	assert.Equal(t, ctxID, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-42")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", ctxID)
}
