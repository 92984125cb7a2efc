package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"hashgate/pkg/config"
	"hashgate/pkg/logger"
	"hashgate/pkg/middleware"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeHandler struct {
	register func(router *httprouter.Router)
}

func (h routeHandler) RegisterRoutes(router *httprouter.Router) {
	h.register(router)
}

func healthRoutes() routeHandler {
	return routeHandler{register: func(router *httprouter.Router) {
		ok := func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		}
		router.GET("/health", ok)
		router.GET("/ready", ok)
		router.GET("/metrics", ok)
	}}
}

func echoRoutes() routeHandler {
	return routeHandler{register: func(router *httprouter.Router) {
		router.POST("/api/v1/echo", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	}}
}

type fakeWorker struct {
	startErr error
	started  atomic.Bool
	closed   atomic.Bool
}

func (w *fakeWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	if w.startErr != nil {
		return w.startErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (w *fakeWorker) Close() error {
	w.closed.Store(true)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		RateLimitRequests: 2,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    time.Second,
		MaxRequestSize:    1024,
		ReadTimeout:       time.Second,
		WriteTimeout:      2 * time.Second,
		IdleTimeout:       time.Second,
		ShutdownTimeout:   time.Second,
		Log:               logger.Discard(),
	}
}

func postJSON(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Routing(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(healthRoutes(), echoRoutes())
	defer a.rateLimiter.Stop()
	h := a.Handler()

	tests := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"health", httptest.NewRequest(http.MethodGet, "/health", nil), http.StatusOK},
		{"ready", httptest.NewRequest(http.MethodGet, "/ready", nil), http.StatusOK},
		{"metrics", httptest.NewRequest(http.MethodGet, "/metrics", nil), http.StatusOK},
		{"api", postJSON(`{"client_id":"a"}`), http.StatusOK},
		{"unknown route", httptest.NewRequest(http.MethodGet, "/nope", nil), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.req)
			assert.Equal(t, tt.want, rec.Code)
			assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
		})
	}
}

func TestHandler_AppMiddleware(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(healthRoutes(), echoRoutes())
	defer a.rateLimiter.Stop()
	h := a.Handler()

	t.Run("content type enforced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		assert.Equal(t, http.StatusUnsupportedMediaType, serve(h, req).Code)
	})

	t.Run("body size enforced", func(t *testing.T) {
		big := `{"client_id":"big","pad":"` + strings.Repeat("x", 2048) + `"}`
		assert.Equal(t, http.StatusRequestEntityTooLarge, serve(h, postJSON(big)).Code)
	})

	t.Run("rate limited per caller host", func(t *testing.T) {
		from := func(body, remote string) *http.Request {
			req := postJSON(body)
			req.RemoteAddr = remote
			return req
		}
		assert.Equal(t, http.StatusOK, serve(h, from(`{"client_id":"a"}`, "10.1.0.1:1000")).Code)
		assert.Equal(t, http.StatusOK, serve(h, from(`{"client_id":"b"}`, "10.1.0.1:1001")).Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(h, from(`{"client_id":"c"}`, "10.1.0.1:1002")).Code)
		assert.Equal(t, http.StatusOK, serve(h, from(`{"client_id":"a"}`, "10.1.0.2:1000")).Code)
	})

	t.Run("health is not rate limited", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			rec := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestHandler_Signature(t *testing.T) {
	cfg := testConfig()
	cfg.SignatureSecret = "s3cret"
	a := NewApplication(cfg)
	a.SetApp(healthRoutes(), echoRoutes())
	defer a.rateLimiter.Stop()
	h := a.Handler()

	body := `{"client_id":"signed"}`

	assert.Equal(t, http.StatusUnauthorized, serve(h, postJSON(body)).Code)

	req := postJSON(body)
	req.Header.Set(middleware.HeaderSignature, "sha256="+middleware.Sign([]byte(body), "s3cret"))
	assert.Equal(t, http.StatusOK, serve(h, req).Code)

	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/health", nil)).Code)
}

func TestHandler_WithoutAPI(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(healthRoutes(), nil)
	h := a.Handler()

	assert.Nil(t, a.rateLimiter)
	assert.Equal(t, http.StatusOK, serve(h, httptest.NewRequest(http.MethodGet, "/ready", nil)).Code)
	assert.Equal(t, http.StatusNotFound, serve(h, postJSON(`{}`)).Code)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(healthRoutes(), echoRoutes())
	w := &fakeWorker{}
	a.AddWorker(w)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.run(ctx) }()

	require.Eventually(t, w.started.Load, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after cancel")
	}
	assert.True(t, w.closed.Load())
}

func TestRun_WorkerFailure(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(healthRoutes(), nil)
	failing := &fakeWorker{startErr: errors.New("broker gone")}
	healthy := &fakeWorker{}
	a.AddWorker(failing)
	a.AddWorker(healthy)

	done := make(chan error, 1)
	go func() { done <- a.run(context.Background()) }()

	select {
	case err := <-done:
		assert.EqualError(t, err, "broker gone")
	case <-time.After(3 * time.Second):
		t.Fatal("run did not return after worker failure")
	}
	assert.True(t, failing.closed.Load())
	assert.True(t, healthy.closed.Load())
}
