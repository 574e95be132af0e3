package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type mockPinger struct {
	PingFunc func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}

func setupRouter(pingers map[string]Pinger) *gin.Engine {
	h := NewHealthHandler(pingers)
	r := gin.New()
	r.GET("/healthz", h.Health)
	r.HEAD("/healthz", h.Health)
	r.OPTIONS("/healthz", h.Health)
	r.POST("/healthz", h.Health)
	return r
}

func healthyPingers() map[string]Pinger {
	return map[string]Pinger{"database": &mockPinger{PingFunc: func(context.Context) error { return nil }}}
}

func TestHealth_GET(t *testing.T) {
	t.Parallel()

	router := setupRouter(healthyPingers())
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestHealth_DependencyDown(t *testing.T) {
	t.Parallel()

	router := setupRouter(map[string]Pinger{
		"database": &mockPinger{PingFunc: func(context.Context) error { return errors.New("connection refused") }},
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"unavailable","dependency":"database"}`, w.Body.String())
}

func TestHealth_NilPingerSkipped(t *testing.T) {
	t.Parallel()

	router := setupRouter(map[string]Pinger{"redis": nil})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth_ResponseStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		method         string
		expectedStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodHead, http.StatusOK},
		{http.MethodOptions, http.StatusNoContent},
		{http.MethodPost, http.StatusOK},
	}

	router := setupRouter(healthyPingers())

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/healthz", nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			if tt.method == http.MethodHead {
				assert.Zero(t, w.Body.Len())
			}
		})
	}
}
