// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/portal/internal/platform/constants"
	"github.com/taibuivan/portal/internal/platform/ctxutil"
	"github.com/taibuivan/portal/internal/platform/middleware"
)

type envStub struct{ development bool }

func (e envStub) IsDevelopment() bool { return e.development }

/*
TestRequestID generates an ID when missing and preserves a client-provided one.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxutil.GetRequestID(r.Context())
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set(constants.HeaderXRequestID, "client-id")
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "client-id", seen)
}

/*
TestStructuredLogger_RecordsIdentity logs status and the user resolved downstream.
*/
func TestStructuredLogger_RecordsIdentity(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	handler := middleware.StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxutil.WithIdentity(r.Context(), &ctxutil.Identity{UserID: "user-1", SessionID: "session-1"})
		w.WriteHeader(http.StatusTeapot)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/user", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &entry))
	assert.Equal(t, "http_request_finished", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "/api/v1/user", entry["path"])
}

/*
TestPanicRecovery converts a panic into the standard 500 body.
*/
func TestPanicRecovery(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	handler := middleware.PanicRecovery(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "InternalServerError", body["name"])
	assert.NotContains(t, recorder.Body.String(), "boom")
}

/*
TestCORS covers allow-listed, rejected and development origins.
*/
func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	tests := []struct {
		name        string
		development bool
		origin      string
		wantAllowed bool
	}{
		{"allow-listed", false, "https://portal.example.com", true},
		{"unknown in production", false, "https://evil.example.com", false},
		{"any in development", true, "http://localhost:3000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.CORS(envStub{tt.development}, []string{"https://portal.example.com"})(next)

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if tt.wantAllowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", recorder.Header().Get("Access-Control-Allow-Credentials"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestCORS_Preflight short-circuits OPTIONS pre-flight requests.
*/
func TestCORS_Preflight(t *testing.T) {
	called := false
	handler := middleware.CORS(envStub{true}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))

	request := httptest.NewRequest(http.MethodOptions, "/api/v1/sessions", nil)
	request.Header.Set("Origin", "http://localhost:3000")
	request.Header.Set("Access-Control-Request-Method", http.MethodPost)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.False(t, called)
}

/*
TestRealIP prefers proxy headers over the remote address.
*/
func TestRealIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXForwardedFor, "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", middleware.RealIP(request))

	request.Header.Set(constants.HeaderXRealIP, "198.51.100.2")
	assert.Equal(t, "198.51.100.2", middleware.RealIP(request))
}

/*
TestHTTPMetrics labels requests by route pattern and status.
*/
func TestHTTPMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := middleware.NewHTTPMetrics(registry)

	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/api/v1/users/{username}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, name := range []string{"alice", "bob"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/users/"+name, nil))
	}

	count, err := testutil.GatherAndCount(registry, "portal_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := registry.Gather()
	require.NoError(t, err)

	var found bool
	for _, family := range families {
		if family.GetName() != "portal_http_requests_total" {
			continue
		}
		metric := family.GetMetric()[0]
		assert.EqualValues(t, 2, metric.GetCounter().GetValue())
		for _, label := range metric.GetLabel() {
			if label.GetName() == "route" {
				assert.Equal(t, "/api/v1/users/{username}", label.GetValue())
				found = true
			}
		}
	}
	assert.True(t, found)
}
