package slogx_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/devssoidp/pkg/slogx"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	log := slogx.New(slogx.Config{
		Service:  "devssoidp",
		Version:  "test",
		Env:      "test",
		Level:    "warn",
		Instance: "abc",
		Writer:   &buf,
	})

	log.Info("dropped")
	require.Zero(t, buf.Len(), "info is below warn")

	log.Warn("kept", "client_id", "relying_party")
	line := buf.Bytes()
	require.Equal(t, "kept", gjson.GetBytes(line, "msg").String())
	require.Equal(t, "devssoidp", gjson.GetBytes(line, "service").String())
	require.Equal(t, "abc", gjson.GetBytes(line, "instance").String())
	require.Equal(t, "relying_party", gjson.GetBytes(line, "client_id").String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, slogx.ParseLevel(tt.in))
		})
	}
}

func TestHTTPMiddleware(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	var inner *slog.Logger
	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inner = slogx.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("propagates ids", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/token", nil)
		req.Header.Set(slogx.RequestIDHeader, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV")
		req.Header.Set(slogx.CorrelationIDHeader, "abc123")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", rec.Header().Get(slogx.RequestIDHeader))

		line := buf.Bytes()
		require.Equal(t, "http_request", gjson.GetBytes(line, "msg").String())
		require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", gjson.GetBytes(line, "req_id").String())
		require.Equal(t, "abc123", gjson.GetBytes(line, "correlation_id").String())
		require.Equal(t, int64(http.StatusTeapot), gjson.GetBytes(line, "status").Int())
		require.NotSame(t, base, inner)
	})

	t.Run("mints a request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		reqID := rec.Header().Get(slogx.RequestIDHeader)
		require.Len(t, reqID, 26)
		require.Equal(t, reqID, gjson.GetBytes(buf.Bytes(), "req_id").String())
	})

	t.Run("replaces a malformed request id", func(t *testing.T) {
		for _, supplied := range []string{"req-1", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV\r\nX-Evil: 1", strings.Repeat("a", 4096)} {
			buf.Reset()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(slogx.RequestIDHeader, supplied)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			reqID := rec.Header().Get(slogx.RequestIDHeader)
			require.NotEqual(t, supplied, reqID)
			require.Len(t, reqID, 26)
			require.Equal(t, reqID, gjson.GetBytes(buf.Bytes(), "req_id").String())
		}
	})
}

func TestFromContext(t *testing.T) {
	require.Same(t, slog.Default(), slogx.FromContext(context.Background()))

	var buf bytes.Buffer
	ctx := slogx.WithContext(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = slogx.WithCorrelationID(ctx, "corr-9")
	slogx.FromContext(ctx).Info("hello")

	require.Equal(t, "corr-9", gjson.GetBytes(buf.Bytes(), "correlation_id").String())
}
