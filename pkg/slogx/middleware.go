package slogx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/devssoidp/pkg/idx"
)

// Request headers read by HTTPMiddleware.
const (
	RequestIDHeader     = "X-Request-ID"
	CorrelationIDHeader = "correlationId"
)

// HTTPMiddleware logs requests and attaches a contextual logger into request context.
// The request id is echoed back in the X-Request-ID response header; a
// caller-supplied id is kept only when it is a valid ULID.
func HTTPMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			// Only a well-formed ULID from the caller is trusted; anything
			// else is replaced before it reaches a log line or a header.
			reqID, err := idx.Parse(r.Header.Get(RequestIDHeader))
			if err != nil {
				reqID = idx.New()
			}
			w.Header().Set(RequestIDHeader, reqID.String())

			logger := base.With(
				"req_id", reqID.String(),
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
			)
			ctx := WithCorrelationID(WithContext(r.Context(), logger), r.Header.Get(CorrelationIDHeader))
			logger = FromContext(ctx)
			r = r.WithContext(ctx)

			// Serve request
			next.ServeHTTP(rw, r)

			duration := time.Since(start).Milliseconds()
			logger.Info("http_request",
				"status", rw.status,
				"duration_ms", duration,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type responseWriter struct {
	http.ResponseWriter

	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
