// Package middleware provides the HTTP middleware applied to API routes.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/tenexcards/tenex-api/internal/api/shared"
	"github.com/tenexcards/tenex-api/internal/platform/logger"
)

// TraceMiddleware stamps each request with a trace ID and attaches a
// trace-scoped logger to the context. Apply it first so every later
// handler and service log line carries the same trace_id.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithLogger(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
