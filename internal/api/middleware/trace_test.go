package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenexcards/tenex-api/internal/api/middleware"
	"github.com/tenexcards/tenex-api/internal/api/shared"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var traceID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/health", nil)

	middleware.TraceMiddleware(handler).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, traceID, shared.TraceIDLength*2)
}
