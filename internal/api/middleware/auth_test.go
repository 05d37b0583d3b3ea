package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenexcards/tenex-api/internal/api/middleware"
	"github.com/tenexcards/tenex-api/internal/config"
	"github.com/tenexcards/tenex-api/internal/service/auth"
)

const testSecret = "test-secret-key-thats-long-enough-for-hmac"

func newTestJWTService(t *testing.T, secret string) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            secret,
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)
	return svc
}

// expiredToken signs an access token whose expiry is far enough in the
// past to defeat the validator's clock-skew leeway.
func expiredToken(t *testing.T, secret string, userID uuid.UUID) string {
	t.Helper()
	issued := time.Now().Add(-6 * time.Hour)
	claims := jwt.MapClaims{
		"uid":  userID.String(),
		"type": "access",
		"sub":  userID.String(),
		"iat":  issued.Unix(),
		"exp":  issued.Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// protectedHandler records whether it ran and which user ID it saw.
type protectedHandler struct {
	called bool
	userID uuid.UUID
	found  bool
}

func (h *protectedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.userID, h.found = middleware.GetUserID(r)
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticateValidToken(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t, testSecret)
	userID := uuid.New()
	token, err := jwtService.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	handler := &protectedHandler{}
	mw := middleware.NewAuthMiddleware(jwtService)

	r := httptest.NewRequest(http.MethodPost, "/api/generations", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	mw.Authenticate(handler).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, handler.called)
	assert.True(t, handler.found)
	assert.Equal(t, userID, handler.userID)
}

func TestAuthenticateRejections(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t, testSecret)
	mw := middleware.NewAuthMiddleware(jwtService)

	otherService := newTestJWTService(t, strings.Repeat("other-secret-", 4))
	foreignToken, err := otherService.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantBody   string
	}{
		{name: "missing header", authHeader: "", wantBody: "Authorization header required"},
		{name: "no bearer prefix", authHeader: "token abc", wantBody: "Invalid authorization format"},
		{name: "malformed header", authHeader: "Bearer", wantBody: "Invalid authorization format"},
		{name: "garbage token", authHeader: "Bearer not.a.jwt", wantBody: "Invalid token"},
		{name: "wrong signing key", authHeader: "Bearer " + foreignToken, wantBody: "Invalid token"},
		{
			name:       "expired token",
			authHeader: "Bearer " + expiredToken(t, testSecret, uuid.New()),
			wantBody:   "Token expired",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			handler := &protectedHandler{}
			r := httptest.NewRequest(http.MethodPost, "/api/generations", nil)
			if tc.authHeader != "" {
				r.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()

			mw.Authenticate(handler).ServeHTTP(w, r)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.wantBody)
			assert.False(t, handler.called)
		})
	}
}

func TestGetUserIDWithoutAuth(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	_, found := middleware.GetUserID(r)
	assert.False(t, found)
}
