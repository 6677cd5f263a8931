package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProtectedRouter(tm *TokenManager) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Middleware(tm))
	r.Get("/protected", func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserID(r.Context())
		if !ok {
			http.Error(w, "no identity", http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "%d", id)
	})
	return r
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body["message"]
}

func TestMiddlewareMissingHeader(t *testing.T) {
	r := newProtectedRouter(NewTokenManager("test-secret"))

	req := httptest.NewRequest("GET", "/protected", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "Authorization header required", decodeMessage(t, rr))
}

func TestMiddlewareBadScheme(t *testing.T) {
	r := newProtectedRouter(NewTokenManager("test-secret"))

	for _, header := range []string{"Token abc", "Bearer", "Bearer a b"} {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", header)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code, "header %q", header)
	}
}

func TestMiddlewareInvalidToken(t *testing.T) {
	r := newProtectedRouter(NewTokenManager("test-secret"))

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, ErrInvalidToken.Error(), decodeMessage(t, rr))
}

func TestMiddlewareExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	r := newProtectedRouter(tm)

	token, err := tm.Generate(7, -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, ErrExpiredToken.Error(), decodeMessage(t, rr))
}

func TestMiddlewareValidToken(t *testing.T) {
	tm := NewTokenManager("test-secret")
	r := newProtectedRouter(tm)

	token, err := tm.Generate(7, 5*time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "7", rr.Body.String())
}

func TestUserIDAbsent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	_, ok := UserID(req.Context())
	assert.False(t, ok)
}
