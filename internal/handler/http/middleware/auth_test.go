package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hr-portal-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-portal-go/internal/pkg/jwt"
)

func newProtectedRouter(svc jwt.Service) http.Handler {
	r := chi.NewRouter()
	r.Use(svc.Verifier())
	r.Use(AuthRequired(svc))
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		n, ok := EmployeeNumber(r.Context())
		if !ok {
			http.Error(w, "missing", http.StatusInternalServerError)
			return
		}
		response.Success(w, map[string]int{"num_empleado": n})
	})
	return r
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return body.Error.Message
}

func TestAuthRequired(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour, false)
	router := newProtectedRouter(svc)
	token, _, err := svc.GenerateAccessToken(1001, "Ana López")
	require.NoError(t, err)

	t.Run("no token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, response.MsgTokenNotFound, errorMessage(t, rec))
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, response.MsgInvalidToken, errorMessage(t, rec))
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"num_empleado":1001`)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: jwt.CookieName, Value: token})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong token type", func(t *testing.T) {
		_, other, err := svc.JWTAuth().Encode(map[string]interface{}{
			jwt.ClaimEmployeeNumber: 1001,
			jwt.ClaimType:           "refresh",
			"exp":                   time.Now().Add(time.Hour).Unix(),
		})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+other)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthRequired_RevokedToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour, false)
	router := newProtectedRouter(svc)
	token, exp, err := svc.GenerateAccessToken(1001, "")
	require.NoError(t, err)

	svc.RevokeToken(token, exp)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, response.MsgInvalidToken, errorMessage(t, rec))
}
