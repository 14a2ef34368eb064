package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jomkit/KitchenSync/internal/domain"
	"github.com/Jomkit/KitchenSync/pkg/middleware"
)

func loginRequest(t *testing.T, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLogin_Success(t *testing.T) {
	h := NewAuthHandler(testAuthService(t), testLogger())

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{
		"username": "kitchen@example.com",
		"password": "pass",
	}))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := testTokens().Validate(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleKitchen, claims.Role)
}

func TestLogin_MissingFields(t *testing.T) {
	h := NewAuthHandler(testAuthService(t), testLogger())

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{"username": "kitchen@example.com"}))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username and password are required")
}

func TestLogin_MalformedBody(t *testing.T) {
	h := NewAuthHandler(testAuthService(t), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "username and password are required")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(testAuthService(t), testLogger())

	rec := httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{
		"username": "kitchen@example.com",
		"password": "wrong",
	}))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")

	rec = httptest.NewRecorder()
	h.Login(rec, loginRequest(t, map[string]string{
		"username": "ghost@example.com",
		"password": "pass",
	}))

	require.Equal(t, http.StatusUnauthorized, rec.Code,
		"unknown user must look the same as a wrong password")
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestMe_ReturnsClaims(t *testing.T) {
	h := NewAuthHandler(testAuthService(t), testLogger())

	r := chi.NewRouter()
	r.With(middleware.Auth(func(string) (*middleware.Claims, error) {
		return &middleware.Claims{UserID: 3, Email: "online@example.com", Role: domain.RoleOnline}, nil
	})).Get("/auth/me", h.Me)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.UserID)
	assert.Equal(t, "online@example.com", resp.Email)
	assert.Equal(t, domain.RoleOnline, resp.Role)
}

func TestOverviewEndpoints(t *testing.T) {
	h := NewAuthHandler(testAuthService(t), testLogger())

	rec := httptest.NewRecorder()
	h.KitchenOverview(rec, httptest.NewRequest(http.MethodGet, "/kitchen/overview", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kitchen access granted")

	rec = httptest.NewRecorder()
	h.FOHOverview(rec, httptest.NewRequest(http.MethodGet, "/foh/overview", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "foh access granted")
}
