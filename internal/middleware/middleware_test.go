package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"store-ratings/internal/apperrors"
	"store-ratings/internal/config"
	"store-ratings/internal/models"
	"store-ratings/internal/services"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	users map[int]*models.User
}

func (f *fakeResolver) GetUserByID(userID int) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return user, nil
}

func testAuthService() *services.AuthService {
	return services.NewAuthService(&config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
	}, zerolog.Nop())
}

func okHandler(sawUser **models.User) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, ok := GetUser(r); ok {
			*sawUser = user
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthentication(t *testing.T) {
	auth := testAuthService()
	resolver := &fakeResolver{users: map[int]*models.User{
		7: {ID: 7, Email: "jordan@example.com", Role: "user"},
	}}

	validToken, err := auth.GenerateToken(7, "jordan@example.com", "user")
	require.NoError(t, err)

	deletedToken, err := auth.GenerateToken(99, "gone@example.com", "user")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + validToken, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "Token abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{"deleted user", "Bearer " + deletedToken, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawUser *models.User
			handler := Authentication(auth, resolver, zerolog.Nop())(okHandler(&sawUser))

			req := httptest.NewRequest("GET", "/users/profile", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				require.NotNil(t, sawUser)
				assert.Equal(t, 7, sawUser.ID)
			} else {
				assert.Nil(t, sawUser)

				var body ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "unauthorized", body.Error)
			}
		})
	}
}

func TestAuthenticationExpiredToken(t *testing.T) {
	expiredIssuer := services.NewAuthService(&config.Config{
		JWTSecret: "test-secret",
		JWTExpiry: -time.Hour,
	}, zerolog.Nop())
	token, err := expiredIssuer.GenerateToken(7, "jordan@example.com", "user")
	require.NoError(t, err)

	var sawUser *models.User
	handler := Authentication(testAuthService(), &fakeResolver{}, zerolog.Nop())(okHandler(&sawUser))

	req := httptest.NewRequest("GET", "/users/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthentication(t *testing.T) {
	auth := testAuthService()
	resolver := &fakeResolver{users: map[int]*models.User{
		7: {ID: 7, Email: "jordan@example.com", Role: "user"},
	}}

	token, err := auth.GenerateToken(7, "jordan@example.com", "user")
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantUser   bool
	}{
		{"with valid token", "Bearer " + token, true},
		{"anonymous", "", false},
		{"invalid token still passes through", "Bearer junk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawUser *models.User
			handler := OptionalAuthentication(auth, resolver, zerolog.Nop())(okHandler(&sawUser))

			req := httptest.NewRequest("GET", "/stores", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code, "optional auth never blocks")
			assert.Equal(t, tt.wantUser, sawUser != nil)
		})
	}
}

func TestRequireRole(t *testing.T) {
	auth := testAuthService()

	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{"admin allowed on admin route", "admin", []string{"admin"}, http.StatusOK},
		{"user rejected on admin route", "user", []string{"admin"}, http.StatusForbidden},
		{"owner allowed on owner route", "owner", []string{"owner"}, http.StatusOK},
		{"admin rejected on owner route", "admin", []string{"owner"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{users: map[int]*models.User{
				1: {ID: 1, Email: "x@example.com", Role: tt.role},
			}}
			token, err := auth.GenerateToken(1, "x@example.com", tt.role)
			require.NoError(t, err)

			var sawUser *models.User
			handler := Authentication(auth, resolver, zerolog.Nop())(
				RequireRole(tt.allowed...)(okHandler(&sawUser)))

			req := httptest.NewRequest("GET", "/admin/stats", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRequireRoleWithoutAuthentication(t *testing.T) {
	var sawUser *models.User
	handler := RequireRole("admin")(okHandler(&sawUser))

	req := httptest.NewRequest("GET", "/admin/stats", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequestValidation(t *testing.T) {
	handler := RequestValidation()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("POST", "/auth/register", nil)
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest("POST", "/auth/register", nil)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest("GET", "/stores", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, "GET requests skip the content-type check")
}

func TestErrorHandlingRecoversPanic(t *testing.T) {
	handler := ErrorHandling(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest("GET", "/stores", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal_error", body.Error)
}
