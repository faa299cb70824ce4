package router

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"store-ratings/internal/config"
	"store-ratings/internal/services"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:       "8080",
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
		RateLimit:  1000,
		RateBurst:  1000,
	}
}

func TestHealthEndpoint(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := SetupRouter(db, testConfig(), zerolog.Nop())

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := SetupRouter(db, testConfig(), zerolog.Nop())

	protected := []struct {
		method string
		path   string
	}{
		{"GET", "/users/profile"},
		{"PUT", "/users/password"},
		{"GET", "/stores/1/ratings"},
		{"POST", "/ratings/1/rate"},
		{"GET", "/admin/stats"},
		{"GET", "/admin/users"},
		{"POST", "/admin/users"},
		{"GET", "/admin/stores"},
		{"POST", "/admin/stores"},
		{"GET", "/owner/dashboard"},
	}

	for _, route := range protected {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRoleGates(t *testing.T) {
	cfg := testConfig()
	auth := services.NewAuthService(cfg, zerolog.Nop())

	userColumns := []string{"id", "name", "email", "password_hash", "address", "role", "created_at", "updated_at"}

	tests := []struct {
		name       string
		role       string
		path       string
		wantStatus int
	}{
		{"user blocked from admin stats", "user", "/admin/stats", http.StatusForbidden},
		{"owner blocked from admin stats", "owner", "/admin/stats", http.StatusForbidden},
		{"user blocked from owner dashboard", "user", "/owner/dashboard", http.StatusForbidden},
		{"admin blocked from owner dashboard", "admin", "/owner/dashboard", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			// The auth middleware resolves the token subject from the DB.
			mock.ExpectQuery("SELECT id, name, email, password_hash, address, role, created_at, updated_at FROM users WHERE id").
				WillReturnRows(sqlmock.NewRows(userColumns).
					AddRow(1, "Some Sufficiently Long Account Name", "x@example.com", "hash", nil, tt.role, time.Now(), time.Now()))

			token, err := auth.GenerateToken(1, "x@example.com", tt.role)
			require.NoError(t, err)

			r := SetupRouter(db, cfg, zerolog.Nop())
			req := httptest.NewRequest("GET", tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRegisterThroughRouter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM users WHERE email").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id, name, email, password_hash, address, role, created_at, updated_at FROM users WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "address", "role", "created_at", "updated_at"}).
			AddRow(1, "Jordan Alexander Whitfield Smith", "jordan@example.com", "hash", "12 Elm St", "user", time.Now(), time.Now()))

	r := SetupRouter(db, testConfig(), zerolog.Nop())

	body := `{"name":"Jordan Alexander Whitfield Smith","email":"jordan@example.com","password":"Secret!23","address":"12 Elm St"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"user"`)
	assert.NotContains(t, rec.Body.String(), "password", "response must not carry password material")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterRejectsShortName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := SetupRouter(db, testConfig(), zerolog.Nop())

	body := `{"name":"Jane Doe","email":"jane@example.com","password":"Secret!23"}`
	req := httptest.NewRequest("POST", "/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnonymousStoreListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT s.id, s.name, s.email, s.address, s.owner_id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "address", "owner_id", "avg_rating", "rating_count"}).
			AddRow(1, "Alpha Grocers", nil, "MG Road", nil, 4.5, 2))

	r := SetupRouter(db, testConfig(), zerolog.Nop())

	req := httptest.NewRequest("GET", "/stores", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"avg_rating":4.5`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
