package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"store-ratings/internal/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratePostRequest(t *testing.T, storeID, body string, userID int) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", "/ratings/"+storeID+"/rate", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"id": storeID})
	if userID != 0 {
		req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
	}
	return req
}

func TestRateFirstSubmissionReturns201(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM stores WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO ratings").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery("SELECT id, user_id, store_id, rating, comment, created_at, updated_at FROM ratings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "store_id", "rating", "comment", "created_at", "updated_at"}).
			AddRow(11, 2, 5, 3, nil, time.Now(), time.Now()))

	h := NewRatingHandler(db, zerolog.Nop())
	rec := httptest.NewRecorder()
	h.Rate(rec, ratePostRequest(t, "5", `{"rating":3}`, 2))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateResubmissionReturns200(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM stores WHERE id").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec("INSERT INTO ratings").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery("SELECT id, user_id, store_id, rating, comment, created_at, updated_at FROM ratings").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "store_id", "rating", "comment", "created_at", "updated_at"}).
			AddRow(11, 2, 5, 5, nil, time.Now(), time.Now()))

	h := NewRatingHandler(db, zerolog.Nop())
	rec := httptest.NewRecorder()
	h.Rate(rec, ratePostRequest(t, "5", `{"rating":5}`, 2))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"rating":5`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		storeID string
		body    string
		userID  int
		want    int
	}{
		{"unauthenticated", "5", `{"rating":3}`, 0, http.StatusUnauthorized},
		{"bad store id", "abc", `{"rating":3}`, 2, http.StatusBadRequest},
		{"rating zero", "5", `{"rating":0}`, 2, http.StatusBadRequest},
		{"rating six", "5", `{"rating":6}`, 2, http.StatusBadRequest},
		{"non-integer rating", "5", `{"rating":3.5}`, 2, http.StatusBadRequest},
		{"string rating", "5", `{"rating":"three"}`, 2, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			// Every case fails before any query, so no expectations are set.
			h := NewRatingHandler(db, zerolog.Nop())
			rec := httptest.NewRecorder()
			h.Rate(rec, ratePostRequest(t, tt.storeID, tt.body, tt.userID))

			assert.Equal(t, tt.want, rec.Code)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
