package handlers

import (
	"encoding/json"
	"net/http"

	"store-ratings/internal/apperrors"

	"github.com/rs/zerolog"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, errorCode, message string) {
	respondWithJSON(w, code, map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// respondWithAppError translates a service error into the JSON error body.
// Internal causes are logged and never exposed to the caller.
func respondWithAppError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	appErr := apperrors.From(err)
	if appErr.Status >= http.StatusInternalServerError {
		logger.Error().Err(appErr).Msg("Request failed")
	}
	respondWithError(w, appErr.Status, appErr.Code, appErr.Message)
}
