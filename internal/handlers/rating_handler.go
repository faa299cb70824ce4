package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"store-ratings/internal/middleware"
	"store-ratings/internal/models"
	"store-ratings/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type RatingHandler struct {
	ratingService *services.RatingService
	logger        zerolog.Logger
}

func NewRatingHandler(db *sql.DB, logger zerolog.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: services.NewRatingService(db, logger),
		logger:        logger,
	}
}

// Rate upserts the caller's rating for the store in the path: 201 on first
// submission, 200 when an existing rating was overwritten.
func (h *RatingHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	storeID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_store_id", "Invalid store ID")
		return
	}

	var req models.RateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "validation_error", "Rating must be integer 1-5")
		return
	}

	rating, created, err := h.ratingService.Upsert(userID, storeID, &req)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondWithJSON(w, status, rating)
}
