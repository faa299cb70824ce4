package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"store-ratings/internal/config"
	"store-ratings/internal/middleware"
	"store-ratings/internal/models"
	"store-ratings/internal/services"

	"github.com/rs/zerolog"
)

type UserHandler struct {
	userService *services.UserService
	logger      zerolog.Logger
}

func NewUserHandler(db *sql.DB, cfg *config.Config, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db, cfg, logger),
		logger:      logger,
	}
}

// GetProfile returns the authenticated caller's own record. The middleware
// already resolved it from the database, so no second lookup is needed.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.userService.ChangePassword(userID, &req); err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Password updated successfully",
	})
}
