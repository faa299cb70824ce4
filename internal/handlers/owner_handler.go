package handlers

import (
	"database/sql"
	"net/http"

	"store-ratings/internal/middleware"
	"store-ratings/internal/services"

	"github.com/rs/zerolog"
)

type OwnerHandler struct {
	storeService *services.StoreService
	logger       zerolog.Logger
}

func NewOwnerHandler(db *sql.DB, logger zerolog.Logger) *OwnerHandler {
	return &OwnerHandler{
		storeService: services.NewStoreService(db, logger),
		logger:       logger,
	}
}

// Dashboard returns the caller's stores, the combined average across them,
// and every rating grouped per store. An owner with no stores gets a 404.
func (h *OwnerHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	dashboard, err := h.storeService.OwnerDashboard(userID)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}
