package handlers

import (
	"database/sql"
	"net/http"
	"strconv"

	"store-ratings/internal/middleware"
	"store-ratings/internal/models"
	"store-ratings/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type StoreHandler struct {
	storeService *services.StoreService
	logger       zerolog.Logger
}

func NewStoreHandler(db *sql.DB, logger zerolog.Logger) *StoreHandler {
	return &StoreHandler{
		storeService: services.NewStoreService(db, logger),
		logger:       logger,
	}
}

// ListStores is the public store listing with averages. Auth is optional:
// an authenticated caller additionally sees their own rating per store.
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	filter := storeFilterFromQuery(r)

	var callerID *int
	if user, ok := middleware.GetUser(r); ok {
		callerID = &user.ID
	}

	stores, err := h.storeService.ListStores(filter, callerID)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, models.StoreListResponse{
		Data:   stores,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (h *StoreHandler) GetStoreRatings(w http.ResponseWriter, r *http.Request) {
	storeID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_store_id", "Invalid store ID")
		return
	}

	ratings, err := h.storeService.StoreRatings(storeID)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, ratings)
}

func storeFilterFromQuery(r *http.Request) *models.StoreFilter {
	q := r.URL.Query()
	return &models.StoreFilter{
		Search:  q.Get("search"),
		Name:    q.Get("name"),
		Address: q.Get("address"),
		Sort:    q.Get("sort"),
		Order:   q.Get("order"),
		Limit:   queryInt(r, "limit", 20),
		Offset:  queryInt(r, "offset", 0),
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
