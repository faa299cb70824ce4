package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"store-ratings/internal/config"
	"store-ratings/internal/models"
	"store-ratings/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

type AdminHandler struct {
	userService  *services.UserService
	storeService *services.StoreService
	statsService *services.StatsService
	logger       zerolog.Logger
}

func NewAdminHandler(db *sql.DB, cfg *config.Config, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		userService:  services.NewUserService(db, cfg, logger),
		storeService: services.NewStoreService(db, logger),
		statsService: services.NewStatsService(db, logger),
		logger:       logger,
	}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.PlatformStats()
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// CreateUser is the admin create path; unlike self-registration the role is
// selectable.
func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	user, err := h.userService.CreateUser(&req)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, user)
}

func (h *AdminHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &models.UserFilter{
		Name:    q.Get("name"),
		Email:   q.Get("email"),
		Address: q.Get("address"),
		Role:    q.Get("role"),
		Sort:    q.Get("sort"),
		Order:   q.Get("order"),
		Limit:   queryInt(r, "limit", 20),
		Offset:  queryInt(r, "offset", 0),
	}

	users, err := h.userService.ListUsers(filter)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"data":   users,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
}

// GetUserDetails returns one user; owners additionally carry their stores
// with current averages.
func (h *AdminHandler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_user_id", "Invalid user ID")
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	details := models.UserDetails{User: user}
	if user.Role == string(models.RoleOwner) {
		stores, err := h.storeService.OwnedStoreSummaries(user.ID)
		if err != nil {
			respondWithAppError(w, h.logger, err)
			return
		}
		details.Stores = stores
	}

	respondWithJSON(w, http.StatusOK, details)
}

func (h *AdminHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	store, err := h.storeService.CreateStore(&req)
	if err != nil {
		respondWithAppError(w, h.logger, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, store)
}

func (h *AdminHandler) GetStores(w http.ResponseWriter, r *http.Request) {
	filter := storeFilterFromQuery(r)

	stores, err := h.storeService.ListStores(filter, nil)
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
