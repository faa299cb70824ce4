package router

import (
	"database/sql"
	"net/http"

	"store-ratings/internal/config"
	"store-ratings/internal/handlers"
	"store-ratings/internal/middleware"
	"store-ratings/internal/models"
	"store-ratings/internal/services"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

func SetupRouter(db *sql.DB, cfg *config.Config, logger zerolog.Logger) *mux.Router {
	authService := services.NewAuthService(cfg, logger)
	userService := services.NewUserService(db, cfg, logger)

	authHandler := handlers.NewAuthHandler(db, cfg, logger)
	userHandler := handlers.NewUserHandler(db, cfg, logger)
	storeHandler := handlers.NewStoreHandler(db, logger)
	ratingHandler := handlers.NewRatingHandler(db, logger)
	adminHandler := handlers.NewAdminHandler(db, cfg, logger)
	ownerHandler := handlers.NewOwnerHandler(db, logger)

	authenticate := middleware.Authentication(authService, userService, logger)
	maybeAuthenticate := middleware.OptionalAuthentication(authService, userService, logger)

	r := mux.NewRouter()

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	r.Use(middleware.ErrorHandling(logger))
	r.Use(middleware.PerformanceMonitoring(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())
	r.Use(rateLimiter.Middleware())

	auth := r.PathPrefix("/auth").Subrouter()
	auth.Use(middleware.RequestValidation())
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")

	users := r.PathPrefix("/users").Subrouter()
	users.Use(authenticate)
	users.HandleFunc("/profile", userHandler.GetProfile).Methods("GET")
	users.HandleFunc("/password", userHandler.ChangePassword).Methods("PUT")

	// The store listing is browsable anonymously; authenticated callers get
	// their own rating echoed per store.
	stores := r.PathPrefix("/stores").Subrouter()
	stores.Handle("", maybeAuthenticate(http.HandlerFunc(storeHandler.ListStores))).Methods("GET")
	stores.Handle("/{id:[0-9]+}/ratings", authenticate(http.HandlerFunc(storeHandler.GetStoreRatings))).Methods("GET")

	ratings := r.PathPrefix("/ratings").Subrouter()
	ratings.Use(authenticate)
	ratings.Use(middleware.RequestValidation())
	ratings.HandleFunc("/{id:[0-9]+}/rate", ratingHandler.Rate).Methods("POST")

	admin := r.PathPrefix("/admin").Subrouter()
	admin.Use(authenticate)
	admin.Use(middleware.RequireRole(string(models.RoleAdmin)))
	admin.HandleFunc("/stats", adminHandler.Stats).Methods("GET")
	admin.HandleFunc("/users", adminHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users", adminHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", adminHandler.GetUserDetails).Methods("GET")
	admin.HandleFunc("/stores", adminHandler.CreateStore).Methods("POST")
	admin.HandleFunc("/stores", adminHandler.GetStores).Methods("GET")

	owner := r.PathPrefix("/owner").Subrouter()
	owner.Use(authenticate)
	owner.Use(middleware.RequireRole(string(models.RoleOwner)))
	owner.HandleFunc("/dashboard", ownerHandler.Dashboard).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	return r
}
