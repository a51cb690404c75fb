package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"manova/internal/repository"
	"manova/internal/service"
	"manova/internal/transport/rest/handler"
	"manova/internal/transport/rest/middleware"
	"manova/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	AuthService     *service.AuthService
	AnalysisService *service.AnalysisService
	CheckInRepo     repository.CheckInRepo
	MoodRepo        repository.MoodRepo
	ArticleRepo     repository.ArticleRepo
	PostRepo        repository.PostRepo
	UserRepo        repository.UserRepo
	WSHandler       *ws.Handler
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	checkInHandler := handler.NewCheckInHandler(c.AnalysisService, c.CheckInRepo)
	moodHandler := handler.NewMoodHandler(c.MoodRepo)
	articleHandler := handler.NewArticleHandler(c.ArticleRepo)
	postHandler := handler.NewPostHandler(c.PostRepo, c.UserRepo)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/register", authHandler.Register).Methods("POST", "OPTIONS")
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (public with token in query param)
	v1.HandleFunc("/ws/events", c.WSHandler.Events).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/checkins", checkInHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/checkins", checkInHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/checkins/decision", checkInHandler.LatestDecision).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/checkins/{id}", checkInHandler.Get).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/moods", moodHandler.Log).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/moods", moodHandler.List).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/articles", articleHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/articles/{id}", articleHandler.Get).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/posts", postHandler.Create).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/posts", postHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/posts/{id}/like", postHandler.Like).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
