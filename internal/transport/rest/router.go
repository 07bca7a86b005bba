package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"interviewlab/internal/catalog"
	"interviewlab/internal/service"
	"interviewlab/internal/transport/rest/handler"
	"interviewlab/internal/transport/rest/middleware"
	"interviewlab/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService     *service.AuthService
	SessionService  *service.SessionService
	FeedbackService *service.FeedbackService
	ProgressService *service.ProgressService
	Catalog         *catalog.Catalog
	WSHub           *ws.Hub
	Logger          *zap.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	stageHandler := handler.NewStageHandler(c.Catalog)
	sessionHandler := handler.NewSessionHandler(c.SessionService, c.AuthService)
	reportHandler := handler.NewReportHandler(c.FeedbackService, c.ProgressService, c.SessionService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.Logger)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/stages", stageHandler.List).Methods("GET", "OPTIONS")
	v1.HandleFunc("/stages/{stageId}", stageHandler.Get).Methods("GET", "OPTIONS")
	v1.HandleFunc("/sessions", sessionHandler.Create).Methods("POST", "OPTIONS")

	// WebSocket routes (token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}/coach", wsHandler.CoachWS).Methods("GET")
	v1.HandleFunc("/ws/sessions/{sessionId}/trainee", wsHandler.TraineeWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Trainee routes (session-scoped token)
	traineeRoutes := v1.NewRoute().Subrouter()
	traineeRoutes.Use(authMW.RequireTrainee)

	traineeRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{sessionId}/start", sessionHandler.Start).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{sessionId}/turns", sessionHandler.AppendTurn).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{sessionId}/hints", sessionHandler.RecordHint).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{sessionId}/end", sessionHandler.End).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{sessionId}/complete", sessionHandler.Complete).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/sessions/{sessionId}/retake", sessionHandler.Retake).Methods("POST", "OPTIONS")
	traineeRoutes.HandleFunc("/reports/{sessionId}", reportHandler.Get).Methods("GET", "OPTIONS")

	// Coach routes (coach token)
	coachRoutes := v1.NewRoute().Subrouter()
	coachRoutes.Use(authMW.RequireCoach)

	coachRoutes.HandleFunc("/stages/{stageId}/leaderboard", reportHandler.Leaderboard).Methods("GET", "OPTIONS")
	coachRoutes.HandleFunc("/sessions/{sessionId}/report/regenerate", reportHandler.Regenerate).Methods("POST", "OPTIONS")
	coachRoutes.HandleFunc("/trainees/{traineeId}/progress", reportHandler.Progress).Methods("GET", "OPTIONS")

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
