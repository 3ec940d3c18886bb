package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prepdeck/backend/repository"
	"gorm.io/gorm"
)

// Server holds all server dependencies
type Server struct {
	config *Config
	repo   *repository.GORMRepository
	gormDB *gorm.DB

	geminiService *GeminiService
	voiceService  *VoiceCallService
	resumeStore   ResumeStore

	authService          *AuthService
	authEndpoints        *AuthEndpoints
	interviewerEndpoints *InterviewerEndpoints
	catalogEndpoints     *CatalogEndpoints
	sessionEndpoints     *SessionEndpoints
	userEndpoints        *UserEndpoints
	resumeEndpoints      *ResumeEndpoints
	callEndpoints        *CallEndpoints
	generateEndpoints    *GenerateEndpoints
}

// NewServer creates a new server instance
func NewServer(config *Config) *Server {
	return &Server{config: config}
}

// SetDatabase sets the database connection
func (s *Server) SetDatabase(repo *repository.GORMRepository, db *gorm.DB) {
	s.repo = repo
	s.gormDB = db
}

// InitializeServices initializes all server services
func (s *Server) InitializeServices() error {
	if s.repo == nil {
		slog.Warn("Database not configured, running without persistence")
		return nil
	}

	if s.config.AI.GeminiAPIKey != "" {
		s.geminiService = NewGeminiService(s.config.AI.GeminiAPIKey)
		slog.Info("Gemini service initialized")
	} else {
		slog.Warn("GEMINI_API_KEY not set, question generation disabled")
	}

	if err := s.config.ValidateCall(); err == nil {
		s.voiceService = NewVoiceCallService(s.config.Call)
		slog.Info("Voice-call service initialized")
	} else {
		slog.Warn("Voice-call provider disabled", "reason", err)
	}

	if err := s.config.ValidateStorage(); err == nil {
		s.resumeStore = NewKodoStore(s.config.Storage)
		slog.Info("Object storage initialized", "bucket", s.config.Storage.Bucket)
	} else {
		slog.Warn("Object storage disabled", "reason", err)
	}

	if s.config.JWT.Secret != "" {
		s.authService = NewAuthService(s.repo, s.config.JWT.Secret)
		s.authEndpoints = NewAuthEndpoints(s.authService)
		slog.Info("Authentication service initialized")
	}

	s.interviewerEndpoints = NewInterviewerEndpoints(s.repo)
	s.catalogEndpoints = NewCatalogEndpoints(s.repo)
	s.sessionEndpoints = NewSessionEndpoints(s.repo)
	s.userEndpoints = NewUserEndpoints(s.repo)
	s.resumeEndpoints = NewResumeEndpoints(s.repo, s.resumeStore)
	s.callEndpoints = NewCallEndpoints(s.repo, callProviderOrNil(s.voiceService))
	s.generateEndpoints = NewGenerateEndpoints(s.geminiService)

	return nil
}

// callProviderOrNil avoids storing a typed nil in the CallProvider interface
func callProviderOrNil(v *VoiceCallService) CallProvider {
	if v == nil {
		return nil
	}
	return v
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health endpoint
	r.Get("/health", s.healthHandler)

	// API v1 route group
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes (no middleware)
		if s.authEndpoints != nil {
			r.Route("/auth", func(r chi.Router) {
				s.authEndpoints.RegisterRoutes(r)

				r.Group(func(r chi.Router) {
					r.Use(s.authService.Middleware)
					s.authEndpoints.RegisterProtectedRoutes(r)
				})
			})
		}

		// Every user-scoped route group goes through the same auth gate
		if s.authService != nil {
			r.Group(func(r chi.Router) {
				r.Use(s.authService.Middleware)
				s.interviewerEndpoints.RegisterRoutes(r)
				s.catalogEndpoints.RegisterRoutes(r)
				s.sessionEndpoints.RegisterRoutes(r)
				s.userEndpoints.RegisterRoutes(r)
				s.resumeEndpoints.RegisterRoutes(r)
				s.callEndpoints.RegisterRoutes(r)
				s.generateEndpoints.RegisterRoutes(r)
			})
		}
	})

	return r
}

// Start starts the HTTP server
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: s.SetupRoutes(),
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "not configured"

	if s.gormDB != nil {
		if sqlDB, err := s.gormDB.DB(); err == nil {
			if err := sqlDB.Ping(); err != nil {
				dbStatus = "down"
				status = "degraded"
			} else {
				dbStatus = "up"
			}
		} else {
			dbStatus = "down"
			status = "degraded"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"` + status + `","database":"` + dbStatus + `"}`))
}
