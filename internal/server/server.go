// Package server provides the HTTP REST API for the profile consolidator.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/profile-consolidator/internal/errs"
	"github.com/jonathan/profile-consolidator/internal/jobs"
	"github.com/jonathan/profile-consolidator/internal/pipeline"
	"github.com/jonathan/profile-consolidator/internal/server/middleware"
	"github.com/jonathan/profile-consolidator/internal/types"
)

// ProfileReader loads previously persisted profiles.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID int64) (*types.Profile, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer   *http.Server
	orchestrator *pipeline.Orchestrator
	queue        *jobs.Queue
	profiles     ProfileReader
	jwtService   *JWTService
	validate     *validator.Validate
	logger       *zap.Logger
}

// Config holds server configuration
type Config struct {
	Port      int
	JWTSecret string
}

// New creates a new server instance. The orchestrator handles synchronous
// consolidation requests and the queue handles async ones.
func New(cfg Config, orch *pipeline.Orchestrator, queue *jobs.Queue, profiles ProfileReader, logger *zap.Logger) (*Server, error) {
	if orch == nil {
		return nil, fmt.Errorf("orchestrator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		orchestrator: orch,
		queue:        queue,
		profiles:     profiles,
		validate:     validator.New(),
		logger:       logger,
	}

	jwtService, err := NewJWTService(JWTConfig{Secret: cfg.JWTSecret})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}
	s.jwtService = jwtService

	auth := middleware.AuthMiddleware(jwtService)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("POST /consolidate", auth(http.HandlerFunc(s.handleConsolidate)))
	mux.Handle("POST /consolidate/async", auth(http.HandlerFunc(s.handleConsolidateAsync)))
	mux.Handle("GET /tasks/{id}", auth(http.HandlerFunc(s.handleGetTask)))
	mux.Handle("GET /profiles/{user_id}", auth(http.HandlerFunc(s.handleGetProfile)))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for model calls
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-stop
	s.logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.queue != nil {
		s.queue.Stop()
	}

	s.logger.Info("server stopped")
	return nil
}

// ConsolidateRequest represents the request body for /consolidate
type ConsolidateRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// ConsolidateResponse represents the response for /consolidate
type ConsolidateResponse struct {
	Profile *types.Profile `json:"profile"`
}

// TaskResponse represents the response for async consolidation and task lookup
type TaskResponse struct {
	Task jobs.Task `json:"task"`
}

// handleConsolidate runs the consolidation pipeline synchronously and
// returns the persisted profile.
func (s *Server) handleConsolidate(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeConsolidateRequest(w, r)
	if !ok {
		return
	}

	profile, err := s.orchestrator.ConsolidateUserProfile(r.Context(), req.UserID).Unpack()
	if err != nil {
		s.pipelineError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ConsolidateResponse{Profile: profile})
}

// handleConsolidateAsync enqueues a consolidation task and returns immediately.
func (s *Server) handleConsolidateAsync(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Async processing is not enabled")
		return
	}

	req, ok := s.decodeConsolidateRequest(w, r)
	if !ok {
		return
	}

	id, err := s.queue.Enqueue(req.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Queue is full, try again later")
		return
	}

	task, _ := s.queue.Get(id)
	s.jsonResponse(w, http.StatusAccepted, TaskResponse{Task: task})
}

// handleGetTask returns the status of an async consolidation task.
func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	if s.queue == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Async processing is not enabled")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	task, ok := s.queue.Get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Task not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, TaskResponse{Task: task})
}

// handleGetProfile returns the stored profile for a user, if any.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	var userID int64
	if _, err := fmt.Sscanf(r.PathValue("user_id"), "%d", &userID); err != nil || userID <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if s.profiles == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Profile lookup is not enabled")
		return
	}

	profile, err := s.profiles.GetProfile(r.Context(), userID)
	if err != nil {
		s.pipelineError(w, err)
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, ConsolidateResponse{Profile: profile})
}

func (s *Server) decodeConsolidateRequest(w http.ResponseWriter, r *http.Request) (ConsolidateRequest, bool) {
	var req ConsolidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return req, false
	}
	if err := s.validate.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "user_id must be a positive integer")
		return req, false
	}
	return req, true
}

// pipelineError maps pipeline error kinds to HTTP status codes.
func (s *Server) pipelineError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errs.KindOf(err) {
	case errs.KindInvalidArgument:
		status = http.StatusBadRequest
	case errs.KindNoDataAvailable:
		status = http.StatusNotFound
	case errs.KindUnknownProvider, errs.KindUnknownStrategy:
		status = http.StatusBadRequest
	case errs.KindExternalService:
		status = http.StatusBadGateway
	case errs.KindMalformedModelOutput, errs.KindSchemaValidation:
		status = http.StatusBadGateway
	case errs.KindPersistence:
		status = http.StatusInternalServerError
	}

	var e *errs.Error
	message := "Internal server error"
	if errors.As(err, &e) {
		message = e.Message
	}
	s.errorResponse(w, status, message)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}
