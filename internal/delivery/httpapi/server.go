package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/conversation"
	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
	"github.com/aliskhannn/devchallenge-bot/internal/service"
)

const maxBodyBytes = 1 << 20

type Dispatcher interface {
	Handle(ctx context.Context, userID, text string) conversation.Reply
}

type RosterService interface {
	Register(ctx context.Context, userID string) ([]entities.ScheduleSlot, error)
	Unregister(ctx context.Context, userID string) error
}

type Scheduler interface {
	Trigger(ctx context.Context, tod entities.TimeOfDay) (*service.TriggerReport, error)
	Status(ctx context.Context) (*service.SchedulerStatus, error)
}

// Server exposes the A2A bridge and the scheduler admin API.
type Server struct {
	server     *http.Server
	router     *http.ServeMux
	handler    http.Handler
	dispatcher Dispatcher
	roster     RosterService
	scheduler  Scheduler
	logger     *zap.Logger
	now        func() time.Time
}

// NewServer builds the router and the underlying http.Server.
func NewServer(addr string, dispatcher Dispatcher, roster RosterService, scheduler Scheduler, logger *zap.Logger) *Server {
	s := &Server{
		router:     http.NewServeMux(),
		dispatcher: dispatcher,
		roster:     roster,
		scheduler:  scheduler,
		logger:     logger,
		now:        time.Now,
	}

	s.setupRoutes()

	// Last applied runs first.
	var h http.Handler = s.router
	h = Recovery(logger)(h)
	h = Logger(logger)(h)
	h = RequestID(h)
	s.handler = h

	s.server = &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /{$}", s.handleHealth)

	s.router.HandleFunc("POST /a2a/agent/challengeAgent", s.handleA2A)

	s.router.HandleFunc("POST /api/scheduler/register", s.handleRegister)
	s.router.HandleFunc("POST /api/scheduler/unregister", s.handleUnregister)
	s.router.HandleFunc("GET /api/scheduler/status", s.handleStatus)
	s.router.HandleFunc("POST /api/scheduler/trigger", s.handleTrigger)
}

// Handler returns the full middleware chain.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting http server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"service":   "devchallenge-bot",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]any{
		"success": false,
		"error":   message,
		"status":  status,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	s.jsonResponse(w, status, response)
}
