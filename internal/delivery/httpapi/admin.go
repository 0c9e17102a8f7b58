package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/devchallenge-bot/internal/domain/entities"
	"github.com/aliskhannn/devchallenge-bot/internal/service"
)

type userRequest struct {
	UserID string `json:"userId"`
}

type triggerRequest struct {
	TimeOfDay string `json:"timeOfDay"`
}

type scheduleEntry struct {
	Time string `json:"time"`
	Cron string `json:"cron"`
}

type nextRunResponse struct {
	Type entities.TimeOfDay `json:"type"`
	Time string             `json:"time"`
}

type statusResponse struct {
	Active          bool                                 `json:"active"`
	RegisteredUsers int                                  `json:"registeredUsers"`
	Schedule        map[entities.TimeOfDay]scheduleEntry `json:"schedule"`
	Timezone        string                               `json:"timezone"`
	NextRun         nextRunResponse                      `json:"nextRun"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	schedule, err := s.roster.Register(r.Context(), req.UserID)
	if err != nil {
		s.rosterError(w, "failed to register user", err)
		return
	}

	labels := make(map[entities.TimeOfDay]string, len(schedule))
	for _, slot := range schedule {
		labels[slot.TimeOfDay] = slot.Label
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  fmt.Sprintf("User %s registered for scheduled challenges", req.UserID),
		"schedule": labels,
	})
}

func (s *Server) handleUnregister(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := s.roster.Unregister(r.Context(), req.UserID); err != nil {
		s.rosterError(w, "failed to unregister user", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("User %s unregistered from scheduled challenges", req.UserID),
	})
}

func (s *Server) rosterError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, service.ErrInvalidInput) {
		s.jsonError(w, http.StatusBadRequest, "userId is required", nil)
		return
	}
	s.logger.Error(message, zap.Error(err))
	s.jsonError(w, http.StatusInternalServerError, message, err)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.scheduler.Status(r.Context())
	if err != nil {
		s.logger.Error("failed to get scheduler status", zap.Error(err))
		s.jsonError(w, http.StatusInternalServerError, "failed to get scheduler status", err)
		return
	}

	schedule := make(map[entities.TimeOfDay]scheduleEntry, len(st.Schedule))
	for _, slot := range st.Schedule {
		schedule[slot.TimeOfDay] = scheduleEntry{Time: slot.Label, Cron: slot.Spec}
	}

	s.jsonResponse(w, http.StatusOK, statusResponse{
		Active:          st.Active,
		RegisteredUsers: st.RegisteredUsers,
		Schedule:        schedule,
		Timezone:        st.Timezone,
		NextRun: nextRunResponse{
			Type: st.NextRun.Type,
			Time: st.NextRun.Time.UTC().Format(time.RFC3339),
		},
	})
}

func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	var req triggerRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	tod, err := entities.ParseTimeOfDay(req.TimeOfDay)
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, `timeOfDay must be "morning" or "evening"`, nil)
		return
	}

	report, err := s.scheduler.Trigger(r.Context(), tod)
	if err != nil {
		s.logger.Error("manual trigger failed", zap.String("time_of_day", string(tod)), zap.Error(err))
		s.jsonError(w, http.StatusInternalServerError, "failed to trigger distribution", err)
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       fmt.Sprintf("Triggered %s challenge distribution", tod),
		"affectedUsers": report.AffectedUsers,
		"sent":          report.Sent,
		"skipped":       report.Skipped,
		"failed":        report.Failed,
		"outcomes":      report.Outcomes,
	})
}
