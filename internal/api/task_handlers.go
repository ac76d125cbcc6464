package api

import (
	"net/http"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
)

func (s *Server) handleTasksToday(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	log.Debug("generating today's tasks")
	list, err := s.TaskService.GenerateDailyTasks(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, list)
}

func (s *Server) handleTasksMore(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	var completion models.CompletionState
	if err := decodeJSON(r, &completion); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("requesting additional tasks")
	result, err := s.TaskService.AddMoreTasks(r.Context(), userID, completion)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}
