package api

import (
	"net/http"

	"github.com/tomaz/masterly/internal/models"
)

func (s *Server) handleProgressionStatus(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	unitID, err := unitIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	status, err := s.ProgressionService.CanProgress(r.Context(), userID, unitID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, status)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	unitID, err := unitIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.ProgressionService.Progress(r.Context(), userID, unitID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleProgressionReset(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	unitID, err := unitIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var body struct {
		Stage models.Stage `json:"stage"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	if body.Stage == "" {
		body.Stage = models.StageUnderstand
	}

	if err := s.ProgressionService.Reset(r.Context(), userID, unitID, body.Stage); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"unit_id": unitID,
		"stage":   body.Stage,
	})
}
