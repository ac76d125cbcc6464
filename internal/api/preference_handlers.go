package api

import (
	"net/http"

	"github.com/tomaz/masterly/internal/models"
)

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	prefs, err := s.PreferenceService.GetPreferences(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, prefs)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	var prefs models.BucketPreferences
	if err := decodeJSON(r, &prefs); err != nil {
		handleError(w, r, err)
		return
	}
	prefs.UserID = userID

	updated, err := s.PreferenceService.UpdatePreferences(r.Context(), prefs)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, updated)
}
