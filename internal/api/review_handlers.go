package api

import (
	"net/http"
	"time"

	"github.com/tomaz/masterly/internal/logger"
	"github.com/tomaz/masterly/internal/models"
)

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	var outcome models.ReviewOutcome
	if err := decodeJSON(r, &outcome); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("review submitted: unit_id=%d, correct=%t", outcome.UnitID, outcome.IsCorrect)
	result, err := s.ReviewService.ProcessOutcome(r.Context(), userID, outcome)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, result)
}

func (s *Server) handleReviewBatch(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID := userFromContext(r.Context())

	var body struct {
		Outcomes []models.ReviewOutcome `json:"outcomes"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("batch submitted: size=%d", len(body.Outcomes))
	results, err := s.BatchService.ProcessBatch(r.Context(), userID, body.Outcomes)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handlePinReview(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	unitID, err := unitIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var body struct {
		ReviewAt time.Time `json:"review_at"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ReviewService.PinReview(r.Context(), userID, unitID, body.ReviewAt); err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"unit_id":   unitID,
		"review_at": body.ReviewAt,
	})
}

func (s *Server) handleUnpinReview(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())
	unitID, err := unitIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	removed, err := s.ReviewService.UnpinReview(r.Context(), userID, unitID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{
		"unit_id": unitID,
		"removed": removed,
	})
}

func (s *Server) handleListPinned(w http.ResponseWriter, r *http.Request) {
	userID := userFromContext(r.Context())

	pins, err := s.ReviewService.ListPinnedReviews(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if pins == nil {
		pins = []models.PinnedReviewDetail{}
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"pinned": pins})
}
