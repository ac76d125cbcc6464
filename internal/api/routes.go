package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(userMiddleware)

		r.Post("/review", s.handleReview)
		r.Post("/review/batch", s.handleReviewBatch)

		r.Get("/tasks/today", s.handleTasksToday)
		r.Post("/tasks/more", s.handleTasksMore)

		r.Get("/units/{id}/progression", s.handleProgressionStatus)
		r.Post("/units/{id}/progression", s.handleProgress)
		r.Post("/units/{id}/progression/reset", s.handleProgressionReset)

		r.Post("/units/{id}/pin", s.handlePinReview)
		r.Delete("/units/{id}/pin", s.handleUnpinReview)
		r.Get("/reviews/pinned", s.handleListPinned)

		r.Get("/preferences", s.handleGetPreferences)
		r.Put("/preferences", s.handleUpdatePreferences)
	})

	return r
}
