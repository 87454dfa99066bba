package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gawdwnn/studyloopai-sub005/internal/api"
	apiMiddleware "github.com/gawdwnn/studyloopai-sub005/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	r.Use(apiMiddleware.MetricsMiddleware)

	// Create API handlers using the application's services
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	reviewHandler := api.NewReviewHandler(app.schedulingService, app.logger)
	sessionHandler := api.NewSessionHandler(app.sessionService, app.logger)
	gapHandler := api.NewGapHandler(app.gapService, app.logger)
	analyticsHandler := api.NewAnalyticsHandler(app.analyticsService, app.logger)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Review endpoints
			r.Post("/reviews/{cardID}", reviewHandler.RecordReview)
			r.Get("/reviews/due", reviewHandler.DueCards)

			// Session endpoints
			r.Post("/sessions", sessionHandler.CreateSession)
			r.Post("/sessions/{id}/responses", sessionHandler.SubmitResponses)
			r.Get("/sessions/{id}", sessionHandler.GetSession)

			// Gap endpoints
			r.Post("/gaps/failures", gapHandler.RecordFailure)
			r.Post("/gaps/recover", gapHandler.RecoverGap)

			// Analytics endpoints
			r.Get("/analytics/summary", analyticsHandler.Summary)
			r.Get("/analytics/sessions", analyticsHandler.Sessions)
			r.Get("/analytics/gaps", analyticsHandler.Gaps)
		})
	})

	// Metrics endpoint (public)
	r.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
