package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/api/shared"
	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/analytics"
)

// AnalyticsHandler handles analytics HTTP requests. Every read fails open:
// a degraded result still answers 200, flagged so clients can tell.
type AnalyticsHandler struct {
	analyticsService analytics.AnalyticsService
	logger           *slog.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(
	analyticsService analytics.AnalyticsService,
	logger *slog.Logger,
) *AnalyticsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AnalyticsHandler")
	}

	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger.With(slog.String("component", "analytics_handler")),
	}
}

// Summary handles GET /analytics/summary requests.
func (h *AnalyticsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	result := h.analyticsService.SessionCount(r.Context(), userID)

	shared.RespondWithJSON(w, r, http.StatusOK, AnalyticsSummaryResponse{
		SessionCount: result.Data,
		Degraded:     result.Degraded,
	})
}

// Sessions handles GET /analytics/sessions requests.
// Supports limit and content_type query parameters.
func (h *AnalyticsHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	var contentType *domain.ContentType
	if raw := r.URL.Query().Get("content_type"); raw != "" {
		ct := domain.ContentType(raw)
		if !ct.Valid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid content type")
			return
		}
		contentType = &ct
	}

	result := h.analyticsService.RecentSessions(r.Context(), userID, limit, contentType)

	sessions := make([]SessionDetailResponse, 0, len(result.Data))
	for _, s := range result.Data {
		sessions = append(sessions, sessionToResponse(s, nil))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnalyticsSessionsResponse{
		Sessions: sessions,
		Degraded: result.Degraded,
	})
}

// Gaps handles GET /analytics/gaps requests.
func (h *AnalyticsHandler) Gaps(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	result := h.analyticsService.ActiveGaps(r.Context(), userID)

	gaps := make([]GapResponse, 0, len(result.Data))
	for _, gap := range result.Data {
		gaps = append(gaps, gapToResponse(gap))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnalyticsGapsResponse{
		Gaps:     gaps,
		Degraded: result.Degraded,
	})
}
