package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/api/shared"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/scheduling"
)

// defaultDueLimit bounds GET /reviews/due when no limit is given.
const defaultDueLimit = 20

// ReviewHandler handles review-related HTTP requests
type ReviewHandler struct {
	schedulingService scheduling.SchedulingService
	logger            *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(
	schedulingService scheduling.SchedulingService,
	logger *slog.Logger,
) *ReviewHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ReviewHandler")
	}

	return &ReviewHandler{
		schedulingService: schedulingService,
		logger:            logger.With(slog.String("component", "review_handler")),
	}
}

// RecordReview handles POST /reviews/{cardID} requests.
// It applies a review outcome to the authenticated user's scheduling state
// for the card and returns the updated state.
func (h *ReviewHandler) RecordReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	cardID, err := uuid.Parse(chi.URLParam(r, "cardID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid card ID")
		return
	}

	var req ReviewRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	state, err := h.schedulingService.RecordReview(
		r.Context(),
		userID,
		userID,
		cardID,
		req.IsCorrect,
		req.ResponseTimeMs,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("is_correct", req.IsCorrect))
	shared.RespondWithJSON(w, r, http.StatusOK, schedulingStateToResponse(state))
}

// DueCards handles GET /reviews/due requests.
// It returns the authenticated user's scheduling states due for review,
// soonest first. An optional limit query parameter bounds the result.
func (h *ReviewHandler) DueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	limit := defaultDueLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	due, err := h.schedulingService.DueCards(r.Context(), userID, limit)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to find due cards"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	states := make([]SchedulingStateResponse, 0, len(due))
	for _, state := range due {
		states = append(states, schedulingStateToResponse(state))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, states)
}
