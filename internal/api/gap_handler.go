package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/api/shared"
	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/gaps"
)

// GapHandler handles learning-gap HTTP requests
type GapHandler struct {
	gapService gaps.GapService
	logger     *slog.Logger
}

// NewGapHandler creates a new GapHandler
func NewGapHandler(gapService gaps.GapService, logger *slog.Logger) *GapHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GapHandler")
	}

	return &GapHandler{
		gapService: gapService,
		logger:     logger.With(slog.String("component", "gap_handler")),
	}
}

// RecordFailure handles POST /gaps/failures requests.
// It escalates the caller's active gap for the content or opens a new one.
func (h *GapHandler) RecordFailure(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req RecordFailureRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	gap, err := h.gapService.RecordFailure(r.Context(), userID, gaps.RecordFailureParams{
		ContentType: domain.ContentType(req.ContentType),
		ContentID:   req.ContentID,
		ConceptID:   req.ConceptID,
		Severity:    req.Severity,
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record failure"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("failure recorded",
		slog.String("user_id", userID.String()),
		slog.String("gap_id", gap.ID.String()),
		slog.Int("severity", gap.Severity))
	shared.RespondWithJSON(w, r, http.StatusOK, gapToResponse(gap))
}

// RecoverGap handles POST /gaps/recover requests.
// Recovering content with no active gap is a no-op answered with 204.
func (h *GapHandler) RecoverGap(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req RecoverGapRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	gap, err := h.gapService.RecoverGap(
		r.Context(),
		userID,
		domain.ContentType(req.ContentType),
		req.ContentID,
	)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to recover gap"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	if gap == nil {
		log.Debug("no active gap to recover",
			slog.String("user_id", userID.String()),
			slog.String("content_id", req.ContentID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, gapToResponse(gap))
}
