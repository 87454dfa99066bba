package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/api/shared"
	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/session"
)

// SessionHandler handles session-related HTTP requests
type SessionHandler struct {
	sessionService session.SessionService
	logger         *slog.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(
	sessionService session.SessionService,
	logger *slog.Logger,
) *SessionHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger.With(slog.String("component", "session_handler")),
	}
}

// CreateSession handles POST /sessions requests.
// It records a completed learning session summary for the authenticated user.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	var req CreateSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	created, err := h.sessionService.RecordSession(r.Context(), userID, session.RecordSessionParams{
		ContentType:    domain.ContentType(req.ContentType),
		SessionConfig:  req.SessionConfig,
		TotalTimeMs:    req.TotalTimeMs,
		ItemsCompleted: req.ItemsCompleted,
		Accuracy:       req.Accuracy,
		StartedAt:      req.StartedAt,
		CompletedAt:    req.CompletedAt,
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("session created",
		slog.String("user_id", userID.String()),
		slog.String("session_id", created.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(created, nil))
}

// SubmitResponses handles POST /sessions/{id}/responses requests.
// The whole batch is written atomically; a rejected batch leaves zero rows.
func (h *SessionHandler) SubmitResponses(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	var req SubmitResponsesRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	params := make([]session.ResponseParams, 0, len(req.Responses))
	for _, item := range req.Responses {
		params = append(params, session.ResponseParams{
			ContentID:      item.ContentID,
			Data:           item.Data,
			ResponseTimeMs: item.ResponseTimeMs,
			IsCorrect:      item.IsCorrect,
			AttemptedAt:    item.AttemptedAt,
		})
	}

	stored, err := h.sessionService.RecordResponses(r.Context(), userID, sessionID, params)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record responses"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	responses := make([]ResponseResponse, 0, len(stored))
	for _, resp := range stored {
		responses = append(responses, responseToResponse(resp))
	}

	log.Debug("responses submitted",
		slog.String("user_id", userID.String()),
		slog.String("session_id", sessionID.String()),
		slog.Int("count", len(responses)))
	shared.RespondWithJSON(w, r, http.StatusCreated, responses)
}

// GetSession handles GET /sessions/{id} requests.
// It returns a session owned by the authenticated user with its responses.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	sessionID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid session ID")
		return
	}

	found, responses, err := h.sessionService.GetSession(r.Context(), userID, sessionID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to load session"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(found, responses))
}
