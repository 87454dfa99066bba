package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// Verify interface compliance at compile time
var _ SessionService = (*sessionServiceImpl)(nil)

// sessionServiceImpl implements the SessionService interface.
type sessionServiceImpl struct {
	sessionStore store.SessionStore
	logger       *slog.Logger
}

// NewSessionService creates a new SessionService implementation.
func NewSessionService(sessionStore store.SessionStore, logger *slog.Logger) SessionService {
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &sessionServiceImpl{
		sessionStore: sessionStore,
		logger:       logger.With(slog.String("component", "session_service")),
	}
}

// RecordSession implements SessionService.RecordSession.
func (s *sessionServiceImpl) RecordSession(
	ctx context.Context,
	callerID uuid.UUID,
	params RecordSessionParams,
) (*domain.LearningSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if callerID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller ID is required", ErrInvalidInput)
	}

	session, err := domain.NewLearningSession(
		callerID,
		params.ContentType,
		params.SessionConfig,
		params.TotalTimeMs,
		params.ItemsCompleted,
		params.Accuracy,
		params.StartedAt,
		params.CompletedAt,
	)
	if err != nil {
		log.Warn("session validation failed",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()))
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.sessionStore.CreateSession(ctx, session); err != nil {
		log.Error("failed to record session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", callerID.String()))
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	return session, nil
}

// RecordResponses implements SessionService.RecordResponses.
//
// Ownership is checked before any insert so an unauthorized or dangling
// session reference results in zero new rows, never a partial batch.
func (s *sessionServiceImpl) RecordResponses(
	ctx context.Context,
	callerID uuid.UUID,
	sessionID uuid.UUID,
	responses []ResponseParams,
) ([]*domain.SessionResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if callerID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller ID is required", ErrInvalidInput)
	}

	if len(responses) == 0 {
		return nil, fmt.Errorf("%w: at least one response is required", ErrInvalidInput)
	}

	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Warn("responses reference a missing session",
				slog.String("session_id", sessionID.String()),
				slog.String("user_id", callerID.String()))
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.UserID != callerID {
		log.Warn("caller does not own session",
			slog.String("session_id", sessionID.String()),
			slog.String("caller_id", callerID.String()),
			slog.String("owner_id", session.UserID.String()))
		return nil, ErrNotAuthorized
	}

	rows := make([]*domain.SessionResponse, 0, len(responses))
	for _, params := range responses {
		payload, err := domain.DecodePayload(session.ContentType, params.Data)
		if err != nil {
			log.Warn("response payload rejected",
				slog.String("error", err.Error()),
				slog.String("session_id", sessionID.String()),
				slog.String("content_id", params.ContentID.String()))
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		row, err := domain.NewSessionResponse(
			sessionID,
			params.ContentID,
			payload,
			params.ResponseTimeMs,
			params.IsCorrect,
			params.AttemptedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		rows = append(rows, row)
	}

	if err := s.sessionStore.CreateResponses(ctx, rows); err != nil {
		log.Error("failed to record session responses",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()),
			slog.Int("count", len(rows)))
		return nil, fmt.Errorf("failed to record responses: %w", err)
	}

	log.Info("session responses recorded",
		slog.String("session_id", sessionID.String()),
		slog.String("user_id", callerID.String()),
		slog.Int("count", len(rows)))

	return rows, nil
}

// GetSession implements SessionService.GetSession.
func (s *sessionServiceImpl) GetSession(
	ctx context.Context,
	callerID uuid.UUID,
	sessionID uuid.UUID,
) (*domain.LearningSession, []*domain.SessionResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessionStore.GetSession(ctx, sessionID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	if session.UserID != callerID {
		log.Warn("caller does not own session",
			slog.String("session_id", sessionID.String()),
			slog.String("caller_id", callerID.String()))
		return nil, nil, ErrNotAuthorized
	}

	responses, err := s.sessionStore.FindResponses(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load responses: %w", err)
	}

	return session, responses, nil
}
