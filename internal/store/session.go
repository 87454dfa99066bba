package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// SessionStore defines the interface for learning session persistence.
type SessionStore interface {
	// CreateSession saves a write-once session summary.
	// It handles domain validation internally.
	CreateSession(ctx context.Context, session *domain.LearningSession) error

	// GetSession retrieves a session by its unique ID.
	// Returns ErrSessionNotFound if the session does not exist.
	GetSession(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error)

	// CreateResponses saves a batch of item-level responses in a single
	// atomic operation: either every row commits or none do. Partial success
	// is disallowed so session-level aggregates stay consistent with the
	// response rows that justify them. All responses must reference the same
	// existing session.
	CreateResponses(ctx context.Context, responses []*domain.SessionResponse) error

	// FindResponses retrieves the responses of a session, oldest first.
	FindResponses(ctx context.Context, sessionID uuid.UUID) ([]*domain.SessionResponse, error)

	// CountByUser returns how many sessions the user has completed.
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// FindRecentByUser returns the user's most recently completed sessions,
	// newest first, capped at limit. A non-nil contentType narrows the result
	// to that content type.
	FindRecentByUser(
		ctx context.Context,
		userID uuid.UUID,
		limit int,
		contentType *domain.ContentType,
	) ([]*domain.LearningSession, error)
}
