package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// GapStore defines the interface for learning gap persistence.
//
// The store enforces the core lifecycle invariant: at most one active gap per
// (user, contentType, contentId). Recovered rows are history and are never
// reactivated.
type GapStore interface {
	// EscalateActive records a repeat failure on the active gap for the given
	// (user, content) pair as a single atomic conditional update: failure
	// count +1, severity +1 capped at the maximum, last failure time set to
	// now. Returns the updated gap, or ErrGapNotFound if no active gap exists.
	EscalateActive(
		ctx context.Context,
		userID uuid.UUID,
		contentType domain.ContentType,
		contentID uuid.UUID,
		now time.Time,
	) (*domain.LearningGap, error)

	// Create inserts a new active gap. Returns ErrActiveGapExists if an
	// active gap already exists for the same (user, contentType, contentId) -
	// callers should retry EscalateActive in that case.
	Create(ctx context.Context, gap *domain.LearningGap) error

	// RecoverActive marks the active gap for the (user, content) pair as
	// recovered. Returns the recovered gap, or ErrGapNotFound if no active
	// gap exists.
	RecoverActive(
		ctx context.Context,
		userID uuid.UUID,
		contentType domain.ContentType,
		contentID uuid.UUID,
		now time.Time,
	) (*domain.LearningGap, error)

	// FindActiveByUser returns the user's active gaps ordered by severity
	// descending, then last failure time descending, so the worst and most
	// recent problems surface first.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.LearningGap, error)

	// FindByContent returns every gap row in the (user, content) lineage,
	// oldest first, including recovered history.
	FindByContent(
		ctx context.Context,
		userID uuid.UUID,
		contentType domain.ContentType,
		contentID uuid.UUID,
	) ([]*domain.LearningGap, error)
}
