package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// ApplySchedulingFn computes the next scheduling state from the current one.
// current is nil when no state exists yet for the (user, card) pair; the
// function then returns the state for a first review. The returned state is
// what gets persisted.
type ApplySchedulingFn func(current *domain.SchedulingState) (*domain.SchedulingState, error)

// SchedulingStore defines the interface for scheduling state persistence.
type SchedulingStore interface {
	// Get retrieves scheduling state by the combination of user ID and card ID.
	// Returns ErrSchedulingStateNotFound if no state exists.
	// NOTE: this read takes no lock; use Update when modifying state.
	Get(ctx context.Context, userID, cardID uuid.UUID) (*domain.SchedulingState, error)

	// Update atomically applies fn to the scheduling state for (user, card)
	// and persists the result as a single upsert. Implementations must hold a
	// per-key lock (row lock or equivalent) for the duration of the update so
	// concurrent reviews of the same card cannot interleave between the read
	// and the write. Returns the persisted state.
	Update(ctx context.Context, userID, cardID uuid.UUID, fn ApplySchedulingFn) (*domain.SchedulingState, error)

	// FindDue returns active scheduling states with next_review_at at or
	// before now, soonest first, capped at limit. Used by session-building
	// callers to select which cards are due.
	FindDue(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]*domain.SchedulingState, error)
}
