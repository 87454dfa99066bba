// Package scheduling exposes the review-recording service that ties the
// pure SM-2 engine to the scheduling state store.
package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// Service errors
var (
	// ErrNotAuthorized is returned when the caller tries to record a review
	// for another user's card. Wraps domain.ErrUnauthorized so callers can
	// match the whole class with one errors.Is check.
	ErrNotAuthorized = fmt.Errorf(
		"%w: caller does not own the scheduling state", domain.ErrUnauthorized)

	// ErrInvalidInput is returned when review input fails validation before
	// any store access.
	ErrInvalidInput = errors.New("invalid review input")
)

// SchedulingService records review outcomes and answers which cards are due.
type SchedulingService interface {
	// RecordReview applies a review outcome to the (user, card) scheduling
	// state and persists the result. Missing state is created with defaults
	// (interval 0, ease 250), so the first review of a card goes through the
	// same path as every later one. The caller must be the owning user.
	RecordReview(
		ctx context.Context,
		callerID, userID, cardID uuid.UUID,
		isCorrect bool,
		responseTimeMs int,
	) (*domain.SchedulingState, error)

	// DueCards returns the caller's scheduling states due for review,
	// soonest first. Session-building callers use this to pick cards.
	DueCards(ctx context.Context, callerID uuid.UUID, limit int) ([]*domain.SchedulingState, error)
}
