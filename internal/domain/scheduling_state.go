package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Ease factor bounds. Ease factors are stored as integers representing 100x
// the SM-2 multiplier, so 250 means a 2.50x interval growth per correct answer.
const (
	MinEaseFactor     = 130
	MaxEaseFactor     = 350
	DefaultEaseFactor = 250
)

// Common validation errors for SchedulingState. The empty-ID variants wrap
// ErrInvalidID.
var (
	ErrEmptySchedulingUserID = fmt.Errorf(
		"%w: scheduling state user ID cannot be empty", ErrInvalidID)
	ErrEmptySchedulingCardID = fmt.Errorf(
		"%w: scheduling state card ID cannot be empty", ErrInvalidID)
	ErrInvalidInterval       = errors.New("interval must be greater than or equal to 0")
	ErrEaseFactorOutOfRange  = errors.New("ease factor must be within [130, 350]")
	ErrNegativeConsecutive   = errors.New("consecutive correct count cannot be negative")
)

// SchedulingState tracks a user's spaced repetition schedule for a specific
// cuecard. It is keyed by (card, user), created on the first review and
// mutated on every subsequent one; rows are never physically deleted.
type SchedulingState struct {
	CardID             uuid.UUID `json:"card_id"`
	UserID             uuid.UUID `json:"user_id"`
	IntervalDays       int       `json:"interval_days"`       // Current interval in days
	EaseFactor         int       `json:"ease_factor"`         // 100x multiplier, clamped to [130, 350]
	ConsecutiveCorrect int       `json:"consecutive_correct"` // Count of consecutive correct answers
	LastReviewedAt     time.Time `json:"last_reviewed_at"`    // When the card was last reviewed
	NextReviewAt       time.Time `json:"next_review_at"`      // When the card is due next
	IsActive           bool      `json:"is_active"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewSchedulingState creates scheduling state for a card that has never been
// reviewed by this user. The interval of 0 marks the pre-first-review state;
// the card is due immediately.
func NewSchedulingState(userID, cardID uuid.UUID) (*SchedulingState, error) {
	now := time.Now().UTC()
	state := &SchedulingState{
		CardID:             cardID,
		UserID:             userID,
		IntervalDays:       0,
		EaseFactor:         DefaultEaseFactor,
		ConsecutiveCorrect: 0,
		LastReviewedAt:     time.Time{}, // Zero time
		NextReviewAt:       now,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := state.Validate(); err != nil {
		return nil, err
	}

	return state, nil
}

// Validate checks if the SchedulingState has valid data.
// Returns an error if any field fails validation.
func (s *SchedulingState) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptySchedulingUserID
	}

	if s.CardID == uuid.Nil {
		return ErrEmptySchedulingCardID
	}

	if s.IntervalDays < 0 {
		return ErrInvalidInterval
	}

	if s.EaseFactor < MinEaseFactor || s.EaseFactor > MaxEaseFactor {
		return ErrEaseFactorOutOfRange
	}

	if s.ConsecutiveCorrect < 0 {
		return ErrNegativeConsecutive
	}

	return nil
}
