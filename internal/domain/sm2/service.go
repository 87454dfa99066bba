package sm2

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// Common errors
var (
	ErrNilState             = errors.New("scheduling state cannot be nil")
	ErrNegativeResponseTime = errors.New("response time cannot be negative")
)

// Service defines the interface for scheduling algorithm operations.
type Service interface {
	// Review computes new scheduling state from a review outcome.
	// It follows the immutable update pattern: the input state is never
	// modified and a new state is returned.
	Review(
		state *domain.SchedulingState,
		isCorrect bool,
		responseTimeMs int,
		now time.Time,
	) (*domain.SchedulingState, error)

	// NewState creates the default pre-first-review state for a (user, card)
	// pair, using the configured default ease factor.
	NewState(userID, cardID uuid.UUID) (*domain.SchedulingState, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// Review implements the Service interface.
func (s *defaultService) Review(
	state *domain.SchedulingState,
	isCorrect bool,
	responseTimeMs int,
	now time.Time,
) (*domain.SchedulingState, error) {
	if state == nil {
		return nil, ErrNilState
	}

	if responseTimeMs < 0 {
		return nil, ErrNegativeResponseTime
	}

	// Copy the original state; the caller keeps its version untouched.
	newState := &domain.SchedulingState{
		CardID:             state.CardID,
		UserID:             state.UserID,
		IntervalDays:       state.IntervalDays,
		EaseFactor:         state.EaseFactor,
		ConsecutiveCorrect: state.ConsecutiveCorrect,
		LastReviewedAt:     state.LastReviewedAt,
		NextReviewAt:       state.NextReviewAt,
		IsActive:           state.IsActive,
		CreatedAt:          state.CreatedAt,
		UpdatedAt:          state.UpdatedAt,
	}

	newState.EaseFactor = nextEaseFactor(state.EaseFactor, isCorrect, responseTimeMs, s.params)
	newState.IntervalDays = nextInterval(state.IntervalDays, state.EaseFactor, isCorrect, s.params)

	if isCorrect {
		newState.ConsecutiveCorrect = state.ConsecutiveCorrect + 1
	} else {
		newState.ConsecutiveCorrect = 0
	}

	newState.LastReviewedAt = now
	newState.NextReviewAt = now.AddDate(0, 0, newState.IntervalDays)
	newState.IsActive = true
	newState.UpdatedAt = now

	return newState, nil
}

// NewState implements the Service interface.
func (s *defaultService) NewState(userID, cardID uuid.UUID) (*domain.SchedulingState, error) {
	state, err := domain.NewSchedulingState(userID, cardID)
	if err != nil {
		return nil, err
	}

	state.EaseFactor = s.params.DefaultEaseFactor
	return state, nil
}
