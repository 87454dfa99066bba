package scheduling

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/domain/sm2"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// Verify interface compliance at compile time
var _ SchedulingService = (*schedulingServiceImpl)(nil)

// schedulingServiceImpl implements the SchedulingService interface.
type schedulingServiceImpl struct {
	schedulingStore store.SchedulingStore
	engine          sm2.Service
	logger          *slog.Logger
}

// NewSchedulingService creates a new SchedulingService implementation.
func NewSchedulingService(
	schedulingStore store.SchedulingStore,
	engine sm2.Service,
	logger *slog.Logger,
) SchedulingService {
	if schedulingStore == nil {
		panic("schedulingStore cannot be nil")
	}
	if engine == nil {
		panic("engine cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &schedulingServiceImpl{
		schedulingStore: schedulingStore,
		engine:          engine,
		logger:          logger.With(slog.String("component", "scheduling_service")),
	}
}

// RecordReview implements SchedulingService.RecordReview.
//
// The read-compute-write cycle runs inside the store's per-key atomic update,
// so two in-flight reviews of the same card cannot interleave.
func (s *schedulingServiceImpl) RecordReview(
	ctx context.Context,
	callerID, userID, cardID uuid.UUID,
	isCorrect bool,
	responseTimeMs int,
) (*domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if callerID != userID {
		log.Warn("caller attempted to update another user's schedule",
			slog.String("caller_id", callerID.String()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, ErrNotAuthorized
	}

	if userID == uuid.Nil || cardID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and card IDs are required", ErrInvalidInput)
	}

	if responseTimeMs < 0 {
		return nil, fmt.Errorf("%w: response time cannot be negative", ErrInvalidInput)
	}

	now := time.Now().UTC()

	updated, err := s.schedulingStore.Update(
		ctx,
		userID,
		cardID,
		func(current *domain.SchedulingState) (*domain.SchedulingState, error) {
			if current == nil {
				// First review of this card by this user.
				seeded, err := s.engine.NewState(userID, cardID)
				if err != nil {
					return nil, fmt.Errorf("failed to create initial state: %w", err)
				}
				current = seeded
			}

			return s.engine.Review(current, isCorrect, responseTimeMs, now)
		},
	)
	if err != nil {
		log.Error("failed to record review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to record review: %w", err)
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Bool("is_correct", isCorrect),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Int("ease_factor", updated.EaseFactor),
		slog.Time("next_review_at", updated.NextReviewAt))

	return updated, nil
}

// DueCards implements SchedulingService.DueCards.
func (s *schedulingServiceImpl) DueCards(
	ctx context.Context,
	callerID uuid.UUID,
	limit int,
) ([]*domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if callerID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller ID is required", ErrInvalidInput)
	}

	due, err := s.schedulingStore.FindDue(ctx, callerID, time.Now().UTC(), limit)
	if err != nil {
		log.Error("failed to find due cards",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()))
		return nil, fmt.Errorf("failed to find due cards: %w", err)
	}

	return due, nil
}
