package gaps

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// Verify interface compliance at compile time
var _ GapService = (*gapServiceImpl)(nil)

// gapServiceImpl implements the GapService interface.
type gapServiceImpl struct {
	gapStore store.GapStore
	logger   *slog.Logger
}

// NewGapService creates a new GapService implementation.
func NewGapService(gapStore store.GapStore, logger *slog.Logger) GapService {
	if gapStore == nil {
		panic("gapStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &gapServiceImpl{
		gapStore: gapStore,
		logger:   logger.With(slog.String("component", "gap_service")),
	}
}

// RecordFailure implements GapService.RecordFailure.
//
// Escalate-then-create: the common case is an existing active gap, so we try
// the conditional escalation first and only insert when none matched. A
// concurrent insert between the two steps surfaces as ErrActiveGapExists,
// which means the gap now exists, so one retry of the escalation settles it.
func (s *gapServiceImpl) RecordFailure(
	ctx context.Context,
	callerID uuid.UUID,
	params RecordFailureParams,
) (*domain.LearningGap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if callerID == uuid.Nil || params.ContentID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and content IDs are required", ErrInvalidInput)
	}
	if !params.ContentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, params.ContentType)
	}

	now := time.Now().UTC()

	gap, err := s.gapStore.EscalateActive(ctx, callerID, params.ContentType, params.ContentID, now)
	if err == nil {
		log.Debug("gap escalated",
			slog.String("gap_id", gap.ID.String()),
			slog.Int("severity", gap.Severity),
			slog.Int("failure_count", gap.FailureCount))
		return gap, nil
	}
	if !store.IsNotFoundError(err) {
		log.Error("failed to escalate gap",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()),
			slog.String("content_id", params.ContentID.String()))
		return nil, fmt.Errorf("failed to escalate gap: %w", err)
	}

	fresh, err := domain.NewLearningGap(
		callerID,
		params.ContentType,
		params.ContentID,
		params.ConceptID,
		params.Severity,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.gapStore.Create(ctx, fresh)
	if err == nil {
		log.Info("gap opened",
			slog.String("gap_id", fresh.ID.String()),
			slog.String("user_id", callerID.String()),
			slog.String("content_type", string(params.ContentType)),
			slog.String("content_id", params.ContentID.String()),
			slog.Int("severity", fresh.Severity))
		return fresh, nil
	}
	if !store.IsDuplicateError(err) {
		log.Error("failed to open gap",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()),
			slog.String("content_id", params.ContentID.String()))
		return nil, fmt.Errorf("failed to open gap: %w", err)
	}

	// Lost the insert race: another request opened the gap first.
	gap, err = s.gapStore.EscalateActive(ctx, callerID, params.ContentType, params.ContentID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to escalate gap after insert conflict: %w", err)
	}

	return gap, nil
}

// RecoverGap implements GapService.RecoverGap.
func (s *gapServiceImpl) RecoverGap(
	ctx context.Context,
	callerID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
) (*domain.LearningGap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if callerID == uuid.Nil || contentID == uuid.Nil {
		return nil, fmt.Errorf("%w: user and content IDs are required", ErrInvalidInput)
	}
	if !contentType.Valid() {
		return nil, fmt.Errorf("%w: unknown content type %q", ErrInvalidInput, contentType)
	}

	now := time.Now().UTC()

	gap, err := s.gapStore.RecoverActive(ctx, callerID, contentType, contentID, now)
	if err != nil {
		if store.IsNotFoundError(err) {
			// No active gap to close. Correct answers on healthy content
			// arrive here constantly, so this is the quiet path.
			return nil, nil
		}
		log.Error("failed to recover gap",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()),
			slog.String("content_id", contentID.String()))
		return nil, fmt.Errorf("failed to recover gap: %w", err)
	}

	log.Info("gap recovered",
		slog.String("gap_id", gap.ID.String()),
		slog.String("user_id", callerID.String()),
		slog.String("content_id", contentID.String()),
		slog.Int("failure_count", gap.FailureCount))

	return gap, nil
}

// ActiveGaps implements GapService.ActiveGaps.
func (s *gapServiceImpl) ActiveGaps(
	ctx context.Context,
	callerID uuid.UUID,
) ([]*domain.LearningGap, error) {
	if callerID == uuid.Nil {
		return nil, fmt.Errorf("%w: caller ID is required", ErrInvalidInput)
	}

	gaps, err := s.gapStore.FindActiveByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find active gaps: %w", err)
	}

	return gaps, nil
}
