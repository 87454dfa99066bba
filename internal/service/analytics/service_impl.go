package analytics

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// DefaultRecentSessionLimit bounds RecentSessions when the caller passes a
// non-positive limit.
const DefaultRecentSessionLimit = 20

// Verify interface compliance at compile time
var _ AnalyticsService = (*analyticsServiceImpl)(nil)

// analyticsServiceImpl implements the AnalyticsService interface.
type analyticsServiceImpl struct {
	sessionStore store.SessionStore
	gapStore     store.GapStore
	logger       *slog.Logger
}

// NewAnalyticsService creates a new AnalyticsService implementation.
func NewAnalyticsService(
	sessionStore store.SessionStore,
	gapStore store.GapStore,
	logger *slog.Logger,
) AnalyticsService {
	if sessionStore == nil {
		panic("sessionStore cannot be nil")
	}
	if gapStore == nil {
		panic("gapStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &analyticsServiceImpl{
		sessionStore: sessionStore,
		gapStore:     gapStore,
		logger:       logger.With(slog.String("component", "analytics_service")),
	}
}

// SessionCount implements AnalyticsService.SessionCount.
func (s *analyticsServiceImpl) SessionCount(
	ctx context.Context,
	callerID uuid.UUID,
) Result[int64] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count, err := s.sessionStore.CountByUser(ctx, callerID)
	if err != nil {
		log.Warn("session count degraded to zero",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()))
		return DegradedResult[int64](0, err)
	}

	return Ok(count)
}

// RecentSessions implements AnalyticsService.RecentSessions.
func (s *analyticsServiceImpl) RecentSessions(
	ctx context.Context,
	callerID uuid.UUID,
	limit int,
	contentType *domain.ContentType,
) Result[[]*domain.LearningSession] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = DefaultRecentSessionLimit
	}

	sessions, err := s.sessionStore.FindRecentByUser(ctx, callerID, limit, contentType)
	if err != nil {
		log.Warn("recent sessions degraded to empty",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()))
		return DegradedResult([]*domain.LearningSession{}, err)
	}

	return Ok(sessions)
}

// ActiveGaps implements AnalyticsService.ActiveGaps.
func (s *analyticsServiceImpl) ActiveGaps(
	ctx context.Context,
	callerID uuid.UUID,
) Result[[]*domain.LearningGap] {
	log := logger.FromContextOrDefault(ctx, s.logger)

	gaps, err := s.gapStore.FindActiveByUser(ctx, callerID)
	if err != nil {
		log.Warn("active gaps degraded to empty",
			slog.String("error", err.Error()),
			slog.String("user_id", callerID.String()))
		return DegradedResult([]*domain.LearningGap{}, err)
	}

	return Ok(gaps)
}
