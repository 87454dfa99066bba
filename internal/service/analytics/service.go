// Package analytics answers read-only questions about a user's learning
// history. Every read fails open: a store outage degrades the answer to a
// zero default instead of failing the request.
package analytics

import (
	"context"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// AnalyticsService exposes fail-open reads over sessions and gaps.
type AnalyticsService interface {
	// SessionCount returns how many sessions the caller has completed.
	SessionCount(ctx context.Context, callerID uuid.UUID) Result[int64]

	// RecentSessions returns the caller's most recently completed sessions,
	// newest first, optionally filtered by content type.
	RecentSessions(
		ctx context.Context,
		callerID uuid.UUID,
		limit int,
		contentType *domain.ContentType,
	) Result[[]*domain.LearningSession]

	// ActiveGaps returns the caller's open gaps, most severe first.
	ActiveGaps(ctx context.Context, callerID uuid.UUID) Result[[]*domain.LearningGap]
}
