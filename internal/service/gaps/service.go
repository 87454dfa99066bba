// Package gaps tracks learning gaps: content a user keeps getting wrong,
// and its recovery when they get it right again.
package gaps

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// ErrInvalidInput is returned when gap input fails validation before any
// store access. Gap writes are always scoped to the caller, so there is no
// separate not-authorized case here.
var ErrInvalidInput = errors.New("invalid gap input")

// RecordFailureParams carries one failed attempt on a piece of content.
type RecordFailureParams struct {
	ContentType domain.ContentType
	ContentID   uuid.UUID

	// ConceptID optionally links the gap to a knowledge-graph concept.
	ConceptID *uuid.UUID

	// Severity seeds a brand-new gap; zero means the default. Ignored when
	// an active gap already exists, which escalates by one step instead.
	Severity int
}

// GapService maintains the active/recovered gap lifecycle.
type GapService interface {
	// RecordFailure escalates the caller's active gap for the content, or
	// opens a new one when none is active. At most one gap per
	// (user, content type, content) is active at a time.
	RecordFailure(
		ctx context.Context,
		callerID uuid.UUID,
		params RecordFailureParams,
	) (*domain.LearningGap, error)

	// RecoverGap closes the caller's active gap for the content, stamping
	// the recovery time. When no gap is active it is a no-op returning nil:
	// answering correctly on content that was never a gap is not an error.
	RecoverGap(
		ctx context.Context,
		callerID uuid.UUID,
		contentType domain.ContentType,
		contentID uuid.UUID,
	) (*domain.LearningGap, error)

	// ActiveGaps returns the caller's open gaps, most severe first.
	ActiveGaps(ctx context.Context, callerID uuid.UUID) ([]*domain.LearningGap, error)
}
