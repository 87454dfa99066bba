package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Severity bounds for learning gaps.
const (
	MinGapSeverity     = 1
	MaxGapSeverity     = 10
	DefaultGapSeverity = 5
)

// Gap-specific validation errors. The empty-ID variants wrap ErrInvalidID.
var (
	ErrGapIDEmpty        = fmt.Errorf("%w: gap ID cannot be empty", ErrInvalidID)
	ErrGapUserIDEmpty    = fmt.Errorf("%w: gap user ID cannot be empty", ErrInvalidID)
	ErrGapContentIDEmpty = fmt.Errorf("%w: gap content ID cannot be empty", ErrInvalidID)
	ErrGapFailureCount   = errors.New("gap failure count must be at least 1")
	ErrGapRecovered      = errors.New("gap is already recovered")
)

// LearningGap tracks recurring difficulty with a specific content item.
// Lifecycle per (user, contentType, contentId) lineage: a first failure
// creates an active gap, repeat failures escalate it, and a mastery signal
// recovers it. Recovered rows are terminal; a later failure starts a fresh
// row rather than reopening the old one, preserving history. At most one
// row per lineage is active at a time.
type LearningGap struct {
	ID            uuid.UUID   `json:"id"`
	UserID        uuid.UUID   `json:"user_id"`
	ContentType   ContentType `json:"content_type"`
	ContentID     uuid.UUID   `json:"content_id"`
	ConceptID     *uuid.UUID  `json:"concept_id,omitempty"`
	Severity      int         `json:"severity"` // Clamped to [1, 10]
	FailureCount  int         `json:"failure_count"`
	IsActive      bool        `json:"is_active"`
	LastFailureAt time.Time   `json:"last_failure_at"`
	RecoveredAt   *time.Time  `json:"recovered_at,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ClampSeverity forces a severity value into the valid [1, 10] range.
func ClampSeverity(severity int) int {
	if severity < MinGapSeverity {
		return MinGapSeverity
	}
	if severity > MaxGapSeverity {
		return MaxGapSeverity
	}
	return severity
}

// NewLearningGap creates an active gap for a first failure. A severity of 0
// selects the default; any supplied value is clamped to [1, 10].
func NewLearningGap(
	userID uuid.UUID,
	contentType ContentType,
	contentID uuid.UUID,
	conceptID *uuid.UUID,
	severity int,
	now time.Time,
) (*LearningGap, error) {
	if severity == 0 {
		severity = DefaultGapSeverity
	}

	gap := &LearningGap{
		ID:            uuid.New(),
		UserID:        userID,
		ContentType:   contentType,
		ContentID:     contentID,
		ConceptID:     conceptID,
		Severity:      ClampSeverity(severity),
		FailureCount:  1,
		IsActive:      true,
		LastFailureAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := gap.Validate(); err != nil {
		return nil, err
	}

	return gap, nil
}

// Validate checks if the LearningGap has valid data.
func (g *LearningGap) Validate() error {
	if g.ID == uuid.Nil {
		return ErrGapIDEmpty
	}

	if g.UserID == uuid.Nil {
		return ErrGapUserIDEmpty
	}

	if !g.ContentType.Valid() {
		return ErrInvalidContentType
	}

	if g.ContentID == uuid.Nil {
		return ErrGapContentIDEmpty
	}

	if g.Severity < MinGapSeverity || g.Severity > MaxGapSeverity {
		return ErrValidation
	}

	if g.FailureCount < 1 {
		return ErrGapFailureCount
	}

	return nil
}

// Escalate records a repeat failure on an active gap: failure count goes up
// by one, severity by one capped at the maximum, and the failure time is
// refreshed. Recovered gaps cannot be escalated.
func (g *LearningGap) Escalate(now time.Time) error {
	if !g.IsActive {
		return ErrGapRecovered
	}

	g.FailureCount++
	g.Severity = ClampSeverity(g.Severity + 1)
	g.LastFailureAt = now
	g.UpdatedAt = now
	return nil
}

// Recover marks an active gap as resolved. Recovery is terminal for the row;
// calling it on an already-recovered gap is an error at this level (the
// tracker treats the missing-active-gap case as a no-op before getting here).
func (g *LearningGap) Recover(now time.Time) error {
	if !g.IsActive {
		return ErrGapRecovered
	}

	g.IsActive = false
	recoveredAt := now
	g.RecoveredAt = &recoveredAt
	g.UpdatedAt = now
	return nil
}
