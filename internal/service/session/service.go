// Package session records completed learning sessions and their item-level
// responses.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// Service errors
var (
	// ErrNotAuthorized is returned when the caller does not own the session
	// being written to or read. Wraps domain.ErrUnauthorized so callers can
	// match the whole class with one errors.Is check.
	ErrNotAuthorized = fmt.Errorf(
		"%w: caller does not own the session", domain.ErrUnauthorized)

	// ErrSessionNotFound is returned when the referenced session does not exist.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidInput is returned when session or response input fails
	// validation before any store access.
	ErrInvalidInput = errors.New("invalid session input")
)

// RecordSessionParams carries the write-once summary of a completed session.
type RecordSessionParams struct {
	ContentType    domain.ContentType
	SessionConfig  json.RawMessage
	TotalTimeMs    int
	ItemsCompleted int
	Accuracy       float64
	StartedAt      time.Time
	CompletedAt    time.Time
}

// ResponseParams carries one item-level answer. Data is the raw variant
// payload; its shape is checked against the session's content type before
// anything is written.
type ResponseParams struct {
	ContentID      uuid.UUID
	Data           json.RawMessage
	ResponseTimeMs int
	IsCorrect      bool
	AttemptedAt    time.Time
}

// SessionService persists session summaries and response batches.
type SessionService interface {
	// RecordSession inserts the session summary for the calling user.
	// Store failures propagate: downstream analytics depend on a complete
	// record, so a lost session must be surfaced, not swallowed.
	RecordSession(
		ctx context.Context,
		callerID uuid.UUID,
		params RecordSessionParams,
	) (*domain.LearningSession, error)

	// RecordResponses verifies the session exists and is owned by the caller
	// before any insert, then writes the batch atomically: all rows commit
	// or none do.
	RecordResponses(
		ctx context.Context,
		callerID uuid.UUID,
		sessionID uuid.UUID,
		responses []ResponseParams,
	) ([]*domain.SessionResponse, error)

	// GetSession returns a session owned by the caller, with its responses.
	GetSession(
		ctx context.Context,
		callerID uuid.UUID,
		sessionID uuid.UUID,
	) (*domain.LearningSession, []*domain.SessionResponse, error)
}
