package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session-specific validation errors. The empty-ID variants wrap ErrInvalidID.
var (
	ErrSessionIDEmpty        = fmt.Errorf("%w: session ID cannot be empty", ErrInvalidID)
	ErrSessionUserIDEmpty    = fmt.Errorf("%w: session user ID cannot be empty", ErrInvalidID)
	ErrSessionConfigInvalid  = errors.New("session config must be valid JSON")
	ErrSessionNegativeTime   = errors.New("session total time cannot be negative")
	ErrSessionNegativeItems  = errors.New("session items completed cannot be negative")
	ErrSessionAccuracyRange  = errors.New("session accuracy must be within [0, 100]")
	ErrSessionTimesOutOfOrder = errors.New("session completed time cannot precede started time")
)

// LearningSession is the write-once summary of a completed review session.
// The config is stored as an opaque JSONB payload; only the aggregate fields
// are interpreted by this core.
type LearningSession struct {
	ID             uuid.UUID       `json:"id"`
	UserID         uuid.UUID       `json:"user_id"`
	ContentType    ContentType     `json:"content_type"`
	SessionConfig  json.RawMessage `json:"session_config"`
	TotalTimeMs    int             `json:"total_time_ms"`
	ItemsCompleted int             `json:"items_completed"`
	Accuracy       float64         `json:"accuracy"` // Percentage, 0-100
	StartedAt      time.Time       `json:"started_at"`
	CompletedAt    time.Time       `json:"completed_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewLearningSession creates a session summary and validates it.
// Sessions are recorded once, at completion time.
func NewLearningSession(
	userID uuid.UUID,
	contentType ContentType,
	config json.RawMessage,
	totalTimeMs int,
	itemsCompleted int,
	accuracy float64,
	startedAt, completedAt time.Time,
) (*LearningSession, error) {
	session := &LearningSession{
		ID:             uuid.New(),
		UserID:         userID,
		ContentType:    contentType,
		SessionConfig:  config,
		TotalTimeMs:    totalTimeMs,
		ItemsCompleted: itemsCompleted,
		Accuracy:       accuracy,
		StartedAt:      startedAt,
		CompletedAt:    completedAt,
		CreatedAt:      time.Now().UTC(),
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the LearningSession has valid data.
func (s *LearningSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}

	if s.UserID == uuid.Nil {
		return ErrSessionUserIDEmpty
	}

	if !s.ContentType.Valid() {
		return ErrInvalidContentType
	}

	if len(s.SessionConfig) > 0 {
		var js json.RawMessage
		if err := json.Unmarshal(s.SessionConfig, &js); err != nil {
			return ErrSessionConfigInvalid
		}
	}

	if s.TotalTimeMs < 0 {
		return ErrSessionNegativeTime
	}

	if s.ItemsCompleted < 0 {
		return ErrSessionNegativeItems
	}

	if s.Accuracy < 0 || s.Accuracy > 100 {
		return ErrSessionAccuracyRange
	}

	if !s.CompletedAt.IsZero() && !s.StartedAt.IsZero() && s.CompletedAt.Before(s.StartedAt) {
		return ErrSessionTimesOutOfOrder
	}

	return nil
}
