package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
)

// Common request/response structures

// ReviewRequest defines the payload for recording a card review outcome.
type ReviewRequest struct {
	IsCorrect      bool `json:"is_correct"`
	ResponseTimeMs int  `json:"response_time_ms" validate:"gte=0"`
}

// SchedulingStateResponse is the wire shape of a card's scheduling state.
type SchedulingStateResponse struct {
	CardID             uuid.UUID `json:"card_id"`
	UserID             uuid.UUID `json:"user_id"`
	IntervalDays       int       `json:"interval_days"`
	EaseFactor         int       `json:"ease_factor"`
	ConsecutiveCorrect int       `json:"consecutive_correct"`
	LastReviewedAt     time.Time `json:"last_reviewed_at"`
	NextReviewAt       time.Time `json:"next_review_at"`
	IsActive           bool      `json:"is_active"`
}

// CreateSessionRequest defines the payload for recording a completed session.
type CreateSessionRequest struct {
	ContentType    string          `json:"content_type"    validate:"required,oneof=cuecard mcq open_question"`
	SessionConfig  json.RawMessage `json:"session_config"`
	TotalTimeMs    int             `json:"total_time_ms"   validate:"gte=0"`
	ItemsCompleted int             `json:"items_completed" validate:"gte=0"`
	Accuracy       float64         `json:"accuracy"        validate:"gte=0,lte=100"`
	StartedAt      time.Time       `json:"started_at"      validate:"required"`
	CompletedAt    time.Time       `json:"completed_at"    validate:"required"`
}

// SessionDetailResponse is the wire shape of a learning session, optionally
// with its item-level responses.
type SessionDetailResponse struct {
	ID             uuid.UUID          `json:"id"`
	UserID         uuid.UUID          `json:"user_id"`
	ContentType    string             `json:"content_type"`
	SessionConfig  json.RawMessage    `json:"session_config,omitempty"`
	TotalTimeMs    int                `json:"total_time_ms"`
	ItemsCompleted int                `json:"items_completed"`
	Accuracy       float64            `json:"accuracy"`
	StartedAt      time.Time          `json:"started_at"`
	CompletedAt    time.Time          `json:"completed_at"`
	Responses      []ResponseResponse `json:"responses,omitempty"`
}

// ResponseItemRequest is one item-level answer inside a batch submit.
type ResponseItemRequest struct {
	ContentID      uuid.UUID       `json:"content_id"       validate:"required"`
	Data           json.RawMessage `json:"response_data"    validate:"required"`
	ResponseTimeMs int             `json:"response_time_ms" validate:"gte=0"`
	IsCorrect      bool            `json:"is_correct"`
	AttemptedAt    time.Time       `json:"attempted_at"     validate:"required"`
}

// SubmitResponsesRequest defines the payload for the batch response endpoint.
type SubmitResponsesRequest struct {
	Responses []ResponseItemRequest `json:"responses" validate:"required,min=1,dive"`
}

// ResponseResponse is the wire shape of a stored item-level answer.
type ResponseResponse struct {
	ID             uuid.UUID              `json:"id"`
	SessionID      uuid.UUID              `json:"session_id"`
	ContentID      uuid.UUID              `json:"content_id"`
	Data           domain.ResponsePayload `json:"response_data"`
	ResponseTimeMs int                    `json:"response_time_ms"`
	IsCorrect      bool                   `json:"is_correct"`
	AttemptedAt    time.Time              `json:"attempted_at"`
}

// RecordFailureRequest defines the payload for recording a failed attempt.
type RecordFailureRequest struct {
	ContentType string     `json:"content_type" validate:"required,oneof=cuecard mcq open_question"`
	ContentID   uuid.UUID  `json:"content_id"   validate:"required"`
	ConceptID   *uuid.UUID `json:"concept_id,omitempty"`
	Severity    int        `json:"severity"     validate:"gte=0,lte=10"`
}

// RecoverGapRequest defines the payload for closing an active gap.
type RecoverGapRequest struct {
	ContentType string    `json:"content_type" validate:"required,oneof=cuecard mcq open_question"`
	ContentID   uuid.UUID `json:"content_id"   validate:"required"`
}

// GapResponse is the wire shape of a learning gap.
type GapResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	ContentType   string     `json:"content_type"`
	ContentID     uuid.UUID  `json:"content_id"`
	ConceptID     *uuid.UUID `json:"concept_id,omitempty"`
	Severity      int        `json:"severity"`
	FailureCount  int        `json:"failure_count"`
	IsActive      bool       `json:"is_active"`
	LastFailureAt time.Time  `json:"last_failure_at"`
	RecoveredAt   *time.Time `json:"recovered_at,omitempty"`
}

// AnalyticsSummaryResponse reports aggregate learning numbers. Degraded is
// true when a backing read failed and the value is a default, not live data.
type AnalyticsSummaryResponse struct {
	SessionCount int64 `json:"session_count"`
	Degraded     bool  `json:"degraded,omitempty"`
}

// AnalyticsSessionsResponse lists recent sessions for the caller.
type AnalyticsSessionsResponse struct {
	Sessions []SessionDetailResponse `json:"sessions"`
	Degraded bool                    `json:"degraded,omitempty"`
}

// AnalyticsGapsResponse lists the caller's active gaps, most severe first.
type AnalyticsGapsResponse struct {
	Gaps     []GapResponse `json:"gaps"`
	Degraded bool          `json:"degraded,omitempty"`
}

func schedulingStateToResponse(state *domain.SchedulingState) SchedulingStateResponse {
	return SchedulingStateResponse{
		CardID:             state.CardID,
		UserID:             state.UserID,
		IntervalDays:       state.IntervalDays,
		EaseFactor:         state.EaseFactor,
		ConsecutiveCorrect: state.ConsecutiveCorrect,
		LastReviewedAt:     state.LastReviewedAt,
		NextReviewAt:       state.NextReviewAt,
		IsActive:           state.IsActive,
	}
}

func sessionToResponse(
	session *domain.LearningSession,
	responses []*domain.SessionResponse,
) SessionDetailResponse {
	out := SessionDetailResponse{
		ID:             session.ID,
		UserID:         session.UserID,
		ContentType:    string(session.ContentType),
		SessionConfig:  session.SessionConfig,
		TotalTimeMs:    session.TotalTimeMs,
		ItemsCompleted: session.ItemsCompleted,
		Accuracy:       session.Accuracy,
		StartedAt:      session.StartedAt,
		CompletedAt:    session.CompletedAt,
	}

	for _, resp := range responses {
		out.Responses = append(out.Responses, responseToResponse(resp))
	}

	return out
}

func responseToResponse(resp *domain.SessionResponse) ResponseResponse {
	return ResponseResponse{
		ID:             resp.ID,
		SessionID:      resp.SessionID,
		ContentID:      resp.ContentID,
		Data:           resp.Data,
		ResponseTimeMs: resp.ResponseTimeMs,
		IsCorrect:      resp.IsCorrect,
		AttemptedAt:    resp.AttemptedAt,
	}
}

func gapToResponse(gap *domain.LearningGap) GapResponse {
	return GapResponse{
		ID:            gap.ID,
		UserID:        gap.UserID,
		ContentType:   string(gap.ContentType),
		ContentID:     gap.ContentID,
		ConceptID:     gap.ConceptID,
		Severity:      gap.Severity,
		FailureCount:  gap.FailureCount,
		IsActive:      gap.IsActive,
		LastFailureAt: gap.LastFailureAt,
		RecoveredAt:   gap.RecoveredAt,
	}
}
