package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Response-specific validation errors. The empty-ID variants wrap ErrInvalidID.
var (
	ErrResponseIDEmpty        = fmt.Errorf("%w: response ID cannot be empty", ErrInvalidID)
	ErrResponseSessionEmpty   = fmt.Errorf("%w: response session ID cannot be empty", ErrInvalidID)
	ErrResponseContentEmpty   = fmt.Errorf("%w: response content ID cannot be empty", ErrInvalidID)
	ErrResponseNegativeTime   = errors.New("response time cannot be negative")
	ErrResponsePayloadMissing = errors.New("response payload cannot be empty")
)

// ResponsePayload is the tagged variant stored in a response's data field.
// Each content type has its own payload shape; the payload is stored verbatim
// and only is_correct and the response time are interpreted by this core.
type ResponsePayload interface {
	// PayloadType returns the content type this payload shape belongs to.
	PayloadType() ContentType

	// Validate checks the payload's required fields.
	Validate() error
}

// CuecardPayload is the response detail for a cuecard item.
type CuecardPayload struct {
	Feedback         string `json:"feedback"`
	TimeSpentMs      int    `json:"time_spent_ms"`
	DifficultyRating *int   `json:"difficulty_rating,omitempty"`
}

// PayloadType implements ResponsePayload.
func (p *CuecardPayload) PayloadType() ContentType { return ContentTypeCuecard }

// Validate implements ResponsePayload.
func (p *CuecardPayload) Validate() error {
	if p.Feedback == "" {
		return fmt.Errorf("%w: cuecard feedback is required", ErrInvalidPayload)
	}
	if p.TimeSpentMs < 0 {
		return fmt.Errorf("%w: cuecard time spent cannot be negative", ErrInvalidPayload)
	}
	if p.DifficultyRating != nil && (*p.DifficultyRating < 1 || *p.DifficultyRating > 5) {
		return fmt.Errorf("%w: cuecard difficulty rating must be within [1, 5]", ErrInvalidPayload)
	}
	return nil
}

// MCQPayload is the response detail for a multiple-choice item.
type MCQPayload struct {
	SelectedOption string   `json:"selected_option"`
	AllOptions     []string `json:"all_options"`
	CorrectOption  string   `json:"correct_option"`
	TimeSpentMs    int      `json:"time_spent_ms"`
}

// PayloadType implements ResponsePayload.
func (p *MCQPayload) PayloadType() ContentType { return ContentTypeMCQ }

// Validate implements ResponsePayload.
func (p *MCQPayload) Validate() error {
	if p.SelectedOption == "" {
		return fmt.Errorf("%w: mcq selected option is required", ErrInvalidPayload)
	}
	if len(p.AllOptions) == 0 {
		return fmt.Errorf("%w: mcq options are required", ErrInvalidPayload)
	}
	if p.CorrectOption == "" {
		return fmt.Errorf("%w: mcq correct option is required", ErrInvalidPayload)
	}
	if p.TimeSpentMs < 0 {
		return fmt.Errorf("%w: mcq time spent cannot be negative", ErrInvalidPayload)
	}
	return nil
}

// OpenQuestionPayload is the response detail for an open question item.
type OpenQuestionPayload struct {
	UserAnswer     string   `json:"user_answer"`
	ExpectedAnswer string   `json:"expected_answer,omitempty"`
	AIScore        *float64 `json:"ai_score,omitempty"`
	TimeSpentMs    int      `json:"time_spent_ms"`
}

// PayloadType implements ResponsePayload.
func (p *OpenQuestionPayload) PayloadType() ContentType { return ContentTypeOpenQuestion }

// Validate implements ResponsePayload.
func (p *OpenQuestionPayload) Validate() error {
	if p.UserAnswer == "" {
		return fmt.Errorf("%w: open question user answer is required", ErrInvalidPayload)
	}
	if p.AIScore != nil && (*p.AIScore < 0 || *p.AIScore > 100) {
		return fmt.Errorf("%w: open question ai score must be within [0, 100]", ErrInvalidPayload)
	}
	if p.TimeSpentMs < 0 {
		return fmt.Errorf("%w: open question time spent cannot be negative", ErrInvalidPayload)
	}
	return nil
}

// DecodePayload parses raw response data into the payload variant for the
// given content type. The variant is validated before being returned.
func DecodePayload(contentType ContentType, raw json.RawMessage) (ResponsePayload, error) {
	if len(raw) == 0 {
		return nil, ErrResponsePayloadMissing
	}

	var payload ResponsePayload
	switch contentType {
	case ContentTypeCuecard:
		payload = &CuecardPayload{}
	case ContentTypeMCQ:
		payload = &MCQPayload{}
	case ContentTypeOpenQuestion:
		payload = &OpenQuestionPayload{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidContentType, contentType)
	}

	if err := json.Unmarshal(raw, payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}

	return payload, nil
}

// EncodePayload serializes a payload variant for storage.
func EncodePayload(payload ResponsePayload) (json.RawMessage, error) {
	if payload == nil {
		return nil, ErrResponsePayloadMissing
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	return data, nil
}

// SessionResponse is a single item-level answer within a completed session.
// Responses are write-once and inserted as one atomic batch per session.
type SessionResponse struct {
	ID             uuid.UUID       `json:"id"`
	SessionID      uuid.UUID       `json:"session_id"`
	ContentID      uuid.UUID       `json:"content_id"`
	Data           ResponsePayload `json:"response_data"`
	ResponseTimeMs int             `json:"response_time_ms"`
	IsCorrect      bool            `json:"is_correct"`
	AttemptedAt    time.Time       `json:"attempted_at"`
}

// NewSessionResponse creates a response row for a session and validates it.
func NewSessionResponse(
	sessionID, contentID uuid.UUID,
	data ResponsePayload,
	responseTimeMs int,
	isCorrect bool,
	attemptedAt time.Time,
) (*SessionResponse, error) {
	response := &SessionResponse{
		ID:             uuid.New(),
		SessionID:      sessionID,
		ContentID:      contentID,
		Data:           data,
		ResponseTimeMs: responseTimeMs,
		IsCorrect:      isCorrect,
		AttemptedAt:    attemptedAt,
	}

	if err := response.Validate(); err != nil {
		return nil, err
	}

	return response, nil
}

// Validate checks if the SessionResponse has valid data.
func (r *SessionResponse) Validate() error {
	if r.ID == uuid.Nil {
		return ErrResponseIDEmpty
	}

	if r.SessionID == uuid.Nil {
		return ErrResponseSessionEmpty
	}

	if r.ContentID == uuid.Nil {
		return ErrResponseContentEmpty
	}

	if r.Data == nil {
		return ErrResponsePayloadMissing
	}

	if err := r.Data.Validate(); err != nil {
		return err
	}

	if r.ResponseTimeMs < 0 {
		return ErrResponseNegativeTime
	}

	return nil
}
