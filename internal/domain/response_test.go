package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePayloadCuecard(t *testing.T) {
	raw := json.RawMessage(`{"feedback":"correct","time_spent_ms":1500}`)

	payload, err := DecodePayload(ContentTypeCuecard, raw)
	require.NoError(t, err)

	cuecard, ok := payload.(*CuecardPayload)
	require.True(t, ok)
	assert.Equal(t, "correct", cuecard.Feedback)
	assert.Equal(t, 1500, cuecard.TimeSpentMs)
	assert.Equal(t, ContentTypeCuecard, payload.PayloadType())
}

func TestDecodePayloadMCQ(t *testing.T) {
	raw := json.RawMessage(
		`{"selected_option":"b","all_options":["a","b","c"],"correct_option":"b","time_spent_ms":900}`,
	)

	payload, err := DecodePayload(ContentTypeMCQ, raw)
	require.NoError(t, err)

	mcq, ok := payload.(*MCQPayload)
	require.True(t, ok)
	assert.Equal(t, "b", mcq.SelectedOption)
	assert.Len(t, mcq.AllOptions, 3)
}

func TestDecodePayloadOpenQuestion(t *testing.T) {
	raw := json.RawMessage(`{"user_answer":"photosynthesis","ai_score":87.5,"time_spent_ms":12000}`)

	payload, err := DecodePayload(ContentTypeOpenQuestion, raw)
	require.NoError(t, err)

	oq, ok := payload.(*OpenQuestionPayload)
	require.True(t, ok)
	assert.Equal(t, "photosynthesis", oq.UserAnswer)
	require.NotNil(t, oq.AIScore)
	assert.InDelta(t, 87.5, *oq.AIScore, 0.001)
}

func TestDecodePayloadRejectsWrongShape(t *testing.T) {
	// An MCQ payload decoded under the cuecard type lacks the required
	// feedback field.
	raw := json.RawMessage(
		`{"selected_option":"b","all_options":["a","b"],"correct_option":"b","time_spent_ms":900}`,
	)

	_, err := DecodePayload(ContentTypeCuecard, raw)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestDecodePayloadRejectsUnknownContentType(t *testing.T) {
	_, err := DecodePayload(ContentType("podcast"), json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestDecodePayloadRejectsEmpty(t *testing.T) {
	_, err := DecodePayload(ContentTypeCuecard, nil)
	assert.ErrorIs(t, err, ErrResponsePayloadMissing)
}

func TestDecodePayloadRejectsInvalidFields(t *testing.T) {
	testCases := []struct {
		name        string
		contentType ContentType
		raw         string
	}{
		{
			name:        "cuecard negative time spent",
			contentType: ContentTypeCuecard,
			raw:         `{"feedback":"ok","time_spent_ms":-1}`,
		},
		{
			name:        "cuecard difficulty rating out of range",
			contentType: ContentTypeCuecard,
			raw:         `{"feedback":"ok","time_spent_ms":10,"difficulty_rating":6}`,
		},
		{
			name:        "mcq missing options",
			contentType: ContentTypeMCQ,
			raw:         `{"selected_option":"a","correct_option":"a","time_spent_ms":10}`,
		},
		{
			name:        "open question score above 100",
			contentType: ContentTypeOpenQuestion,
			raw:         `{"user_answer":"x","ai_score":101,"time_spent_ms":10}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodePayload(tc.contentType, json.RawMessage(tc.raw))
			assert.ErrorIs(t, err, ErrInvalidPayload)
		})
	}
}

func TestEncodePayloadRoundTrip(t *testing.T) {
	original := &MCQPayload{
		SelectedOption: "a",
		AllOptions:     []string{"a", "b"},
		CorrectOption:  "b",
		TimeSpentMs:    4200,
	}

	raw, err := EncodePayload(original)
	require.NoError(t, err)

	decoded, err := DecodePayload(ContentTypeMCQ, raw)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestNewSessionResponseValidates(t *testing.T) {
	payload := &CuecardPayload{Feedback: "got it", TimeSpentMs: 800}
	now := time.Now().UTC()

	resp, err := NewSessionResponse(uuid.New(), uuid.New(), payload, 800, true, now)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)

	_, err = NewSessionResponse(uuid.Nil, uuid.New(), payload, 800, true, now)
	assert.ErrorIs(t, err, ErrResponseSessionEmpty)

	_, err = NewSessionResponse(uuid.New(), uuid.New(), nil, 800, true, now)
	assert.ErrorIs(t, err, ErrResponsePayloadMissing)

	_, err = NewSessionResponse(uuid.New(), uuid.New(), payload, -5, true, now)
	assert.ErrorIs(t, err, ErrResponseNegativeTime)
}
