package session

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/memory"
)

func validSessionParams() RecordSessionParams {
	started := time.Now().UTC().Add(-10 * time.Minute)
	return RecordSessionParams{
		ContentType:    domain.ContentTypeCuecard,
		SessionConfig:  json.RawMessage(`{"deck":"biology"}`),
		TotalTimeMs:    600000,
		ItemsCompleted: 12,
		Accuracy:       75,
		StartedAt:      started,
		CompletedAt:    started.Add(10 * time.Minute),
	}
}

func cuecardResponse(attemptedAt time.Time) ResponseParams {
	return ResponseParams{
		ContentID:      uuid.New(),
		Data:           json.RawMessage(`{"feedback":"correct","time_spent_ms":1500}`),
		ResponseTimeMs: 1500,
		IsCorrect:      true,
		AttemptedAt:    attemptedAt,
	}
}

func TestRecordSession(t *testing.T) {
	store := memory.NewSessionStore()
	svc := NewSessionService(store, nil)
	userID := uuid.New()

	created, err := svc.RecordSession(context.Background(), userID, validSessionParams())
	require.NoError(t, err)

	assert.Equal(t, userID, created.UserID)
	assert.NotEqual(t, uuid.Nil, created.ID)

	stored, err := store.GetSession(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Accuracy, stored.Accuracy)
}

func TestRecordSessionRejectsInvalid(t *testing.T) {
	svc := NewSessionService(memory.NewSessionStore(), nil)
	userID := uuid.New()

	params := validSessionParams()
	params.Accuracy = 120

	_, err := svc.RecordSession(context.Background(), userID, params)
	assert.ErrorIs(t, err, ErrInvalidInput)

	params = validSessionParams()
	params.ContentType = domain.ContentType("video")
	_, err = svc.RecordSession(context.Background(), userID, params)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordResponses(t *testing.T) {
	store := memory.NewSessionStore()
	svc := NewSessionService(store, nil)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.RecordSession(ctx, userID, validSessionParams())
	require.NoError(t, err)

	now := time.Now().UTC()
	stored, err := svc.RecordResponses(ctx, userID, created.ID, []ResponseParams{
		cuecardResponse(now),
		cuecardResponse(now.Add(time.Second)),
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)

	found, err := store.FindResponses(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestRecordResponsesMissingSession(t *testing.T) {
	store := memory.NewSessionStore()
	svc := NewSessionService(store, nil)

	_, err := svc.RecordResponses(
		context.Background(),
		uuid.New(),
		uuid.New(),
		[]ResponseParams{cuecardResponse(time.Now().UTC())},
	)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRecordResponsesNotOwned(t *testing.T) {
	store := memory.NewSessionStore()
	svc := NewSessionService(store, nil)
	ownerID := uuid.New()
	ctx := context.Background()

	created, err := svc.RecordSession(ctx, ownerID, validSessionParams())
	require.NoError(t, err)

	_, err = svc.RecordResponses(ctx, uuid.New(), created.ID, []ResponseParams{
		cuecardResponse(time.Now().UTC()),
	})
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Nothing was written.
	found, err := store.FindResponses(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRecordResponsesRejectsWrongPayloadShape(t *testing.T) {
	store := memory.NewSessionStore()
	svc := NewSessionService(store, nil)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.RecordSession(ctx, userID, validSessionParams())
	require.NoError(t, err)

	// MCQ payload against a cuecard session: the whole batch is rejected,
	// including the valid first item.
	bad := ResponseParams{
		ContentID:      uuid.New(),
		Data:           json.RawMessage(`{"selected_option":"a","all_options":["a"],"correct_option":"a","time_spent_ms":10}`),
		ResponseTimeMs: 10,
		IsCorrect:      true,
		AttemptedAt:    time.Now().UTC(),
	}

	_, err = svc.RecordResponses(ctx, userID, created.ID, []ResponseParams{
		cuecardResponse(time.Now().UTC()),
		bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	found, err := store.FindResponses(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestRecordResponsesEmptyBatch(t *testing.T) {
	svc := NewSessionService(memory.NewSessionStore(), nil)

	_, err := svc.RecordResponses(context.Background(), uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetSession(t *testing.T) {
	store := memory.NewSessionStore()
	svc := NewSessionService(store, nil)
	userID := uuid.New()
	ctx := context.Background()

	created, err := svc.RecordSession(ctx, userID, validSessionParams())
	require.NoError(t, err)

	_, err = svc.RecordResponses(ctx, userID, created.ID, []ResponseParams{
		cuecardResponse(time.Now().UTC()),
	})
	require.NoError(t, err)

	found, responses, err := svc.GetSession(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Len(t, responses, 1)

	// Other users cannot read it.
	_, _, err = svc.GetSession(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	// Unknown session.
	_, _, err = svc.GetSession(ctx, userID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
