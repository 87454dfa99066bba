package gaps

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/memory"
)

func failureParams(contentID uuid.UUID) RecordFailureParams {
	return RecordFailureParams{
		ContentType: domain.ContentTypeCuecard,
		ContentID:   contentID,
	}
}

func TestRecordFailureOpensNewGap(t *testing.T) {
	svc := NewGapService(memory.NewGapStore(), nil)
	userID := uuid.New()
	contentID := uuid.New()

	gap, err := svc.RecordFailure(context.Background(), userID, failureParams(contentID))
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultGapSeverity, gap.Severity)
	assert.Equal(t, 1, gap.FailureCount)
	assert.True(t, gap.IsActive)
}

func TestRecordFailureEscalatesExisting(t *testing.T) {
	svc := NewGapService(memory.NewGapStore(), nil)
	userID := uuid.New()
	contentID := uuid.New()
	ctx := context.Background()

	first, err := svc.RecordFailure(ctx, userID, failureParams(contentID))
	require.NoError(t, err)

	second, err := svc.RecordFailure(ctx, userID, failureParams(contentID))
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.FailureCount)
	assert.Equal(t, first.Severity+1, second.Severity)
}

func TestRecordFailureSeverityCapsAtTen(t *testing.T) {
	svc := NewGapService(memory.NewGapStore(), nil)
	userID := uuid.New()
	contentID := uuid.New()
	ctx := context.Background()

	params := failureParams(contentID)
	params.Severity = 9

	var gap *domain.LearningGap
	var err error
	for i := 0; i < 5; i++ {
		gap, err = svc.RecordFailure(ctx, userID, params)
		require.NoError(t, err)
	}

	assert.Equal(t, domain.MaxGapSeverity, gap.Severity)
	assert.Equal(t, 5, gap.FailureCount)
}

func TestRecordFailureInvalidInput(t *testing.T) {
	svc := NewGapService(memory.NewGapStore(), nil)

	_, err := svc.RecordFailure(context.Background(), uuid.Nil, failureParams(uuid.New()))
	assert.ErrorIs(t, err, ErrInvalidInput)

	params := failureParams(uuid.New())
	params.ContentType = domain.ContentType("video")
	_, err = svc.RecordFailure(context.Background(), uuid.New(), params)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecoverGap(t *testing.T) {
	store := memory.NewGapStore()
	svc := NewGapService(store, nil)
	userID := uuid.New()
	contentID := uuid.New()
	ctx := context.Background()

	_, err := svc.RecordFailure(ctx, userID, failureParams(contentID))
	require.NoError(t, err)

	recovered, err := svc.RecoverGap(ctx, userID, domain.ContentTypeCuecard, contentID)
	require.NoError(t, err)
	require.NotNil(t, recovered)
	assert.False(t, recovered.IsActive)
	assert.NotNil(t, recovered.RecoveredAt)

	active, err := store.FindActiveByUser(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestRecoverGapNoActiveGapIsNoOp(t *testing.T) {
	svc := NewGapService(memory.NewGapStore(), nil)

	gap, err := svc.RecoverGap(
		context.Background(),
		uuid.New(),
		domain.ContentTypeCuecard,
		uuid.New(),
	)
	require.NoError(t, err)
	assert.Nil(t, gap)
}

func TestFailureAfterRecoveryStartsFreshLineage(t *testing.T) {
	store := memory.NewGapStore()
	svc := NewGapService(store, nil)
	userID := uuid.New()
	contentID := uuid.New()
	ctx := context.Background()

	first, err := svc.RecordFailure(ctx, userID, failureParams(contentID))
	require.NoError(t, err)

	_, err = svc.RecoverGap(ctx, userID, domain.ContentTypeCuecard, contentID)
	require.NoError(t, err)

	fresh, err := svc.RecordFailure(ctx, userID, failureParams(contentID))
	require.NoError(t, err)

	// New row, recovered history preserved, exactly one active.
	assert.NotEqual(t, first.ID, fresh.ID)
	assert.Equal(t, 1, fresh.FailureCount)

	lineage, err := store.FindByContent(ctx, userID, domain.ContentTypeCuecard, contentID)
	require.NoError(t, err)
	require.Len(t, lineage, 2)

	activeCount := 0
	for _, gap := range lineage {
		if gap.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount)
}

func TestRecordFailureStoreErrorPropagates(t *testing.T) {
	store := memory.NewGapStore()
	store.FailWith = errors.New("connection refused")
	svc := NewGapService(store, nil)

	_, err := svc.RecordFailure(context.Background(), uuid.New(), failureParams(uuid.New()))
	assert.Error(t, err)
}

func TestActiveGapsOrdering(t *testing.T) {
	store := memory.NewGapStore()
	svc := NewGapService(store, nil)
	userID := uuid.New()
	ctx := context.Background()

	low := failureParams(uuid.New())
	low.Severity = 2
	_, err := svc.RecordFailure(ctx, userID, low)
	require.NoError(t, err)

	high := failureParams(uuid.New())
	high.Severity = 8
	_, err = svc.RecordFailure(ctx, userID, high)
	require.NoError(t, err)

	gaps, err := svc.ActiveGaps(ctx, userID)
	require.NoError(t, err)
	require.Len(t, gaps, 2)
	assert.Equal(t, 8, gaps[0].Severity)
	assert.Equal(t, 2, gaps[1].Severity)
}
