package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreErrorFormatting(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStoreError("learning_gap", "escalate", "query failed", cause)

	assert.Equal(t,
		"escalate operation on learning_gap failed: query failed: connection reset",
		err.Error())

	bare := NewStoreError("learning_session", "create", "insert failed", nil)
	assert.Equal(t,
		"create operation on learning_session failed: insert failed",
		bare.Error())
}

func TestStoreErrorUnwrapsSentinels(t *testing.T) {
	// Sentinel checks must keep matching through the added context.
	err := NewStoreError("session_response", "create", "batch insert failed",
		fmt.Errorf("%w: session abc", ErrSessionNotFound))

	assert.True(t, errors.Is(err, ErrSessionNotFound))
	assert.True(t, errors.Is(err, ErrNotFound))

	var storeErr *StoreError
	assert.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "session_response", storeErr.Entity)
	assert.Equal(t, "create", storeErr.Operation)
}

func TestIsNotFoundError(t *testing.T) {
	assert.True(t, IsNotFoundError(ErrNotFound))
	assert.True(t, IsNotFoundError(ErrSchedulingStateNotFound))
	assert.True(t, IsNotFoundError(ErrSessionNotFound))
	assert.True(t, IsNotFoundError(ErrGapNotFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", ErrGapNotFound)))

	assert.False(t, IsNotFoundError(nil))
	assert.False(t, IsNotFoundError(ErrDuplicate))
	assert.False(t, IsNotFoundError(errors.New("something else")))
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(ErrActiveGapExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("wrapped: %w", ErrActiveGapExists)))

	assert.False(t, IsDuplicateError(nil))
	assert.False(t, IsDuplicateError(ErrNotFound))
}

func TestUpdateFailedWrapping(t *testing.T) {
	err := fmt.Errorf("%w: upsert scheduling state: %v", ErrUpdateFailed,
		errors.New("constraint violation"))

	assert.True(t, errors.Is(err, ErrUpdateFailed))
	assert.False(t, IsNotFoundError(err))
}
