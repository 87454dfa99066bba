package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/auth"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/gaps"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/scheduling"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/session"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "nil error",
			err:            nil,
			expectedStatus: http.StatusInternalServerError, // Default to 500 for nil error
		},
		{
			name:           "authentication error",
			err:            auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrapped authentication error",
			err:            fmt.Errorf("failed to authenticate: %w", auth.ErrExpiredToken),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "scheduling authorization error",
			err:            scheduling.ErrNotAuthorized,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "session authorization error",
			err:            session.ErrNotAuthorized,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "bare domain authorization error",
			err:            domain.ErrUnauthorized,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "session not found error",
			err:            session.ErrSessionNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "store not found error",
			err:            store.ErrNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "conflict error",
			err:            store.ErrDuplicate,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid input error",
			err:            fmt.Errorf("bad batch: %w", session.ErrInvalidInput),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "invalid entity error",
			err:            store.ErrInvalidEntity,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "domain invalid ID error",
			err:            domain.ErrGapUserIDEmpty,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "domain validation error",
			err:            fmt.Errorf("bad entity: %w", domain.ErrValidation),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown error",
			err:            errors.New("unknown error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := MapErrorToStatusCode(tt.err)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		expectedMessage string
	}{
		{
			name:            "nil error",
			err:             nil,
			expectedMessage: "An unexpected error occurred",
		},
		{
			name:            "authentication error",
			err:             auth.ErrInvalidToken,
			expectedMessage: "Invalid token",
		},
		{
			name:            "session not owned error",
			err:             session.ErrNotAuthorized,
			expectedMessage: "You do not own this session",
		},
		{
			name:            "scheduling state not owned error",
			err:             scheduling.ErrNotAuthorized,
			expectedMessage: "You do not own this scheduling state",
		},
		{
			name:            "bare domain authorization error",
			err:             domain.ErrUnauthorized,
			expectedMessage: "You do not own this resource",
		},
		{
			name:            "session not found error",
			err:             fmt.Errorf("lookup failed: %w", session.ErrSessionNotFound),
			expectedMessage: "Session not found",
		},
		{
			name:            "invalid input error",
			err:             gaps.ErrInvalidInput,
			expectedMessage: "Invalid request data",
		},
		{
			name:            "unknown error",
			err:             errors.New("database error: connection refused"),
			expectedMessage: "An unexpected error occurred", // Database error details are hidden
		},
		{
			name: "wrapped database error with SQL details",
			err: fmt.Errorf(
				"SQL error: %w",
				errors.New("syntax error at line 42 in SELECT * FROM learning_gaps"),
			),
			expectedMessage: "An unexpected error occurred", // SQL details are hidden
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			message := GetSafeErrorMessage(tt.err)
			assert.Equal(t, tt.expectedMessage, message)
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	err := errors.New(
		"Key: 'ReviewRequest.ResponseTimeMs' Error:Field validation for 'ResponseTimeMs' failed on the 'gte' tag",
	)
	assert.Equal(t, "Invalid ResponseTimeMs: value too small", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
