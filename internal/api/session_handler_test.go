package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gawdwnn/studyloopai-sub005/internal/platform/memory"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/session"
)

func newSessionTestRouter(t *testing.T, userID uuid.UUID) (chi.Router, *memory.SessionStore) {
	t.Helper()

	store := memory.NewSessionStore()
	svc := session.NewSessionService(store, testLogger())
	handler := NewSessionHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Use(withUserID(userID))
	r.Post("/sessions", handler.CreateSession)
	r.Post("/sessions/{id}/responses", handler.SubmitResponses)
	r.Get("/sessions/{id}", handler.GetSession)

	return r, store
}

func validSessionRequest() CreateSessionRequest {
	started := time.Now().UTC().Add(-10 * time.Minute)
	return CreateSessionRequest{
		ContentType:    "cuecard",
		SessionConfig:  json.RawMessage(`{"deck":"biology"}`),
		TotalTimeMs:    600000,
		ItemsCompleted: 12,
		Accuracy:       75,
		StartedAt:      started,
		CompletedAt:    started.Add(10 * time.Minute),
	}
}

func createSession(t *testing.T, router chi.Router) uuid.UUID {
	t.Helper()

	rec := postJSON(t, router, "/sessions", validSessionRequest())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created SessionDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEqual(t, uuid.Nil, created.ID)
	return created.ID
}

func TestCreateSessionEndpoint(t *testing.T) {
	userID := uuid.New()
	router, _ := newSessionTestRouter(t, userID)

	rec := postJSON(t, router, "/sessions", validSessionRequest())
	require.Equal(t, http.StatusCreated, rec.Code)

	var created SessionDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, userID, created.UserID)
	assert.Equal(t, "cuecard", created.ContentType)
	assert.Equal(t, 12, created.ItemsCompleted)
	assert.InDelta(t, 75, created.Accuracy, 0.001)
}

func TestCreateSessionEndpointRejectsBadAccuracy(t *testing.T) {
	router, _ := newSessionTestRouter(t, uuid.New())

	req := validSessionRequest()
	req.Accuracy = 120
	rec := postJSON(t, router, "/sessions", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitResponsesEndpoint(t *testing.T) {
	userID := uuid.New()
	router, _ := newSessionTestRouter(t, userID)
	sessionID := createSession(t, router)

	attempted := time.Now().UTC()
	rec := postJSON(t, router,
		fmt.Sprintf("/sessions/%s/responses", sessionID),
		SubmitResponsesRequest{
			Responses: []ResponseItemRequest{
				{
					ContentID:      uuid.New(),
					Data:           json.RawMessage(`{"feedback":"got_it","time_spent_ms":2000}`),
					ResponseTimeMs: 2000,
					IsCorrect:      true,
					AttemptedAt:    attempted,
				},
				{
					ContentID:      uuid.New(),
					Data:           json.RawMessage(`{"feedback":"missed_it","time_spent_ms":4000}`),
					ResponseTimeMs: 4000,
					AttemptedAt:    attempted,
				},
			},
		})
	require.Equal(t, http.StatusCreated, rec.Code)

	var stored []struct {
		ID        uuid.UUID `json:"id"`
		SessionID uuid.UUID `json:"session_id"`
		IsCorrect bool      `json:"is_correct"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, sessionID, stored[0].SessionID)
	assert.True(t, stored[0].IsCorrect)
	assert.False(t, stored[1].IsCorrect)
}

func TestSubmitResponsesEndpointRejectsWrongPayloadShape(t *testing.T) {
	userID := uuid.New()
	router, _ := newSessionTestRouter(t, userID)
	sessionID := createSession(t, router)

	// An MCQ-shaped payload against a cuecard session rejects the batch.
	rec := postJSON(t, router,
		fmt.Sprintf("/sessions/%s/responses", sessionID),
		SubmitResponsesRequest{
			Responses: []ResponseItemRequest{
				{
					ContentID:      uuid.New(),
					Data:           json.RawMessage(`{"selected_option":"a","all_options":["a","b"],"correct_option":"b","time_spent_ms":1000}`),
					ResponseTimeMs: 1000,
					AttemptedAt:    time.Now().UTC(),
				},
			},
		})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitResponsesEndpointEmptyBatch(t *testing.T) {
	userID := uuid.New()
	router, _ := newSessionTestRouter(t, userID)
	sessionID := createSession(t, router)

	rec := postJSON(t, router,
		fmt.Sprintf("/sessions/%s/responses", sessionID),
		SubmitResponsesRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitResponsesEndpointUnknownSession(t *testing.T) {
	router, _ := newSessionTestRouter(t, uuid.New())

	rec := postJSON(t, router,
		fmt.Sprintf("/sessions/%s/responses", uuid.New()),
		SubmitResponsesRequest{
			Responses: []ResponseItemRequest{
				{
					ContentID:      uuid.New(),
					Data:           json.RawMessage(`{"feedback":"got_it","time_spent_ms":500}`),
					ResponseTimeMs: 500,
					AttemptedAt:    time.Now().UTC(),
				},
			},
		})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSessionEndpoint(t *testing.T) {
	userID := uuid.New()
	router, _ := newSessionTestRouter(t, userID)
	sessionID := createSession(t, router)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/sessions/%s", sessionID), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var found SessionDetailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &found))
	assert.Equal(t, sessionID, found.ID)
	assert.Equal(t, userID, found.UserID)
}

func TestGetSessionEndpointNotOwned(t *testing.T) {
	owner := uuid.New()
	ownerRouter, store := newSessionTestRouter(t, owner)
	sessionID := createSession(t, ownerRouter)

	// Same store, different authenticated user.
	svc := session.NewSessionService(store, testLogger())
	handler := NewSessionHandler(svc, testLogger())
	other := chi.NewRouter()
	other.Use(withUserID(uuid.New()))
	other.Get("/sessions/{id}", handler.GetSession)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/sessions/%s", sessionID), nil)
	rec := httptest.NewRecorder()
	other.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetSessionEndpointInvalidID(t *testing.T) {
	router, _ := newSessionTestRouter(t, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/sessions/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
