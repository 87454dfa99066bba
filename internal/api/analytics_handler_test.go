package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/memory"
	"github.com/gawdwnn/studyloopai-sub005/internal/service/analytics"
)

func newAnalyticsTestRouter(
	t *testing.T,
	userID uuid.UUID,
) (chi.Router, *memory.SessionStore, *memory.GapStore) {
	t.Helper()

	sessionStore := memory.NewSessionStore()
	gapStore := memory.NewGapStore()
	svc := analytics.NewAnalyticsService(sessionStore, gapStore, testLogger())
	handler := NewAnalyticsHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Use(withUserID(userID))
	r.Get("/analytics/summary", handler.Summary)
	r.Get("/analytics/sessions", handler.Sessions)
	r.Get("/analytics/gaps", handler.Gaps)

	return r, sessionStore, gapStore
}

func seedAnalyticsSession(
	t *testing.T,
	store *memory.SessionStore,
	userID uuid.UUID,
	contentType domain.ContentType,
	completedAt time.Time,
) {
	t.Helper()

	s, err := domain.NewLearningSession(
		userID,
		contentType,
		nil,
		60000,
		5,
		80,
		completedAt.Add(-time.Minute),
		completedAt,
	)
	require.NoError(t, err)
	require.NoError(t, store.CreateSession(context.Background(), s))
}

func getPath(t *testing.T, router chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyticsSummaryEndpoint(t *testing.T) {
	userID := uuid.New()
	router, sessionStore, _ := newAnalyticsTestRouter(t, userID)

	now := time.Now().UTC()
	seedAnalyticsSession(t, sessionStore, userID, domain.ContentTypeCuecard, now)
	seedAnalyticsSession(t, sessionStore, userID, domain.ContentTypeMCQ, now.Add(-time.Hour))
	seedAnalyticsSession(t, sessionStore, uuid.New(), domain.ContentTypeCuecard, now)

	rec := getPath(t, router, "/analytics/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.SessionCount)
	assert.False(t, resp.Degraded)
}

func TestAnalyticsSummaryEndpointDegraded(t *testing.T) {
	userID := uuid.New()
	router, sessionStore, _ := newAnalyticsTestRouter(t, userID)
	sessionStore.FailWith = errors.New("connection refused")

	rec := getPath(t, router, "/analytics/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsSummaryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(0), resp.SessionCount)
	assert.True(t, resp.Degraded)
}

func TestAnalyticsSessionsEndpoint(t *testing.T) {
	userID := uuid.New()
	router, sessionStore, _ := newAnalyticsTestRouter(t, userID)

	now := time.Now().UTC()
	seedAnalyticsSession(t, sessionStore, userID, domain.ContentTypeCuecard, now)
	seedAnalyticsSession(t, sessionStore, userID, domain.ContentTypeMCQ, now.Add(-time.Hour))

	rec := getPath(t, router, "/analytics/sessions")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsSessionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 2)
	assert.Equal(t, "cuecard", resp.Sessions[0].ContentType)
	assert.False(t, resp.Degraded)
}

func TestAnalyticsSessionsEndpointContentTypeFilter(t *testing.T) {
	userID := uuid.New()
	router, sessionStore, _ := newAnalyticsTestRouter(t, userID)

	now := time.Now().UTC()
	seedAnalyticsSession(t, sessionStore, userID, domain.ContentTypeCuecard, now)
	seedAnalyticsSession(t, sessionStore, userID, domain.ContentTypeMCQ, now.Add(-time.Hour))

	rec := getPath(t, router, "/analytics/sessions?content_type=mcq&limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsSessionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, "mcq", resp.Sessions[0].ContentType)
}

func TestAnalyticsSessionsEndpointInvalidParams(t *testing.T) {
	router, _, _ := newAnalyticsTestRouter(t, uuid.New())

	rec := getPath(t, router, "/analytics/sessions?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = getPath(t, router, "/analytics/sessions?content_type=video")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsGapsEndpoint(t *testing.T) {
	userID := uuid.New()
	router, _, gapStore := newAnalyticsTestRouter(t, userID)

	now := time.Now().UTC()
	for _, severity := range []int{3, 8} {
		gap, err := domain.NewLearningGap(
			userID,
			domain.ContentTypeCuecard,
			uuid.New(),
			nil,
			severity,
			now,
		)
		require.NoError(t, err)
		require.NoError(t, gapStore.Create(context.Background(), gap))
	}

	rec := getPath(t, router, "/analytics/gaps")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsGapsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Gaps, 2)
	assert.Equal(t, 8, resp.Gaps[0].Severity)
	assert.Equal(t, 3, resp.Gaps[1].Severity)
	assert.False(t, resp.Degraded)
}

func TestAnalyticsGapsEndpointDegraded(t *testing.T) {
	userID := uuid.New()
	router, _, gapStore := newAnalyticsTestRouter(t, userID)
	gapStore.FailWith = errors.New("connection refused")

	rec := getPath(t, router, "/analytics/gaps")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp AnalyticsGapsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Gaps)
	assert.True(t, resp.Degraded)
}
