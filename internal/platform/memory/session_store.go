package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// SessionStore is an in-memory implementation of store.SessionStore.
type SessionStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]*domain.LearningSession
	responses map[uuid.UUID][]*domain.SessionResponse

	// FailWith, when set, makes every call fail with this error.
	FailWith error
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions:  make(map[uuid.UUID]*domain.LearningSession),
		responses: make(map[uuid.UUID][]*domain.SessionResponse),
	}
}

// Ensure SessionStore implements store.SessionStore interface
var _ store.SessionStore = (*SessionStore)(nil)

// CreateSession implements store.SessionStore.CreateSession.
func (s *SessionStore) CreateSession(ctx context.Context, session *domain.LearningSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if _, ok := s.sessions[session.ID]; ok {
		return store.ErrDuplicate
	}

	s.sessions[session.ID] = copySession(session)
	return nil
}

// GetSession implements store.SessionStore.GetSession.
func (s *SessionStore) GetSession(ctx context.Context, id uuid.UUID) (*domain.LearningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	session, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrSessionNotFound
	}

	return copySession(session), nil
}

// CreateResponses implements store.SessionStore.CreateResponses.
// The whole batch is validated before any row is stored, matching the
// all-or-nothing contract of the SQL implementation.
func (s *SessionStore) CreateResponses(ctx context.Context, responses []*domain.SessionResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	if len(responses) == 0 {
		return nil
	}

	for _, response := range responses {
		if err := response.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		if _, ok := s.sessions[response.SessionID]; !ok {
			return fmt.Errorf("%w: session %s", store.ErrSessionNotFound, response.SessionID)
		}
	}

	for _, response := range responses {
		c := *response
		s.responses[response.SessionID] = append(s.responses[response.SessionID], &c)
	}

	return nil
}

// FindResponses implements store.SessionStore.FindResponses.
func (s *SessionStore) FindResponses(
	ctx context.Context,
	sessionID uuid.UUID,
) ([]*domain.SessionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	stored := s.responses[sessionID]
	responses := make([]*domain.SessionResponse, 0, len(stored))
	for _, response := range stored {
		c := *response
		responses = append(responses, &c)
	}

	sort.Slice(responses, func(i, j int) bool {
		return responses[i].AttemptedAt.Before(responses[j].AttemptedAt)
	})

	return responses, nil
}

// CountByUser implements store.SessionStore.CountByUser.
func (s *SessionStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return 0, s.FailWith
	}

	var count int64
	for _, session := range s.sessions {
		if session.UserID == userID {
			count++
		}
	}

	return count, nil
}

// FindRecentByUser implements store.SessionStore.FindRecentByUser.
func (s *SessionStore) FindRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
	contentType *domain.ContentType,
) ([]*domain.LearningSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	if limit <= 0 {
		limit = 10
	}

	sessions := []*domain.LearningSession{}
	for _, session := range s.sessions {
		if session.UserID != userID {
			continue
		}
		if contentType != nil && session.ContentType != *contentType {
			continue
		}
		sessions = append(sessions, copySession(session))
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CompletedAt.After(sessions[j].CompletedAt)
	})

	if len(sessions) > limit {
		sessions = sessions[:limit]
	}

	return sessions, nil
}

func copySession(session *domain.LearningSession) *domain.LearningSession {
	c := *session
	if session.SessionConfig != nil {
		c.SessionConfig = append([]byte(nil), session.SessionConfig...)
	}
	return &c
}
