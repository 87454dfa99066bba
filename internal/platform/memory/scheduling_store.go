package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

type schedulingKey struct {
	userID uuid.UUID
	cardID uuid.UUID
}

// SchedulingStore is an in-memory implementation of store.SchedulingStore.
type SchedulingStore struct {
	mu     sync.Mutex
	states map[schedulingKey]*domain.SchedulingState

	// FailWith, when set, makes every call fail with this error.
	FailWith error
}

// NewSchedulingStore creates an empty in-memory scheduling store.
func NewSchedulingStore() *SchedulingStore {
	return &SchedulingStore{
		states: make(map[schedulingKey]*domain.SchedulingState),
	}
}

// Ensure SchedulingStore implements store.SchedulingStore interface
var _ store.SchedulingStore = (*SchedulingStore)(nil)

// Get implements store.SchedulingStore.Get.
func (s *SchedulingStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.SchedulingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	state, ok := s.states[schedulingKey{userID: userID, cardID: cardID}]
	if !ok {
		return nil, store.ErrSchedulingStateNotFound
	}

	return copyState(state), nil
}

// Update implements store.SchedulingStore.Update. The store mutex stands in
// for the row lock: concurrent updates of the same pair serialize here.
func (s *SchedulingStore) Update(
	ctx context.Context,
	userID, cardID uuid.UUID,
	fn store.ApplySchedulingFn,
) (*domain.SchedulingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	key := schedulingKey{userID: userID, cardID: cardID}

	var current *domain.SchedulingState
	if existing, ok := s.states[key]; ok {
		current = copyState(existing)
	}

	next, err := fn(current)
	if err != nil {
		return nil, err
	}

	if err := next.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	s.states[key] = copyState(next)
	return copyState(next), nil
}

// FindDue implements store.SchedulingStore.FindDue.
func (s *SchedulingStore) FindDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.SchedulingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	if limit <= 0 {
		limit = 20
	}

	due := []*domain.SchedulingState{}
	for key, state := range s.states {
		if key.userID != userID || !state.IsActive || state.NextReviewAt.After(now) {
			continue
		}
		due = append(due, copyState(state))
	}

	sort.Slice(due, func(i, j int) bool {
		return due[i].NextReviewAt.Before(due[j].NextReviewAt)
	})

	if len(due) > limit {
		due = due[:limit]
	}

	return due, nil
}

func copyState(state *domain.SchedulingState) *domain.SchedulingState {
	c := *state
	return &c
}
