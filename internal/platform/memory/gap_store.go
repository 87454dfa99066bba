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

// GapStore is an in-memory implementation of store.GapStore.
type GapStore struct {
	mu   sync.Mutex
	gaps []*domain.LearningGap

	// FailWith, when set, makes every call fail with this error.
	FailWith error
}

// NewGapStore creates an empty in-memory gap store.
func NewGapStore() *GapStore {
	return &GapStore{}
}

// Ensure GapStore implements store.GapStore interface
var _ store.GapStore = (*GapStore)(nil)

// EscalateActive implements store.GapStore.EscalateActive.
func (s *GapStore) EscalateActive(
	ctx context.Context,
	userID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
	now time.Time,
) (*domain.LearningGap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	gap := s.findActive(userID, contentType, contentID)
	if gap == nil {
		return nil, store.ErrGapNotFound
	}

	if err := gap.Escalate(now); err != nil {
		return nil, err
	}

	return copyGap(gap), nil
}

// Create implements store.GapStore.Create.
func (s *GapStore) Create(ctx context.Context, gap *domain.LearningGap) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return s.FailWith
	}

	if err := gap.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	if gap.IsActive && s.findActive(gap.UserID, gap.ContentType, gap.ContentID) != nil {
		return store.ErrActiveGapExists
	}

	s.gaps = append(s.gaps, copyGap(gap))
	return nil
}

// RecoverActive implements store.GapStore.RecoverActive.
func (s *GapStore) RecoverActive(
	ctx context.Context,
	userID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
	now time.Time,
) (*domain.LearningGap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	gap := s.findActive(userID, contentType, contentID)
	if gap == nil {
		return nil, store.ErrGapNotFound
	}

	if err := gap.Recover(now); err != nil {
		return nil, err
	}

	return copyGap(gap), nil
}

// FindActiveByUser implements store.GapStore.FindActiveByUser.
func (s *GapStore) FindActiveByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.LearningGap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	active := []*domain.LearningGap{}
	for _, gap := range s.gaps {
		if gap.UserID == userID && gap.IsActive {
			active = append(active, copyGap(gap))
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].Severity != active[j].Severity {
			return active[i].Severity > active[j].Severity
		}
		return active[i].LastFailureAt.After(active[j].LastFailureAt)
	})

	return active, nil
}

// FindByContent implements store.GapStore.FindByContent.
func (s *GapStore) FindByContent(
	ctx context.Context,
	userID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
) ([]*domain.LearningGap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWith != nil {
		return nil, s.FailWith
	}

	lineage := []*domain.LearningGap{}
	for _, gap := range s.gaps {
		if gap.UserID == userID && gap.ContentType == contentType && gap.ContentID == contentID {
			lineage = append(lineage, copyGap(gap))
		}
	}

	sort.Slice(lineage, func(i, j int) bool {
		return lineage[i].CreatedAt.Before(lineage[j].CreatedAt)
	})

	return lineage, nil
}

func (s *GapStore) findActive(
	userID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
) *domain.LearningGap {
	for _, gap := range s.gaps {
		if gap.UserID == userID && gap.ContentType == contentType &&
			gap.ContentID == contentID && gap.IsActive {
			return gap
		}
	}
	return nil
}

func copyGap(gap *domain.LearningGap) *domain.LearningGap {
	c := *gap
	if gap.ConceptID != nil {
		id := *gap.ConceptID
		c.ConceptID = &id
	}
	if gap.RecoveredAt != nil {
		t := *gap.RecoveredAt
		c.RecoveredAt = &t
	}
	return &c
}
