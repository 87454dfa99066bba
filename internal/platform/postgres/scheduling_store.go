package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// PostgresSchedulingStore implements the store.SchedulingStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSchedulingStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSchedulingStore creates a new PostgreSQL implementation of the
// SchedulingStore interface. It needs a full *sql.DB (not a transaction)
// because Update manages its own transaction for the row lock.
// If logger is nil, a default logger will be used.
func NewPostgresSchedulingStore(db *sql.DB, logger *slog.Logger) *PostgresSchedulingStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSchedulingStore{
		db:     db,
		logger: logger.With(slog.String("component", "scheduling_store")),
	}
}

// Ensure PostgresSchedulingStore implements store.SchedulingStore interface
var _ store.SchedulingStore = (*PostgresSchedulingStore)(nil)

const schedulingColumns = `card_id, user_id, interval_days, ease_factor,
		consecutive_correct, last_reviewed_at, next_review_at, is_active,
		created_at, updated_at`

// Get implements store.SchedulingStore.Get.
// Returns store.ErrSchedulingStateNotFound if no state exists for the pair.
func (s *PostgresSchedulingStore) Get(
	ctx context.Context,
	userID, cardID uuid.UUID,
) (*domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + schedulingColumns + `
		FROM scheduling_states
		WHERE user_id = $1 AND card_id = $2
	`

	state, err := scanSchedulingState(s.db.QueryRowContext(ctx, query, userID, cardID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSchedulingStateNotFound
		}
		log.Error("failed to get scheduling state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, store.NewStoreError("scheduling_state", "get", "query failed", err)
	}

	return state, nil
}

// Update implements store.SchedulingStore.Update.
//
// The read runs with SELECT ... FOR UPDATE inside a transaction, so a
// concurrent review of the same (user, card) pair blocks until this one
// commits. The write is a single idempotent upsert keyed on (card_id,
// user_id); first reviews insert, later ones update.
func (s *PostgresSchedulingStore) Update(
	ctx context.Context,
	userID, cardID uuid.UUID,
	fn store.ApplySchedulingFn,
) (*domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.SchedulingState
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		lockQuery := `
			SELECT ` + schedulingColumns + `
			FROM scheduling_states
			WHERE user_id = $1 AND card_id = $2
			FOR UPDATE
		`

		current, err := scanSchedulingState(tx.QueryRowContext(ctx, lockQuery, userID, cardID))
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("failed to lock scheduling state: %w", err)
			}
			current = nil // First review of this card by this user.
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		if err := next.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		upsert := `
			INSERT INTO scheduling_states (` + schedulingColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (card_id, user_id) DO UPDATE SET
				interval_days = EXCLUDED.interval_days,
				ease_factor = EXCLUDED.ease_factor,
				consecutive_correct = EXCLUDED.consecutive_correct,
				last_reviewed_at = EXCLUDED.last_reviewed_at,
				next_review_at = EXCLUDED.next_review_at,
				is_active = EXCLUDED.is_active,
				updated_at = EXCLUDED.updated_at
		`

		_, err = tx.ExecContext(
			ctx,
			upsert,
			next.CardID,
			next.UserID,
			next.IntervalDays,
			next.EaseFactor,
			next.ConsecutiveCorrect,
			next.LastReviewedAt,
			next.NextReviewAt,
			next.IsActive,
			next.CreatedAt,
			next.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("%w: upsert scheduling state: %v", store.ErrUpdateFailed, err)
		}

		updated = next
		return nil
	})

	if err != nil {
		log.Error("failed to update scheduling state",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, err
	}

	log.Debug("scheduling state updated",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Int("ease_factor", updated.EaseFactor))
	return updated, nil
}

// FindDue implements store.SchedulingStore.FindDue.
func (s *PostgresSchedulingStore) FindDue(
	ctx context.Context,
	userID uuid.UUID,
	now time.Time,
	limit int,
) ([]*domain.SchedulingState, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20 // Default page size
	}

	query := `
		SELECT ` + schedulingColumns + `
		FROM scheduling_states
		WHERE user_id = $1 AND is_active AND next_review_at <= $2
		ORDER BY next_review_at ASC
		LIMIT $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, now, limit)
	if err != nil {
		log.Error("failed to query due scheduling states",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("scheduling_state", "find", "query failed", err)
	}
	defer closeRows(rows, log)

	states := []*domain.SchedulingState{}
	for rows.Next() {
		state, err := scanSchedulingState(rows)
		if err != nil {
			log.Error("failed to scan scheduling state row",
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("scheduling_state", "find", "scan failed", err)
		}
		states = append(states, state)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("scheduling_state", "find", "row iteration failed", err)
	}

	return states, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedulingState(row rowScanner) (*domain.SchedulingState, error) {
	var state domain.SchedulingState
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&state.CardID,
		&state.UserID,
		&state.IntervalDays,
		&state.EaseFactor,
		&state.ConsecutiveCorrect,
		&lastReviewedAt,
		&state.NextReviewAt,
		&state.IsActive,
		&state.CreatedAt,
		&state.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		state.LastReviewedAt = lastReviewedAt.Time
	}

	return &state, nil
}

func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
