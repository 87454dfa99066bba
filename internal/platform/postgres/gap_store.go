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

// PostgresGapStore implements the store.GapStore interface
// using a PostgreSQL database as the storage backend.
//
// Every write is a single conditional statement, so the store works against
// either a connection or a transaction. The partial unique index on active
// gaps is what upholds the one-active-gap invariant under concurrency.
type PostgresGapStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGapStore creates a new PostgreSQL implementation of the GapStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresGapStore(db store.DBTX, logger *slog.Logger) *PostgresGapStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGapStore{
		db:     db,
		logger: logger.With(slog.String("component", "gap_store")),
	}
}

// Ensure PostgresGapStore implements store.GapStore interface
var _ store.GapStore = (*PostgresGapStore)(nil)

const gapColumns = `id, user_id, content_type, content_id, concept_id, severity,
		failure_count, is_active, last_failure_at, recovered_at, created_at, updated_at`

// EscalateActive implements store.GapStore.EscalateActive.
// The increment happens in place so two concurrent failures cannot both read
// the same failure count.
func (s *PostgresGapStore) EscalateActive(
	ctx context.Context,
	userID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
	now time.Time,
) (*domain.LearningGap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE learning_gaps
		SET failure_count = failure_count + 1,
			severity = LEAST(severity + 1, $1),
			last_failure_at = $2,
			updated_at = $2
		WHERE user_id = $3 AND content_type = $4 AND content_id = $5 AND is_active
		RETURNING ` + gapColumns

	gap, err := scanGap(s.db.QueryRowContext(
		ctx, query, domain.MaxGapSeverity, now, userID, contentType, contentID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGapNotFound
		}
		log.Error("failed to escalate gap",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("content_id", contentID.String()))
		return nil, store.NewStoreError("learning_gap", "escalate", "query failed", err)
	}

	log.Debug("gap escalated",
		slog.String("gap_id", gap.ID.String()),
		slog.Int("severity", gap.Severity),
		slog.Int("failure_count", gap.FailureCount))
	return gap, nil
}

// Create implements store.GapStore.Create.
// Returns store.ErrActiveGapExists when the partial unique index rejects a
// second active gap for the same content.
func (s *PostgresGapStore) Create(ctx context.Context, gap *domain.LearningGap) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := gap.Validate(); err != nil {
		log.Warn("gap validation failed during create",
			slog.String("error", err.Error()),
			slog.String("gap_id", gap.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learning_gaps (` + gapColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var conceptID uuid.NullUUID
	if gap.ConceptID != nil {
		conceptID = uuid.NullUUID{UUID: *gap.ConceptID, Valid: true}
	}

	var recoveredAt sql.NullTime
	if gap.RecoveredAt != nil {
		recoveredAt = sql.NullTime{Time: *gap.RecoveredAt, Valid: true}
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		gap.ID,
		gap.UserID,
		gap.ContentType,
		gap.ContentID,
		conceptID,
		gap.Severity,
		gap.FailureCount,
		gap.IsActive,
		gap.LastFailureAt,
		recoveredAt,
		gap.CreatedAt,
		gap.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("active gap already exists",
				slog.String("user_id", gap.UserID.String()),
				slog.String("content_id", gap.ContentID.String()))
			return store.ErrActiveGapExists
		}

		log.Error("failed to create gap",
			slog.String("error", err.Error()),
			slog.String("gap_id", gap.ID.String()),
			slog.String("user_id", gap.UserID.String()))
		return store.NewStoreError("learning_gap", "create", "insert failed", err)
	}

	log.Info("gap created",
		slog.String("gap_id", gap.ID.String()),
		slog.String("user_id", gap.UserID.String()),
		slog.String("content_type", string(gap.ContentType)),
		slog.Int("severity", gap.Severity))
	return nil
}

// RecoverActive implements store.GapStore.RecoverActive.
// Recovery is terminal: the row keeps its history and is never reactivated.
func (s *PostgresGapStore) RecoverActive(
	ctx context.Context,
	userID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
	now time.Time,
) (*domain.LearningGap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE learning_gaps
		SET is_active = FALSE,
			recovered_at = $1,
			updated_at = $1
		WHERE user_id = $2 AND content_type = $3 AND content_id = $4 AND is_active
		RETURNING ` + gapColumns

	gap, err := scanGap(s.db.QueryRowContext(ctx, query, now, userID, contentType, contentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrGapNotFound
		}
		log.Error("failed to recover gap",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("content_id", contentID.String()))
		return nil, store.NewStoreError("learning_gap", "recover", "update failed", err)
	}

	log.Info("gap recovered",
		slog.String("gap_id", gap.ID.String()),
		slog.String("user_id", userID.String()),
		slog.String("content_id", contentID.String()))
	return gap, nil
}

// FindActiveByUser implements store.GapStore.FindActiveByUser.
func (s *PostgresGapStore) FindActiveByUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.LearningGap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + gapColumns + `
		FROM learning_gaps
		WHERE user_id = $1 AND is_active
		ORDER BY severity DESC, last_failure_at DESC
	`

	return s.queryGaps(ctx, log, query, userID)
}

// FindByContent implements store.GapStore.FindByContent.
func (s *PostgresGapStore) FindByContent(
	ctx context.Context,
	userID uuid.UUID,
	contentType domain.ContentType,
	contentID uuid.UUID,
) ([]*domain.LearningGap, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + gapColumns + `
		FROM learning_gaps
		WHERE user_id = $1 AND content_type = $2 AND content_id = $3
		ORDER BY created_at ASC
	`

	return s.queryGaps(ctx, log, query, userID, contentType, contentID)
}

func (s *PostgresGapStore) queryGaps(
	ctx context.Context,
	log *slog.Logger,
	query string,
	args ...any,
) ([]*domain.LearningGap, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query gaps", slog.String("error", err.Error()))
		return nil, store.NewStoreError("learning_gap", "find", "query failed", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	gaps := []*domain.LearningGap{}
	for rows.Next() {
		gap, err := scanGap(rows)
		if err != nil {
			log.Error("failed to scan gap row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("learning_gap", "find", "scan failed", err)
		}
		gaps = append(gaps, gap)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("learning_gap", "find", "row iteration failed", err)
	}

	return gaps, nil
}

func scanGap(row rowScanner) (*domain.LearningGap, error) {
	var gap domain.LearningGap
	var contentType string
	var conceptID uuid.NullUUID
	var recoveredAt sql.NullTime

	err := row.Scan(
		&gap.ID,
		&gap.UserID,
		&contentType,
		&gap.ContentID,
		&conceptID,
		&gap.Severity,
		&gap.FailureCount,
		&gap.IsActive,
		&gap.LastFailureAt,
		&recoveredAt,
		&gap.CreatedAt,
		&gap.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	gap.ContentType = domain.ContentType(contentType)
	if conceptID.Valid {
		id := conceptID.UUID
		gap.ConceptID = &id
	}
	if recoveredAt.Valid {
		t := recoveredAt.Time
		gap.RecoveredAt = &t
	}

	return &gap, nil
}
