package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gawdwnn/studyloopai-sub005/internal/domain"
	"github.com/gawdwnn/studyloopai-sub005/internal/platform/logger"
	"github.com/gawdwnn/studyloopai-sub005/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface. It needs a full *sql.DB because the response batch
// insert manages its own transaction.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db *sql.DB, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// CreateSession implements store.SessionStore.CreateSession.
// It saves a new session summary, handling domain validation.
// Returns store.ErrInvalidEntity if the user reference is broken.
func (s *PostgresSessionStore) CreateSession(
	ctx context.Context,
	session *domain.LearningSession,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO learning_sessions (id, user_id, content_type, session_config,
			total_time_ms, items_completed, accuracy, started_at, completed_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	config := session.SessionConfig
	if len(config) == 0 {
		config = json.RawMessage(`{}`)
	}

	_, err := s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.UserID,
		session.ContentType,
		[]byte(config),
		session.TotalTimeMs,
		session.ItemsCompleted,
		session.Accuracy,
		session.StartedAt,
		session.CompletedAt,
		session.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during session creation",
				slog.String("error", err.Error()),
				slog.String("session_id", session.ID.String()),
				slog.String("user_id", session.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, session.UserID)
		}

		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return store.NewStoreError("learning_session", "create", "insert failed", err)
	}

	log.Info("session created successfully",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("content_type", string(session.ContentType)),
		slog.Int("items_completed", session.ItemsCompleted))
	return nil
}

// GetSession implements store.SessionStore.GetSession.
// Returns store.ErrSessionNotFound if the session does not exist.
func (s *PostgresSessionStore) GetSession(
	ctx context.Context,
	id uuid.UUID,
) (*domain.LearningSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, content_type, session_config, total_time_ms,
			items_completed, accuracy, started_at, completed_at, created_at
		FROM learning_sessions
		WHERE id = $1
	`

	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found", slog.String("session_id", id.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, store.NewStoreError("learning_session", "get", "query failed", err)
	}

	return session, nil
}

// CreateResponses implements store.SessionStore.CreateResponses.
//
// The batch runs in a single transaction: all rows commit or none do. Every
// response is validated and its payload encoded before the transaction
// starts, so a malformed row cannot leave a partial batch behind.
func (s *PostgresSessionStore) CreateResponses(
	ctx context.Context,
	responses []*domain.SessionResponse,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(responses) == 0 {
		return nil
	}

	type encodedResponse struct {
		response *domain.SessionResponse
		data     json.RawMessage
	}

	encoded := make([]encodedResponse, 0, len(responses))
	for _, response := range responses {
		if err := response.Validate(); err != nil {
			log.Warn("response validation failed during batch create",
				slog.String("error", err.Error()),
				slog.String("response_id", response.ID.String()),
				slog.String("session_id", response.SessionID.String()))
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		data, err := domain.EncodePayload(response.Data)
		if err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}

		encoded = append(encoded, encodedResponse{response: response, data: data})
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		query := `
			INSERT INTO session_responses (id, session_id, content_id, response_data,
				response_time_ms, is_correct, attempted_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

		for _, item := range encoded {
			_, err := tx.ExecContext(
				ctx,
				query,
				item.response.ID,
				item.response.SessionID,
				item.response.ContentID,
				[]byte(item.data),
				item.response.ResponseTimeMs,
				item.response.IsCorrect,
				item.response.AttemptedAt,
			)
			if err != nil {
				if isForeignKeyViolation(err) {
					return fmt.Errorf("%w: session %s",
						store.ErrSessionNotFound, item.response.SessionID)
				}
				return fmt.Errorf("failed to insert response %s: %w",
					item.response.ID, err)
			}
		}

		return nil
	})

	if err != nil {
		log.Error("failed to create session responses",
			slog.String("error", err.Error()),
			slog.String("session_id", responses[0].SessionID.String()),
			slog.Int("count", len(responses)))
		// StoreError unwraps, so sentinel checks like ErrSessionNotFound
		// still match through it.
		return store.NewStoreError("session_response", "create", "batch insert failed", err)
	}

	log.Info("session responses created successfully",
		slog.String("session_id", responses[0].SessionID.String()),
		slog.Int("count", len(responses)))
	return nil
}

// FindResponses implements store.SessionStore.FindResponses.
// The session's content type drives payload decoding, so the query joins the
// parent session row.
func (s *PostgresSessionStore) FindResponses(
	ctx context.Context,
	sessionID uuid.UUID,
) ([]*domain.SessionResponse, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT r.id, r.session_id, r.content_id, r.response_data,
			r.response_time_ms, r.is_correct, r.attempted_at, s.content_type
		FROM session_responses r
		JOIN learning_sessions s ON s.id = r.session_id
		WHERE r.session_id = $1
		ORDER BY r.attempted_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		log.Error("failed to query session responses",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, store.NewStoreError("session_response", "find", "query failed", err)
	}
	defer closeRows(rows, log)

	responses := []*domain.SessionResponse{}
	for rows.Next() {
		var response domain.SessionResponse
		var data []byte
		var contentType string

		err := rows.Scan(
			&response.ID,
			&response.SessionID,
			&response.ContentID,
			&data,
			&response.ResponseTimeMs,
			&response.IsCorrect,
			&response.AttemptedAt,
			&contentType,
		)
		if err != nil {
			log.Error("failed to scan response row",
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("session_response", "find", "scan failed", err)
		}

		payload, err := domain.DecodePayload(domain.ContentType(contentType), data)
		if err != nil {
			log.Error("failed to decode stored response payload",
				slog.String("error", err.Error()),
				slog.String("response_id", response.ID.String()))
			return nil, store.NewStoreError("session_response", "find", "payload decode failed", err)
		}
		response.Data = payload

		responses = append(responses, &response)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("session_response", "find", "row iteration failed", err)
	}

	return responses, nil
}

// CountByUser implements store.SessionStore.CountByUser.
func (s *PostgresSessionStore) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT COUNT(*) FROM learning_sessions WHERE user_id = $1`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		log.Error("failed to count sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return 0, store.NewStoreError("learning_session", "count", "query failed", err)
	}

	return count, nil
}

// FindRecentByUser implements store.SessionStore.FindRecentByUser.
func (s *PostgresSessionStore) FindRecentByUser(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
	contentType *domain.ContentType,
) ([]*domain.LearningSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 10 // Default limit
	}

	query := `
		SELECT id, user_id, content_type, session_config, total_time_ms,
			items_completed, accuracy, started_at, completed_at, created_at
		FROM learning_sessions
		WHERE user_id = $1
	`
	args := []any{userID}

	if contentType != nil {
		query += ` AND content_type = $2`
		args = append(args, *contentType)
	}

	query += fmt.Sprintf(` ORDER BY completed_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query recent sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("learning_session", "find", "query failed", err)
	}
	defer closeRows(rows, log)

	sessions := []*domain.LearningSession{}
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			log.Error("failed to scan session row",
				slog.String("error", err.Error()))
			return nil, store.NewStoreError("learning_session", "find", "scan failed", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("learning_session", "find", "row iteration failed", err)
	}

	return sessions, nil
}

func scanSession(row rowScanner) (*domain.LearningSession, error) {
	var session domain.LearningSession
	var contentType string
	var config []byte

	err := row.Scan(
		&session.ID,
		&session.UserID,
		&contentType,
		&config,
		&session.TotalTimeMs,
		&session.ItemsCompleted,
		&session.Accuracy,
		&session.StartedAt,
		&session.CompletedAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.ContentType = domain.ContentType(contentType)
	session.SessionConfig = json.RawMessage(config)

	return &session, nil
}
