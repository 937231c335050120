package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface using a
// PostgreSQL database as the storage backend. The per-curriculum progress
// document is kept as a JSONB column so the record keeps the nested shape
// the rest of the core expects, with a version column guarding updates.
type PostgresUserStore struct {
	db store.DBTX
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection that should be
// initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{
		db: db,
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, account *domain.Account) error {
	if err := account.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	progress, err := json.Marshal(account.Progress)
	if err != nil {
		return store.NewStoreError("account", "create", "failed to encode progress", err)
	}

	query := `
		INSERT INTO users (id, email, hashed_password, role, name, join_date,
			progress, progress_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = s.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.HashedPassword,
		account.Role,
		account.Name,
		account.JoinDate,
		progress,
		account.ProgressVersion,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return MapUniqueViolation(err, store.ErrEmailExists)
	}

	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, email, hashed_password, role, name, join_date,
			progress, progress_version, created_at, updated_at
		FROM users
		WHERE id = $1`

	return s.scanAccount(s.db.QueryRowContext(ctx, query, id))
}

// GetByEmail implements store.UserStore.GetByEmail.
// The email is matched exactly; it is a case-sensitive key.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `
		SELECT id, email, hashed_password, role, name, join_date,
			progress, progress_version, created_at, updated_at
		FROM users
		WHERE email = $1`

	return s.scanAccount(s.db.QueryRowContext(ctx, query, email))
}

// UpdateProgress implements store.UserStore.UpdateProgress. The whole
// document is replaced in one statement guarded by the version check, so a
// concurrent writer surfaces as ErrVersionMismatch instead of a silently
// lost update.
func (s *PostgresUserStore) UpdateProgress(
	ctx context.Context,
	id uuid.UUID,
	progress domain.ProgressDocument,
	expectedVersion int64,
) error {
	encoded, err := json.Marshal(progress)
	if err != nil {
		return store.NewStoreError("account", "update_progress", "failed to encode progress", err)
	}

	query := `
		UPDATE users
		SET progress = $1, progress_version = progress_version + 1, updated_at = now()
		WHERE id = $2 AND progress_version = $3`

	result, err := s.db.ExecContext(ctx, query, encoded, id, expectedVersion)
	if err != nil {
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	// Zero rows: either the account is gone or the version is stale.
	var exists bool
	checkQuery := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	if err := s.db.QueryRowContext(ctx, checkQuery, id).Scan(&exists); err != nil {
		return MapError(err)
	}
	if !exists {
		return store.ErrAccountNotFound
	}
	return store.ErrVersionMismatch
}

// scanAccount reads one account row and migrates the stored progress
// payload to the current schema version.
func (s *PostgresUserStore) scanAccount(row *sql.Row) (*domain.Account, error) {
	var account domain.Account
	var rawProgress []byte

	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.HashedPassword,
		&account.Role,
		&account.Name,
		&account.JoinDate,
		&rawProgress,
		&account.ProgressVersion,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAccountNotFound
		}
		return nil, MapError(err)
	}

	account.Progress, err = domain.MigrateProgress(rawProgress)
	if err != nil {
		return nil, store.NewStoreError("account", "get", "failed to decode progress", err)
	}

	return &account, nil
}
