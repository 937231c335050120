package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/roadmap-labs/roadmap-api/internal/domain"
)

// UserStore defines the interface for account data persistence.
type UserStore interface {
	// Create saves a new account to the store.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain Account if data is invalid.
	Create(ctx context.Context, account *domain.Account) error

	// GetByID retrieves an account by its unique ID, with the progress
	// document already migrated to the current schema version.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)

	// GetByEmail retrieves an account by its email address. The email is a
	// case-sensitive key.
	// Returns ErrAccountNotFound if the account does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)

	// UpdateProgress replaces the account's whole progress document,
	// guarded by an optimistic version check. expectedVersion must be the
	// ProgressVersion the caller read; the stored version is incremented
	// on success.
	// Returns ErrVersionMismatch if another request wrote in between.
	// Returns ErrAccountNotFound if the account does not exist.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress domain.ProgressDocument, expectedVersion int64) error

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. The transaction should be created and managed by the
	// caller (typically a service).
	WithTx(tx *sql.Tx) UserStore
}
