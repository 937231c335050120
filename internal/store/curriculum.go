package store

import (
	"context"
	"database/sql"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
)

// CurriculumStore defines the interface for curriculum data persistence.
// The slug is the external lookup key throughout; the storage UUID never
// leaves the persistence layer.
type CurriculumStore interface {
	// Create saves a new curriculum to the store.
	// Returns ErrSlugExists if the slug is already taken.
	Create(ctx context.Context, curriculum *domain.Curriculum) error

	// GetBySlug retrieves a curriculum by its slug.
	// Returns ErrCurriculumNotFound if the curriculum does not exist.
	GetBySlug(ctx context.Context, slug string) (*domain.Curriculum, error)

	// List returns all curricula ordered by creation time descending.
	List(ctx context.Context) ([]*domain.Curriculum, error)

	// Update modifies an existing curriculum, looked up by its current
	// slug. The curriculum's Slug field may differ from currentSlug when a
	// rename changed it; the new slug's uniqueness is enforced.
	// Returns ErrCurriculumNotFound if no curriculum has currentSlug.
	// Returns ErrSlugExists if the new slug collides.
	Update(ctx context.Context, currentSlug string, curriculum *domain.Curriculum) error

	// Delete removes a curriculum by its slug.
	// Returns ErrCurriculumNotFound if the curriculum does not exist.
	Delete(ctx context.Context, slug string) error

	// WithTx returns a new CurriculumStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CurriculumStore
}
