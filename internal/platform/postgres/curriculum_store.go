package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// PostgresCurriculumStore implements the store.CurriculumStore interface
// using a PostgreSQL database as the storage backend. Phases are stored as
// a JSONB column; the slug carries a unique index and is the only lookup
// key exposed outside the persistence layer.
type PostgresCurriculumStore struct {
	db store.DBTX
}

// NewPostgresCurriculumStore creates a new PostgreSQL implementation of the
// CurriculumStore interface.
func NewPostgresCurriculumStore(db store.DBTX) *PostgresCurriculumStore {
	return &PostgresCurriculumStore{
		db: db,
	}
}

// Ensure PostgresCurriculumStore implements store.CurriculumStore interface
var _ store.CurriculumStore = (*PostgresCurriculumStore)(nil)

// WithTx implements store.CurriculumStore.WithTx
func (s *PostgresCurriculumStore) WithTx(tx *sql.Tx) store.CurriculumStore {
	return &PostgresCurriculumStore{db: tx}
}

// Create implements store.CurriculumStore.Create
func (s *PostgresCurriculumStore) Create(ctx context.Context, curriculum *domain.Curriculum) error {
	if err := curriculum.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	phases, err := json.Marshal(curriculum.Phases)
	if err != nil {
		return store.NewStoreError("curriculum", "create", "failed to encode phases", err)
	}

	query := `
		INSERT INTO curricula (id, slug, name, description, phases,
			total_topics, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = s.db.ExecContext(ctx, query,
		curriculum.ID,
		curriculum.Slug,
		curriculum.Name,
		curriculum.Description,
		phases,
		curriculum.TotalTopics,
		curriculum.CreatedBy,
		curriculum.CreatedAt,
		curriculum.UpdatedAt,
	)
	if err != nil {
		return MapUniqueViolation(err, store.ErrSlugExists)
	}

	return nil
}

// GetBySlug implements store.CurriculumStore.GetBySlug
func (s *PostgresCurriculumStore) GetBySlug(ctx context.Context, slug string) (*domain.Curriculum, error) {
	query := `
		SELECT id, slug, name, description, phases, total_topics,
			created_by, created_at, updated_at
		FROM curricula
		WHERE slug = $1`

	curriculum, err := scanCurriculum(s.db.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCurriculumNotFound
		}
		return nil, err
	}
	return curriculum, nil
}

// List implements store.CurriculumStore.List, newest first.
func (s *PostgresCurriculumStore) List(ctx context.Context) ([]*domain.Curriculum, error) {
	query := `
		SELECT id, slug, name, description, phases, total_topics,
			created_by, created_at, updated_at
		FROM curricula
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var curricula []*domain.Curriculum
	for rows.Next() {
		curriculum, err := scanCurriculum(rows)
		if err != nil {
			return nil, err
		}
		curricula = append(curricula, curriculum)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return curricula, nil
}

// Update implements store.CurriculumStore.Update. currentSlug is the slug
// the curriculum is stored under; curriculum.Slug may differ after a rename.
func (s *PostgresCurriculumStore) Update(
	ctx context.Context,
	currentSlug string,
	curriculum *domain.Curriculum,
) error {
	if err := curriculum.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	phases, err := json.Marshal(curriculum.Phases)
	if err != nil {
		return store.NewStoreError("curriculum", "update", "failed to encode phases", err)
	}

	query := `
		UPDATE curricula
		SET slug = $1, name = $2, description = $3, phases = $4,
			total_topics = $5, updated_at = $6
		WHERE slug = $7`

	result, err := s.db.ExecContext(ctx, query,
		curriculum.Slug,
		curriculum.Name,
		curriculum.Description,
		phases,
		curriculum.TotalTopics,
		curriculum.UpdatedAt,
		currentSlug,
	)
	if err != nil {
		return MapUniqueViolation(err, store.ErrSlugExists)
	}

	if err := CheckRowsAffected(result, "curriculum"); err != nil {
		return store.ErrCurriculumNotFound
	}
	return nil
}

// Delete implements store.CurriculumStore.Delete
func (s *PostgresCurriculumStore) Delete(ctx context.Context, slug string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM curricula WHERE slug = $1`, slug)
	if err != nil {
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "curriculum"); err != nil {
		return store.ErrCurriculumNotFound
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCurriculum(row rowScanner) (*domain.Curriculum, error) {
	var curriculum domain.Curriculum
	var rawPhases []byte

	err := row.Scan(
		&curriculum.ID,
		&curriculum.Slug,
		&curriculum.Name,
		&curriculum.Description,
		&rawPhases,
		&curriculum.TotalTopics,
		&curriculum.CreatedBy,
		&curriculum.CreatedAt,
		&curriculum.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(rawPhases, &curriculum.Phases); err != nil {
		return nil, store.NewStoreError("curriculum", "get", "failed to decode phases", err)
	}

	return &curriculum, nil
}
