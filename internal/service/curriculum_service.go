package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// CurriculumService provides curriculum authoring and retrieval. Authoring
// operations assume the caller was already authorized as admin; this
// service never inspects identity beyond recording the creator.
type CurriculumService interface {
	// List returns all curricula, newest first.
	List(ctx context.Context) ([]*domain.Curriculum, error)

	// Get retrieves one curriculum by slug.
	Get(ctx context.Context, slug string) (*domain.Curriculum, error)

	// Create authors a new curriculum: derives the slug, assigns topic
	// ids and persists. Returns store.ErrSlugExists on slug collision.
	Create(ctx context.Context, createdBy uuid.UUID, name, description string, phases []domain.Phase) (*domain.Curriculum, error)

	// Update edits an existing curriculum. A rename recomputes the slug
	// (checked for collision); new phases are renumbered from scratch,
	// which invalidates progress keyed by the old ids when order changed.
	Update(ctx context.Context, slug string, params UpdateCurriculumParams) (*domain.Curriculum, error)

	// Delete removes a curriculum by slug.
	Delete(ctx context.Context, slug string) error
}

// UpdateCurriculumParams carries the optional fields of a curriculum edit.
// Nil fields are left unchanged.
type UpdateCurriculumParams struct {
	Name        *string
	Description *string
	Phases      []domain.Phase
}

// CurriculumServiceImpl implements the CurriculumService interface.
type CurriculumServiceImpl struct {
	curriculumStore store.CurriculumStore
	db              *sql.DB
	logger          *slog.Logger
}

// Ensure CurriculumServiceImpl implements CurriculumService interface
var _ CurriculumService = (*CurriculumServiceImpl)(nil)

// NewCurriculumService creates a new CurriculumService.
func NewCurriculumService(
	curriculumStore store.CurriculumStore,
	db *sql.DB,
	logger *slog.Logger,
) *CurriculumServiceImpl {
	return &CurriculumServiceImpl{
		curriculumStore: curriculumStore,
		db:              db,
		logger:          logger.With("component", "curriculum_service"),
	}
}

// List returns all curricula, newest first.
func (s *CurriculumServiceImpl) List(ctx context.Context) ([]*domain.Curriculum, error) {
	curricula, err := s.curriculumStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list curricula", "error", err)
		return nil, fmt.Errorf("failed to list curricula: %w", err)
	}
	return curricula, nil
}

// Get retrieves one curriculum by slug.
func (s *CurriculumServiceImpl) Get(ctx context.Context, slug string) (*domain.Curriculum, error) {
	curriculum, err := s.curriculumStore.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, store.ErrCurriculumNotFound) {
			s.logger.Error("failed to retrieve curriculum", "error", err, "slug", slug)
		}
		return nil, fmt.Errorf("failed to retrieve curriculum: %w", err)
	}
	return curriculum, nil
}

// Create authors a new curriculum.
func (s *CurriculumServiceImpl) Create(
	ctx context.Context,
	createdBy uuid.UUID,
	name, description string,
	phases []domain.Phase,
) (*domain.Curriculum, error) {
	curriculum, err := domain.NewCurriculum(name, description, phases, createdBy)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.curriculumStore.WithTx(tx)

		// Pre-check gives a clean conflict before the insert; the unique
		// index still backstops a race between the two statements.
		_, err := txStore.GetBySlug(ctx, curriculum.Slug)
		if err == nil {
			return store.ErrSlugExists
		}
		if !errors.Is(err, store.ErrCurriculumNotFound) {
			return err
		}

		return txStore.Create(ctx, curriculum)
	})
	if err != nil {
		if errors.Is(err, store.ErrSlugExists) {
			s.logger.Debug("curriculum slug collision", "slug", curriculum.Slug)
		} else {
			s.logger.Error("failed to create curriculum", "error", err, "slug", curriculum.Slug)
		}
		return nil, fmt.Errorf("failed to create curriculum: %w", err)
	}

	s.logger.Info("curriculum created",
		"slug", curriculum.Slug,
		"total_topics", curriculum.TotalTopics,
		"created_by", createdBy)

	return curriculum, nil
}

// Update edits an existing curriculum.
func (s *CurriculumServiceImpl) Update(
	ctx context.Context,
	slug string,
	params UpdateCurriculumParams,
) (*domain.Curriculum, error) {
	var updated *domain.Curriculum

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.curriculumStore.WithTx(tx)

		curriculum, err := txStore.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}

		if params.Name != nil {
			curriculum.Name = *params.Name
			newSlug := domain.Slugify(*params.Name)
			if newSlug != slug {
				if _, err := txStore.GetBySlug(ctx, newSlug); err == nil {
					return store.ErrSlugExists
				} else if !errors.Is(err, store.ErrCurriculumNotFound) {
					return err
				}
			}
			curriculum.Slug = newSlug
		}

		if params.Description != nil {
			curriculum.Description = *params.Description
		}

		if params.Phases != nil {
			// Ids are renumbered from scratch on every phase edit.
			curriculum.Phases, curriculum.TotalTopics = domain.AssignTopicIDs(params.Phases)
		}

		curriculum.UpdatedAt = time.Now().UTC()

		if err := txStore.Update(ctx, slug, curriculum); err != nil {
			return err
		}

		updated = curriculum
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrCurriculumNotFound) || errors.Is(err, store.ErrSlugExists) {
			s.logger.Debug("curriculum update rejected", "error", err, "slug", slug)
		} else {
			s.logger.Error("failed to update curriculum", "error", err, "slug", slug)
		}
		return nil, fmt.Errorf("failed to update curriculum: %w", err)
	}

	s.logger.Info("curriculum updated",
		"slug", slug,
		"new_slug", updated.Slug,
		"total_topics", updated.TotalTopics)

	return updated, nil
}

// Delete removes a curriculum by slug.
func (s *CurriculumServiceImpl) Delete(ctx context.Context, slug string) error {
	if err := s.curriculumStore.Delete(ctx, slug); err != nil {
		if errors.Is(err, store.ErrCurriculumNotFound) {
			s.logger.Debug("attempted to delete unknown curriculum", "slug", slug)
		} else {
			s.logger.Error("failed to delete curriculum", "error", err, "slug", slug)
		}
		return fmt.Errorf("failed to delete curriculum: %w", err)
	}

	s.logger.Info("curriculum deleted", "slug", slug)
	return nil
}
