// Package service implements the application's business operations on top
// of the store interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// ProgressService owns the per-account, per-curriculum topic status map.
// It never authenticates; callers hand it the identity resolved by the
// authorization middleware, and it only ever touches that account's record.
type ProgressService interface {
	// GetAll returns the account's full progress document, migrated to the
	// current schema version.
	GetAll(ctx context.Context, accountID uuid.UUID) (*domain.ProgressDocument, error)

	// Get returns the account's progress for one curriculum. A missing
	// record is not an error: an empty record seeded with the curriculum's
	// topic count is returned instead.
	Get(ctx context.Context, accountID uuid.UUID, slug string) (*domain.ProgressRecord, error)

	// SetTopicStatus upserts the status of a single topic and recomputes
	// the completed count. Creates the curriculum's record if absent.
	// Returns domain validation errors for bad status or id, and
	// store.ErrVersionMismatch when a concurrent update won the write.
	SetTopicStatus(ctx context.Context, accountID uuid.UUID, slug string, topicID int, status domain.TopicStatus) (*domain.ProgressRecord, error)

	// Reset sets every known topic for the curriculum back to pending.
	Reset(ctx context.Context, accountID uuid.UUID, slug string) (*domain.ProgressRecord, error)
}

// ProgressServiceImpl implements the ProgressService interface.
type ProgressServiceImpl struct {
	userStore       store.UserStore
	curriculumStore store.CurriculumStore
	logger          *slog.Logger
}

// Ensure ProgressServiceImpl implements ProgressService interface
var _ ProgressService = (*ProgressServiceImpl)(nil)

// NewProgressService creates a new ProgressService.
func NewProgressService(
	userStore store.UserStore,
	curriculumStore store.CurriculumStore,
	logger *slog.Logger,
) *ProgressServiceImpl {
	return &ProgressServiceImpl{
		userStore:       userStore,
		curriculumStore: curriculumStore,
		logger:          logger.With("component", "progress_service"),
	}
}

// GetAll returns the account's full progress document.
func (s *ProgressServiceImpl) GetAll(ctx context.Context, accountID uuid.UUID) (*domain.ProgressDocument, error) {
	account, err := s.userStore.GetByID(ctx, accountID)
	if err != nil {
		s.logger.Error("failed to retrieve account for progress read",
			"error", err,
			"account_id", accountID)
		return nil, fmt.Errorf("failed to retrieve progress: %w", err)
	}

	return &account.Progress, nil
}

// Get returns the account's progress for one curriculum, seeding an empty
// record with the curriculum's topic count when no record exists yet.
func (s *ProgressServiceImpl) Get(ctx context.Context, accountID uuid.UUID, slug string) (*domain.ProgressRecord, error) {
	account, err := s.userStore.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve progress: %w", err)
	}

	if record, ok := account.Progress.Curricula[slug]; ok {
		return record, nil
	}

	curriculum, err := s.curriculumStore.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrCurriculumNotFound) {
			s.logger.Debug("progress requested for unknown curriculum", "slug", slug)
		}
		return nil, fmt.Errorf("failed to seed progress record: %w", err)
	}

	// Not persisted: the record is materialized on first write.
	return domain.NewProgressRecord(curriculum.TotalTopics), nil
}

// SetTopicStatus upserts one topic's status. The read-modify-write is
// guarded by the progress version read alongside the account; a concurrent
// writer surfaces as store.ErrVersionMismatch and is never retried here.
func (s *ProgressServiceImpl) SetTopicStatus(
	ctx context.Context,
	accountID uuid.UUID,
	slug string,
	topicID int,
	status domain.TopicStatus,
) (*domain.ProgressRecord, error) {
	account, err := s.userStore.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	curriculum, err := s.curriculumStore.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve curriculum: %w", err)
	}

	record, ok := account.Progress.Curricula[slug]
	if !ok {
		record = domain.NewProgressRecord(curriculum.TotalTopics)
		account.Progress.Curricula[slug] = record
	}

	// The valid id range follows the curriculum as currently authored, not
	// the count cached at first touch.
	record.TotalTopics = curriculum.TotalTopics

	if err := record.SetTopicStatus(topicID, status); err != nil {
		return nil, err
	}

	if err := s.userStore.UpdateProgress(ctx, accountID, account.Progress, account.ProgressVersion); err != nil {
		if errors.Is(err, store.ErrVersionMismatch) {
			s.logger.Debug("concurrent progress update lost the version race",
				"account_id", accountID,
				"curriculum", slug)
		} else {
			s.logger.Error("failed to persist progress update",
				"error", err,
				"account_id", accountID,
				"curriculum", slug)
		}
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	s.logger.Debug("topic status updated",
		"account_id", accountID,
		"curriculum", slug,
		"topic_id", topicID,
		"status", status,
		"completed", record.CompletedTopics)

	return record, nil
}

// Reset sets every known topic for the curriculum back to pending.
func (s *ProgressServiceImpl) Reset(ctx context.Context, accountID uuid.UUID, slug string) (*domain.ProgressRecord, error) {
	account, err := s.userStore.GetByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	record, ok := account.Progress.Curricula[slug]
	if !ok {
		curriculum, err := s.curriculumStore.GetBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve curriculum: %w", err)
		}
		record = domain.NewProgressRecord(curriculum.TotalTopics)
		account.Progress.Curricula[slug] = record
	}

	record.Reset()

	if err := s.userStore.UpdateProgress(ctx, accountID, account.Progress, account.ProgressVersion); err != nil {
		return nil, fmt.Errorf("failed to reset progress: %w", err)
	}

	s.logger.Info("progress reset",
		"account_id", accountID,
		"curriculum", slug)

	return record, nil
}
