package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore for service tests. The
// version counter mirrors the optimistic check of the real store.
type fakeUserStore struct {
	accounts map[uuid.UUID]*domain.Account

	// failNextUpdateWith, when set, is returned by the next UpdateProgress
	// call and then cleared.
	failNextUpdateWith error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (f *fakeUserStore) Create(ctx context.Context, account *domain.Account) error {
	for _, existing := range f.accounts {
		if existing.Email == account.Email {
			return store.ErrEmailExists
		}
	}
	copied := *account
	f.accounts[account.ID] = &copied
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, ok := f.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, account := range f.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func (f *fakeUserStore) UpdateProgress(
	ctx context.Context,
	id uuid.UUID,
	progress domain.ProgressDocument,
	expectedVersion int64,
) error {
	if f.failNextUpdateWith != nil {
		err := f.failNextUpdateWith
		f.failNextUpdateWith = nil
		return err
	}

	account, ok := f.accounts[id]
	if !ok {
		return store.ErrAccountNotFound
	}
	if account.ProgressVersion != expectedVersion {
		return store.ErrVersionMismatch
	}
	account.Progress = progress
	account.ProgressVersion++
	return nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return f
}

// fakeCurriculumStore is an in-memory store.CurriculumStore for service tests.
type fakeCurriculumStore struct {
	curricula map[string]*domain.Curriculum
	order     []string
}

func newFakeCurriculumStore() *fakeCurriculumStore {
	return &fakeCurriculumStore{curricula: make(map[string]*domain.Curriculum)}
}

func (f *fakeCurriculumStore) Create(ctx context.Context, curriculum *domain.Curriculum) error {
	if _, ok := f.curricula[curriculum.Slug]; ok {
		return store.ErrSlugExists
	}
	copied := *curriculum
	f.curricula[curriculum.Slug] = &copied
	f.order = append(f.order, curriculum.Slug)
	return nil
}

func (f *fakeCurriculumStore) GetBySlug(ctx context.Context, slug string) (*domain.Curriculum, error) {
	curriculum, ok := f.curricula[slug]
	if !ok {
		return nil, store.ErrCurriculumNotFound
	}
	copied := *curriculum
	return &copied, nil
}

func (f *fakeCurriculumStore) List(ctx context.Context) ([]*domain.Curriculum, error) {
	// Newest first, mirroring the ORDER BY created_at DESC of the real store.
	var result []*domain.Curriculum
	for i := len(f.order) - 1; i >= 0; i-- {
		if curriculum, ok := f.curricula[f.order[i]]; ok {
			copied := *curriculum
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (f *fakeCurriculumStore) Update(ctx context.Context, currentSlug string, curriculum *domain.Curriculum) error {
	if _, ok := f.curricula[currentSlug]; !ok {
		return store.ErrCurriculumNotFound
	}
	if curriculum.Slug != currentSlug {
		if _, ok := f.curricula[curriculum.Slug]; ok {
			return store.ErrSlugExists
		}
		delete(f.curricula, currentSlug)
		for i, slug := range f.order {
			if slug == currentSlug {
				f.order[i] = curriculum.Slug
			}
		}
	}
	copied := *curriculum
	f.curricula[curriculum.Slug] = &copied
	return nil
}

func (f *fakeCurriculumStore) Delete(ctx context.Context, slug string) error {
	if _, ok := f.curricula[slug]; !ok {
		return store.ErrCurriculumNotFound
	}
	delete(f.curricula, slug)
	return nil
}

func (f *fakeCurriculumStore) WithTx(tx *sql.Tx) store.CurriculumStore {
	return f
}

// javaCurriculum builds a small curriculum with n topics in one phase.
func javaCurriculum(n int) *domain.Curriculum {
	topics := make([]domain.Topic, n)
	for i := range topics {
		topics[i] = domain.Topic{Name: fmt.Sprintf("Topic %d", i+1)}
	}
	phases, total := domain.AssignTopicIDs([]domain.Phase{{Name: "Phase 1", Topics: topics}})

	return &domain.Curriculum{
		ID:          uuid.New(),
		Slug:        "java",
		Name:        "Java",
		Description: "The Java roadmap",
		Phases:      phases,
		TotalTopics: total,
		CreatedBy:   uuid.New(),
	}
}
