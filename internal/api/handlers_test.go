package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/roadmap-labs/roadmap-api/internal/api/shared"
	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// In-memory stores backing handler tests. They mirror the sentinel error
// behavior of the postgres implementations.

type memUserStore struct {
	accounts           map[uuid.UUID]*domain.Account
	failNextUpdateWith error
}

func newMemUserStore() *memUserStore {
	return &memUserStore{accounts: make(map[uuid.UUID]*domain.Account)}
}

func (m *memUserStore) Create(ctx context.Context, account *domain.Account) error {
	for _, existing := range m.accounts {
		if existing.Email == account.Email {
			return store.ErrEmailExists
		}
	}
	copied := *account
	m.accounts[account.ID] = &copied
	return nil
}

func (m *memUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (m *memUserStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, account := range m.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func (m *memUserStore) UpdateProgress(
	ctx context.Context,
	id uuid.UUID,
	progress domain.ProgressDocument,
	expectedVersion int64,
) error {
	if m.failNextUpdateWith != nil {
		err := m.failNextUpdateWith
		m.failNextUpdateWith = nil
		return err
	}
	account, ok := m.accounts[id]
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

func (m *memUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

type memCurriculumStore struct {
	curricula map[string]*domain.Curriculum
	order     []string
}

func newMemCurriculumStore() *memCurriculumStore {
	return &memCurriculumStore{curricula: make(map[string]*domain.Curriculum)}
}

func (m *memCurriculumStore) Create(ctx context.Context, curriculum *domain.Curriculum) error {
	if _, ok := m.curricula[curriculum.Slug]; ok {
		return store.ErrSlugExists
	}
	copied := *curriculum
	m.curricula[curriculum.Slug] = &copied
	m.order = append(m.order, curriculum.Slug)
	return nil
}

func (m *memCurriculumStore) GetBySlug(ctx context.Context, slug string) (*domain.Curriculum, error) {
	curriculum, ok := m.curricula[slug]
	if !ok {
		return nil, store.ErrCurriculumNotFound
	}
	copied := *curriculum
	return &copied, nil
}

func (m *memCurriculumStore) List(ctx context.Context) ([]*domain.Curriculum, error) {
	var result []*domain.Curriculum
	for i := len(m.order) - 1; i >= 0; i-- {
		if curriculum, ok := m.curricula[m.order[i]]; ok {
			copied := *curriculum
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *memCurriculumStore) Update(ctx context.Context, currentSlug string, curriculum *domain.Curriculum) error {
	if _, ok := m.curricula[currentSlug]; !ok {
		return store.ErrCurriculumNotFound
	}
	if curriculum.Slug != currentSlug {
		if _, ok := m.curricula[curriculum.Slug]; ok {
			return store.ErrSlugExists
		}
		delete(m.curricula, currentSlug)
		for i, slug := range m.order {
			if slug == currentSlug {
				m.order[i] = curriculum.Slug
			}
		}
	}
	copied := *curriculum
	m.curricula[curriculum.Slug] = &copied
	return nil
}

func (m *memCurriculumStore) Delete(ctx context.Context, slug string) error {
	if _, ok := m.curricula[slug]; !ok {
		return store.ErrCurriculumNotFound
	}
	delete(m.curricula, slug)
	return nil
}

func (m *memCurriculumStore) WithTx(tx *sql.Tx) store.CurriculumStore { return m }

// seedCurriculum builds and stores a single-phase curriculum.
func seedCurriculum(t *testing.T, cs *memCurriculumStore, slug, name string, topicCount int) *domain.Curriculum {
	t.Helper()

	topics := make([]domain.Topic, topicCount)
	for i := range topics {
		topics[i] = domain.Topic{Name: fmt.Sprintf("Topic %d", i+1)}
	}
	phases, total := domain.AssignTopicIDs([]domain.Phase{{Name: "Phase 1", Topics: topics}})

	curriculum := &domain.Curriculum{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        name,
		Phases:      phases,
		TotalTopics: total,
		CreatedBy:   uuid.New(),
	}
	require.NoError(t, cs.Create(context.Background(), curriculum))
	return curriculum
}

// jsonRequest builds a request carrying the given payload, optionally with
// an authenticated identity in the context.
func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		require.NoError(t, json.NewEncoder(&body).Encode(payload))
	}
	return httptest.NewRequest(method, target, &body)
}

func withIdentity(r *http.Request, accountID uuid.UUID, role domain.Role) *http.Request {
	return r.WithContext(shared.SetIdentity(r.Context(), accountID, role))
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
