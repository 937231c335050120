package service

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// newCurriculumFixture wires the service to a fake store and a mocked
// *sql.DB. The fake ignores the transaction handle, so the mock only has to
// satisfy the begin/commit/rollback protocol.
func newCurriculumFixture(t *testing.T) (*CurriculumServiceImpl, *fakeCurriculumStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	curricula := newFakeCurriculumStore()
	return NewCurriculumService(curricula, db, testLogger()), curricula, mock
}

func phasesFor(names ...string) []domain.Phase {
	topics := make([]domain.Topic, len(names))
	for i, name := range names {
		topics[i] = domain.Topic{Name: name}
	}
	return []domain.Phase{{Name: "Phase 1", Topics: topics}}
}

func TestCurriculumCreateAssignsSlugAndIDs(t *testing.T) {
	svc, curricula, mock := newCurriculumFixture(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	admin := uuid.New()
	created, err := svc.Create(context.Background(), admin, "C++ 20", "Modern C++", phasesFor("Basics", "Templates", "Ranges"))
	require.NoError(t, err)

	assert.Equal(t, "c-20", created.Slug)
	assert.Equal(t, 3, created.TotalTopics)
	assert.Equal(t, admin, created.CreatedBy)
	for i, topic := range created.Phases[0].Topics {
		assert.Equal(t, i+1, topic.ID)
	}

	stored, err := curricula.GetBySlug(context.Background(), "c-20")
	require.NoError(t, err)
	assert.Equal(t, "C++ 20", stored.Name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumCreateSlugCollision(t *testing.T) {
	svc, curricula, mock := newCurriculumFixture(t)
	require.NoError(t, curricula.Create(context.Background(), javaCurriculum(2)))

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.Create(context.Background(), uuid.New(), "Java", "Another Java", phasesFor("Intro"))
	require.ErrorIs(t, err, store.ErrSlugExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumCreateRejectsEmptyPhases(t *testing.T) {
	svc, _, mock := newCurriculumFixture(t)

	_, err := svc.Create(context.Background(), uuid.New(), "Empty", "", nil)
	require.ErrorIs(t, err, domain.ErrValidation)

	// Validation fails before any transaction is opened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumUpdateRenameRecomputesSlug(t *testing.T) {
	svc, curricula, mock := newCurriculumFixture(t)
	require.NoError(t, curricula.Create(context.Background(), javaCurriculum(2)))

	mock.ExpectBegin()
	mock.ExpectCommit()

	newName := "Java SE 21"
	updated, err := svc.Update(context.Background(), "java", UpdateCurriculumParams{Name: &newName})
	require.NoError(t, err)

	assert.Equal(t, "java-se-21", updated.Slug)
	assert.Equal(t, "Java SE 21", updated.Name)

	_, err = curricula.GetBySlug(context.Background(), "java")
	require.ErrorIs(t, err, store.ErrCurriculumNotFound)
	_, err = curricula.GetBySlug(context.Background(), "java-se-21")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumUpdateRenameCollision(t *testing.T) {
	svc, curricula, mock := newCurriculumFixture(t)
	require.NoError(t, curricula.Create(context.Background(), javaCurriculum(2)))

	other := javaCurriculum(1)
	other.Slug = "kotlin"
	other.Name = "Kotlin"
	require.NoError(t, curricula.Create(context.Background(), other))

	mock.ExpectBegin()
	mock.ExpectRollback()

	newName := "Kotlin"
	_, err := svc.Update(context.Background(), "java", UpdateCurriculumParams{Name: &newName})
	require.ErrorIs(t, err, store.ErrSlugExists)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumUpdateRenumbersTopicIDs(t *testing.T) {
	svc, curricula, mock := newCurriculumFixture(t)
	require.NoError(t, curricula.Create(context.Background(), javaCurriculum(3)))

	mock.ExpectBegin()
	mock.ExpectCommit()

	// Replacing the phases renumbers every topic id from 1, so ids saved in
	// progress records stop pointing at the topics they were set against.
	updated, err := svc.Update(context.Background(), "java", UpdateCurriculumParams{
		Phases: phasesFor("New first", "New second"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, updated.TotalTopics)
	assert.Equal(t, 1, updated.Phases[0].Topics[0].ID)
	assert.Equal(t, 2, updated.Phases[0].Topics[1].ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumUpdateUnknownSlug(t *testing.T) {
	svc, _, mock := newCurriculumFixture(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	desc := "desc"
	_, err := svc.Update(context.Background(), "missing", UpdateCurriculumParams{Description: &desc})
	require.ErrorIs(t, err, store.ErrCurriculumNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCurriculumDelete(t *testing.T) {
	svc, curricula, _ := newCurriculumFixture(t)
	require.NoError(t, curricula.Create(context.Background(), javaCurriculum(2)))

	require.NoError(t, svc.Delete(context.Background(), "java"))

	_, err := curricula.GetBySlug(context.Background(), "java")
	require.ErrorIs(t, err, store.ErrCurriculumNotFound)

	err = svc.Delete(context.Background(), "java")
	require.ErrorIs(t, err, store.ErrCurriculumNotFound)
}

func TestCurriculumListNewestFirst(t *testing.T) {
	svc, curricula, _ := newCurriculumFixture(t)

	first := javaCurriculum(1)
	require.NoError(t, curricula.Create(context.Background(), first))

	second := javaCurriculum(1)
	second.Slug = "go"
	second.Name = "Go"
	require.NoError(t, curricula.Create(context.Background(), second))

	listed, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "go", listed[0].Slug)
	assert.Equal(t, "java", listed[1].Slug)
}

