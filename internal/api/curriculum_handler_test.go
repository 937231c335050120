package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/service"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// stubCurriculumService lets handler tests script service outcomes without
// a database.
type stubCurriculumService struct {
	curricula map[string]*domain.Curriculum
	listErr   error
	forcedErr error
}

var _ service.CurriculumService = (*stubCurriculumService)(nil)

func newStubCurriculumService() *stubCurriculumService {
	return &stubCurriculumService{curricula: make(map[string]*domain.Curriculum)}
}

func (s *stubCurriculumService) List(ctx context.Context) ([]*domain.Curriculum, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var result []*domain.Curriculum
	for _, c := range s.curricula {
		result = append(result, c)
	}
	return result, nil
}

func (s *stubCurriculumService) Get(ctx context.Context, slug string) (*domain.Curriculum, error) {
	if c, ok := s.curricula[slug]; ok {
		return c, nil
	}
	return nil, store.ErrCurriculumNotFound
}

func (s *stubCurriculumService) Create(
	ctx context.Context,
	createdBy uuid.UUID,
	name, description string,
	phases []domain.Phase,
) (*domain.Curriculum, error) {
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	curriculum, err := domain.NewCurriculum(name, description, phases, createdBy)
	if err != nil {
		return nil, err
	}
	if _, ok := s.curricula[curriculum.Slug]; ok {
		return nil, store.ErrSlugExists
	}
	s.curricula[curriculum.Slug] = curriculum
	return curriculum, nil
}

func (s *stubCurriculumService) Update(
	ctx context.Context,
	slug string,
	params service.UpdateCurriculumParams,
) (*domain.Curriculum, error) {
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	curriculum, ok := s.curricula[slug]
	if !ok {
		return nil, store.ErrCurriculumNotFound
	}
	if params.Name != nil {
		curriculum.Name = *params.Name
		curriculum.Slug = domain.Slugify(*params.Name)
	}
	if params.Description != nil {
		curriculum.Description = *params.Description
	}
	if params.Phases != nil {
		curriculum.Phases, curriculum.TotalTopics = domain.AssignTopicIDs(params.Phases)
	}
	return curriculum, nil
}

func (s *stubCurriculumService) Delete(ctx context.Context, slug string) error {
	if _, ok := s.curricula[slug]; !ok {
		return store.ErrCurriculumNotFound
	}
	delete(s.curricula, slug)
	return nil
}

func slugRequest(r *http.Request, slug string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("slug", slug)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func sampleCurriculum(slug string) *domain.Curriculum {
	phases, total := domain.AssignTopicIDs([]domain.Phase{
		{Name: "Basics", Topics: []domain.Topic{{Name: "Syntax"}, {Name: "Types"}}},
	})
	return &domain.Curriculum{
		ID:          uuid.New(),
		Slug:        slug,
		Name:        slug,
		Phases:      phases,
		TotalTopics: total,
		CreatedBy:   uuid.New(),
		CreatedAt:   time.Now().UTC(),
	}
}

func TestListCurriculaReturnsSummaries(t *testing.T) {
	svc := newStubCurriculumService()
	svc.curricula["java"] = sampleCurriculum("java")
	handler := NewCurriculumHandler(svc)

	w := httptest.NewRecorder()
	handler.ListCurricula(w, httptest.NewRequest("GET", "/api/curricula", nil))

	require.Equal(t, http.StatusOK, w.Code)
	summaries := decodeBody[[]CurriculumSummary](t, w)
	require.Len(t, summaries, 1)
	assert.Equal(t, "java", summaries[0].Slug)
	assert.Equal(t, 2, summaries[0].TotalTopics)

	// Summaries never include the phase tree.
	assert.NotContains(t, w.Body.String(), "phases")
}

func TestGetCurriculumFullDocument(t *testing.T) {
	svc := newStubCurriculumService()
	svc.curricula["java"] = sampleCurriculum("java")
	handler := NewCurriculumHandler(svc)

	req := slugRequest(httptest.NewRequest("GET", "/api/curricula/java", nil), "java")
	w := httptest.NewRecorder()
	handler.GetCurriculum(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	curriculum := decodeBody[domain.Curriculum](t, w)
	assert.Equal(t, "java", curriculum.Slug)
	assert.Len(t, curriculum.Phases, 1)
}

func TestGetCurriculumNotFound(t *testing.T) {
	handler := NewCurriculumHandler(newStubCurriculumService())

	req := slugRequest(httptest.NewRequest("GET", "/api/curricula/missing", nil), "missing")
	w := httptest.NewRecorder()
	handler.GetCurriculum(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Curriculum not found")
}

func TestCreateCurriculum(t *testing.T) {
	handler := NewCurriculumHandler(newStubCurriculumService())

	payload := CreateCurriculumRequest{
		Name:        "C++ 20",
		Description: "Modern C++",
		Phases: []PhaseRequest{
			{Name: "Basics", Topics: []TopicRequest{{Name: "Syntax"}, {Name: "RAII"}}},
		},
	}
	req := withIdentity(jsonRequest(t, "POST", "/api/admin/curricula", payload), uuid.New(), domain.RoleAdmin)
	w := httptest.NewRecorder()
	handler.CreateCurriculum(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	curriculum := decodeBody[domain.Curriculum](t, w)
	assert.Equal(t, "c-20", curriculum.Slug)
	assert.Equal(t, 2, curriculum.TotalTopics)
	assert.Equal(t, 1, curriculum.Phases[0].Topics[0].ID)
}

func TestCreateCurriculumValidation(t *testing.T) {
	handler := NewCurriculumHandler(newStubCurriculumService())

	testCases := []struct {
		name    string
		payload CreateCurriculumRequest
	}{
		{
			name:    "missing name",
			payload: CreateCurriculumRequest{Phases: []PhaseRequest{{Name: "P", Topics: []TopicRequest{{Name: "T"}}}}},
		},
		{
			name:    "no phases",
			payload: CreateCurriculumRequest{Name: "Java"},
		},
		{
			name:    "phase without topics",
			payload: CreateCurriculumRequest{Name: "Java", Phases: []PhaseRequest{{Name: "P"}}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := withIdentity(jsonRequest(t, "POST", "/api/admin/curricula", tc.payload), uuid.New(), domain.RoleAdmin)
			w := httptest.NewRecorder()
			handler.CreateCurriculum(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestCreateCurriculumSlugConflict(t *testing.T) {
	svc := newStubCurriculumService()
	svc.curricula["java"] = sampleCurriculum("java")
	handler := NewCurriculumHandler(svc)

	payload := CreateCurriculumRequest{
		Name:   "Java",
		Phases: []PhaseRequest{{Name: "P", Topics: []TopicRequest{{Name: "T"}}}},
	}
	req := withIdentity(jsonRequest(t, "POST", "/api/admin/curricula", payload), uuid.New(), domain.RoleAdmin)
	w := httptest.NewRecorder()
	handler.CreateCurriculum(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateCurriculumRename(t *testing.T) {
	svc := newStubCurriculumService()
	svc.curricula["java"] = sampleCurriculum("java")
	handler := NewCurriculumHandler(svc)

	newName := "Java SE 21"
	req := withIdentity(
		slugRequest(jsonRequest(t, "PUT", "/api/admin/curricula/java", UpdateCurriculumRequest{Name: &newName}), "java"),
		uuid.New(), domain.RoleAdmin)
	w := httptest.NewRecorder()
	handler.UpdateCurriculum(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	curriculum := decodeBody[domain.Curriculum](t, w)
	assert.Equal(t, "java-se-21", curriculum.Slug)
}

func TestUpdateCurriculumNotFound(t *testing.T) {
	handler := NewCurriculumHandler(newStubCurriculumService())

	desc := "desc"
	req := withIdentity(
		slugRequest(jsonRequest(t, "PUT", "/api/admin/curricula/missing", UpdateCurriculumRequest{Description: &desc}), "missing"),
		uuid.New(), domain.RoleAdmin)
	w := httptest.NewRecorder()
	handler.UpdateCurriculum(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteCurriculum(t *testing.T) {
	svc := newStubCurriculumService()
	svc.curricula["java"] = sampleCurriculum("java")
	handler := NewCurriculumHandler(svc)

	req := slugRequest(httptest.NewRequest("DELETE", "/api/admin/curricula/java", nil), "java")
	w := httptest.NewRecorder()
	handler.DeleteCurriculum(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler.DeleteCurriculum(w, slugRequest(httptest.NewRequest("DELETE", "/api/admin/curricula/java", nil), "java"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListCurriculaAdminIncludesPhases(t *testing.T) {
	svc := newStubCurriculumService()
	svc.curricula["java"] = sampleCurriculum("java")
	handler := NewCurriculumHandler(svc)

	w := httptest.NewRecorder()
	handler.ListCurriculaAdmin(w, httptest.NewRequest("GET", "/api/admin/curricula", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "phases")
}
