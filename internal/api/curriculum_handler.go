package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/roadmap-labs/roadmap-api/internal/service"
)

// CurriculumHandler handles curriculum retrieval and authoring API
// requests. Authoring routes are mounted behind the admin role check.
type CurriculumHandler struct {
	curriculumService service.CurriculumService
	validator         *validator.Validate
}

// NewCurriculumHandler creates a new CurriculumHandler with the given dependencies.
func NewCurriculumHandler(curriculumService service.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{
		curriculumService: curriculumService,
		validator:         validator.New(),
	}
}

// ListCurricula handles GET /curricula, returning public summaries.
func (h *CurriculumHandler) ListCurricula(w http.ResponseWriter, r *http.Request) {
	curricula, err := h.curriculumService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list curricula")
		return
	}

	summaries := make([]CurriculumSummary, 0, len(curricula))
	for _, c := range curricula {
		summaries = append(summaries, newCurriculumSummary(c))
	}

	RespondWithJSON(w, r, http.StatusOK, summaries)
}

// GetCurriculum handles GET /curricula/{slug}, returning the full document.
func (h *CurriculumHandler) GetCurriculum(w http.ResponseWriter, r *http.Request) {
	slug, ok := getPathSlug(r)
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "Curriculum slug required")
		return
	}

	curriculum, err := h.curriculumService.Get(r.Context(), slug)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve curriculum")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, curriculum)
}

// ListCurriculaAdmin handles GET /admin/curricula, returning full documents.
func (h *CurriculumHandler) ListCurriculaAdmin(w http.ResponseWriter, r *http.Request) {
	curricula, err := h.curriculumService.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list curricula")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, curricula)
}

// CreateCurriculum handles POST /admin/curricula.
func (h *CurriculumHandler) CreateCurriculum(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateCurriculumRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	curriculum, err := h.curriculumService.Create(
		r.Context(), accountID, req.Name, req.Description, toDomainPhases(req.Phases))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create curriculum")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, curriculum)
}

// UpdateCurriculum handles PUT /admin/curricula/{slug}.
func (h *CurriculumHandler) UpdateCurriculum(w http.ResponseWriter, r *http.Request) {
	slug, ok := getPathSlug(r)
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "Curriculum slug required")
		return
	}

	var req UpdateCurriculumRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	params := service.UpdateCurriculumParams{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.Phases != nil {
		params.Phases = toDomainPhases(req.Phases)
	}

	curriculum, err := h.curriculumService.Update(r.Context(), slug, params)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update curriculum")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, curriculum)
}

// DeleteCurriculum handles DELETE /admin/curricula/{slug}.
func (h *CurriculumHandler) DeleteCurriculum(w http.ResponseWriter, r *http.Request) {
	slug, ok := getPathSlug(r)
	if !ok {
		RespondWithError(w, r, http.StatusBadRequest, "Curriculum slug required")
		return
	}

	if err := h.curriculumService.Delete(r.Context(), slug); err != nil {
		HandleAPIError(w, r, err, "Failed to delete curriculum")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, map[string]string{"message": "Curriculum deleted"})
}
