package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/service"
)

// ProgressHandler handles progress tracking API requests. Identity always
// comes from the request context; there is no way to address another
// account's progress.
type ProgressHandler struct {
	progressService   service.ProgressService
	defaultCurriculum string
	validator         *validator.Validate
}

// NewProgressHandler creates a new ProgressHandler with the given dependencies.
func NewProgressHandler(progressService service.ProgressService, defaultCurriculum string) *ProgressHandler {
	return &ProgressHandler{
		progressService:   progressService,
		defaultCurriculum: defaultCurriculum,
		validator:         validator.New(),
	}
}

// GetProgress handles GET /user/progress, returning the caller's full
// progress document.
func (h *ProgressHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	doc, err := h.progressService.GetAll(r.Context(), accountID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve progress")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, doc)
}

// UpdateProgress handles PUT /user/progress, setting one topic's status.
func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateProgressRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	slug := req.Curriculum
	if slug == "" {
		slug = h.defaultCurriculum
	}

	record, err := h.progressService.SetTopicStatus(
		r.Context(), accountID, slug, req.TopicID, domain.TopicStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update progress")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProgressRecordResponse{
		Curriculum: slug,
		Record:     record,
	})
}

// ResetProgress handles POST /user/progress/reset. The body is optional;
// without one the default curriculum is reset.
func (h *ProgressHandler) ResetProgress(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getUserIDFromContext(r)
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ResetProgressRequest
	if err := DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	slug := req.Curriculum
	if slug == "" {
		slug = h.defaultCurriculum
	}

	record, err := h.progressService.Reset(r.Context(), accountID, slug)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset progress")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, ProgressRecordResponse{
		Curriculum: slug,
		Record:     record,
	})
}
