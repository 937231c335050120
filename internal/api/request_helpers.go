package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/roadmap-labs/roadmap-api/internal/api/shared"
)

// Aliases for the shared helpers so handlers in this package stay terse.
var (
	DecodeJSON       = shared.DecodeJSON
	RespondWithJSON  = shared.RespondWithJSON
	RespondWithError = shared.RespondWithError
)

// getUserIDFromContext extracts the authenticated account's UUID from the
// request context, placed there by the authentication middleware.
// Returns the zero UUID and false if it is missing or invalid.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// getPathSlug extracts a non-empty slug path parameter.
func getPathSlug(r *http.Request) (string, bool) {
	slug := chi.URLParam(r, "slug")
	return slug, slug != ""
}

// HandleAPIError writes an error response using the central error-to-status
// mapping. An empty defaultMsg falls back to the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)

	msg := defaultMsg
	if msg == "" || status != http.StatusInternalServerError {
		msg = GetSafeErrorMessage(err)
	}

	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}
