package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
	"github.com/roadmap-labs/roadmap-api/internal/service/auth"
	"github.com/roadmap-labs/roadmap-api/internal/store"
)

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userStore         store.UserStore
	curriculumStore   store.CurriculumStore
	jwtService        auth.JWTService
	passwordVerifier  auth.PasswordVerifier
	defaultCurriculum string
	validator         *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
// defaultCurriculum is the slug whose progress is seeded at registration.
func NewAuthHandler(
	userStore store.UserStore,
	curriculumStore store.CurriculumStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	defaultCurriculum string,
) *AuthHandler {
	return &AuthHandler{
		userStore:         userStore,
		curriculumStore:   curriculumStore,
		jwtService:        jwtService,
		passwordVerifier:  passwordVerifier,
		defaultCurriculum: defaultCurriculum,
		validator:         validator.New(),
	}
}

// Register handles the /auth/register endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	// Strength feedback comes from the credential policy, not struct tags,
	// so the client learns which requirement failed.
	if check := auth.CheckPassword(req.Password); !check.IsValid {
		RespondWithError(w, r, http.StatusBadRequest,
			"Password must be at least 8 characters and contain upper case, lower case and a number")
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to create account")
		return
	}

	account, err := domain.NewAccount(req.Name, req.Email, hashed)
	if err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid account data")
		return
	}

	h.seedDefaultProgress(r, account)

	if err := h.userStore.Create(r.Context(), account); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		slog.Error("failed to create account", "error", err)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), account.ID, account.Role, req.RememberMe)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "account_id", account.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		Token:   token,
		Account: newAccountResponse(account),
	})
}

// Login handles the /auth/login endpoint.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	account, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to get account by email", "error", err)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to authenticate")
		return
	}

	if err := h.passwordVerifier.Compare(account.HashedPassword, req.Password); err != nil {
		RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), account.ID, account.Role, req.RememberMe)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "account_id", account.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		Token:   token,
		Account: newAccountResponse(account),
	})
}

// seedDefaultProgress pre-fills the default curriculum's record with every
// topic pending. A missing default curriculum is logged and skipped; the
// account still registers.
func (h *AuthHandler) seedDefaultProgress(r *http.Request, account *domain.Account) {
	if h.defaultCurriculum == "" {
		return
	}

	curriculum, err := h.curriculumStore.GetBySlug(r.Context(), h.defaultCurriculum)
	if err != nil {
		slog.Warn("default curriculum unavailable, skipping progress seed",
			"slug", h.defaultCurriculum,
			"error", err)
		return
	}

	record := domain.NewProgressRecord(curriculum.TotalTopics)
	record.SeedPending()
	account.Progress.Curricula[curriculum.Slug] = record
}
