package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/roadmap-labs/roadmap-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
// Password strength beyond the max length is checked by the credential
// policy, not by struct tags, so the client gets a specific message.
type RegisterRequest struct {
	Name       string `json:"name"        validate:"required,max=100"`
	Email      string `json:"email"       validate:"required,email"`
	Password   string `json:"password"    validate:"required,max=72"`
	RememberMe bool   `json:"remember_me"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email      string `json:"email"    validate:"required,email"`
	Password   string `json:"password" validate:"required,min=1"`
	RememberMe bool   `json:"remember_me"`
}

// AccountResponse is the client-facing account projection. It never carries
// the password hash or the progress version counter.
type AccountResponse struct {
	ID       uuid.UUID   `json:"id"`
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Role     domain.Role `json:"role"`
	JoinDate string      `json:"join_date"`
}

func newAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:       account.ID,
		Email:    account.Email,
		Name:     account.Name,
		Role:     account.Role,
		JoinDate: account.JoinDate,
	}
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// Token is the signed session token used for API authorization
	Token string `json:"token"`

	// Account is the authenticated account's public projection
	Account AccountResponse `json:"account"`
}

// UpdateProgressRequest defines the payload for the progress update
// endpoint. An empty curriculum falls back to the configured default.
type UpdateProgressRequest struct {
	Curriculum string `json:"curriculum" validate:"omitempty,max=100"`
	TopicID    int    `json:"topic_id"   validate:"required,min=1"`
	Status     string `json:"status"     validate:"required"`
}

// ResetProgressRequest defines the payload for the progress reset endpoint.
type ResetProgressRequest struct {
	Curriculum string `json:"curriculum" validate:"omitempty,max=100"`
}

// ProgressRecordResponse pairs a progress record with the curriculum it
// belongs to.
type ProgressRecordResponse struct {
	Curriculum string                 `json:"curriculum"`
	Record     *domain.ProgressRecord `json:"record"`
}

// TopicRequest is an authored topic within a curriculum payload. Ids are
// assigned server-side and ignored if supplied.
type TopicRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// PhaseRequest is an authored phase within a curriculum payload.
type PhaseRequest struct {
	Name   string         `json:"name"   validate:"required,max=200"`
	Topics []TopicRequest `json:"topics" validate:"required,min=1,dive"`
}

// CreateCurriculumRequest defines the payload for curriculum creation.
type CreateCurriculumRequest struct {
	Name        string         `json:"name"        validate:"required,max=200"`
	Description string         `json:"description" validate:"max=2000"`
	Phases      []PhaseRequest `json:"phases"      validate:"required,min=1,dive"`
}

// UpdateCurriculumRequest defines the payload for curriculum edits. Nil
// fields are left unchanged; supplying phases replaces them wholesale and
// renumbers every topic id.
type UpdateCurriculumRequest struct {
	Name        *string        `json:"name"        validate:"omitempty,max=200"`
	Description *string        `json:"description" validate:"omitempty,max=2000"`
	Phases      []PhaseRequest `json:"phases"      validate:"omitempty,min=1,dive"`
}

// CurriculumSummary is the public listing projection: metadata without the
// full phase tree.
type CurriculumSummary struct {
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TotalTopics int       `json:"total_topics"`
	CreatedAt   time.Time `json:"created_at"`
}

func newCurriculumSummary(c *domain.Curriculum) CurriculumSummary {
	return CurriculumSummary{
		Slug:        c.Slug,
		Name:        c.Name,
		Description: c.Description,
		TotalTopics: c.TotalTopics,
		CreatedAt:   c.CreatedAt,
	}
}

// toDomainPhases converts authored phase payloads into domain phases.
func toDomainPhases(phases []PhaseRequest) []domain.Phase {
	result := make([]domain.Phase, len(phases))
	for i, phase := range phases {
		topics := make([]domain.Topic, len(phase.Topics))
		for j, topic := range phase.Topics {
			topics[j] = domain.Topic{Name: topic.Name, Description: topic.Description}
		}
		result[i] = domain.Phase{Name: phase.Name, Topics: topics}
	}
	return result
}
