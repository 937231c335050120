package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/roadmap-labs/roadmap-api/internal/domain"
)

// JWTService defines operations for managing JWT session tokens. Tokens are
// never stored server-side; validity is purely signature plus expiry.
type JWTService interface {
	// GenerateToken creates a signed session token carrying the account's
	// identity and role. rememberMe selects the long lifetime (7 days)
	// over the default (24 hours).
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, accountID uuid.UUID, role domain.Role, rememberMe bool) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns the claims containing identity and role if the token
	// is valid, or an error if validation fails (expired, invalid
	// signature, malformed, tampered).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the session tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// AccountID is the unique identifier of the account the token was issued for.
	AccountID uuid.UUID `json:"uid,omitempty"`

	// Role is the capability tier baked into the token at issue time.
	Role domain.Role `json:"role,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
