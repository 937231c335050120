package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common account validation errors
var (
	ErrEmptyAccountID      = errors.New("account ID cannot be empty")
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
)

// Account represents a registered user of the application. The email is the
// unique, case-sensitive lookup key; the ID is the internal storage
// identifier. Progress is the per-curriculum topic status document, nested
// inside the account the way the source document store kept it.
type Account struct {
	ID             uuid.UUID        `json:"id"`
	Email          string           `json:"email"`
	HashedPassword string           `json:"-"` // Never expose password hash in JSON
	Role           Role             `json:"role"`
	Name           string           `json:"name"`
	JoinDate       string           `json:"join_date"` // YYYY-MM-DD, display only
	Progress       ProgressDocument `json:"progress"`
	// ProgressVersion is the optimistic concurrency counter for the
	// progress document. Updates must present the version they read;
	// a mismatch means another request won the write.
	ProgressVersion int64     `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewAccount creates a new Account with the given name, email and hashed
// password. It generates a new UUID for the account ID, assigns the standard
// role, and sets the creation/update timestamps.
// Returns an error if validation fails.
//
// NOTE: the caller is responsible for hashing the password before calling
// this; NewAccount never sees plaintext credentials.
func NewAccount(name, email, hashedPassword string) (*Account, error) {
	now := time.Now().UTC()
	account := &Account{
		ID:             uuid.New(),
		Email:          email,
		HashedPassword: hashedPassword,
		Role:           RoleStandard,
		Name:           name,
		JoinDate:       now.Format("2006-01-02"),
		Progress:       NewProgressDocument(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	return account, nil
}

// Validate checks if the Account has valid data.
// Returns an error if any field fails validation.
func (a *Account) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAccountID
	}

	if a.Email == "" {
		return ErrEmptyEmail
	}

	if a.Name == "" {
		return ErrEmptyName
	}

	if a.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	if !a.Role.Valid() {
		return ErrInvalidRole
	}

	return nil
}
