package domain

// Role identifies the capability tier of an account. There are exactly two
// tiers: standard users manage their own progress, admins additionally
// author curricula.
type Role string

const (
	// RoleStandard is the default role assigned on registration.
	RoleStandard Role = "standard"

	// RoleAdmin grants curriculum authoring in addition to everything
	// RoleStandard grants.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStandard || r == RoleAdmin
}

// Satisfies reports whether this role meets the given requirement.
// Admin satisfies any requirement; standard satisfies only standard.
func (r Role) Satisfies(required Role) bool {
	if r == RoleAdmin {
		return true
	}
	return r == required
}
