package domain

import "strings"

// Role represents a staff hierarchy level
type Role string

const (
	RoleClient    Role = "CLIENT"
	RoleSales     Role = "SALES"
	RoleManager   Role = "MANAGER"
	RoleAdmin     Role = "ADMIN"
	RoleOwner     Role = "OWNER"
	RoleSuperuser Role = "SUPERUSER"
)

// roleRank is the single source of truth for the privilege order.
// Client < Sales < Manager < Admin < Owner < Superuser.
var roleRank = map[Role]int{
	RoleClient:    0,
	RoleSales:     1,
	RoleManager:   2,
	RoleAdmin:     3,
	RoleOwner:     4,
	RoleSuperuser: 5,
}

// ParseRole normalizes a stored role string into a Role.
// Role strings are normalized exactly once here; everything downstream
// compares Role values, never raw strings.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := roleRank[r]
	return r, ok
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// Rank returns the position of r in the privilege order (-1 for unknown roles)
func (r Role) Rank() int {
	rank, ok := roleRank[r]
	if !ok {
		return -1
	}
	return rank
}

// AtLeast reports whether r sits at or above other in the privilege order
func (r Role) AtLeast(other Role) bool {
	return r.Valid() && other.Valid() && r.Rank() >= other.Rank()
}

// Actor is the authorization subject for a request, built from JWT claims
// or a loaded user record.
type Actor struct {
	UserID      uint
	Role        Role
	IsOwner     bool
	IsSuperuser bool
	ManagerID   *uint
}

// IsStaff reports whether the actor can use internal tooling.
// Every role except CLIENT is staff; the superuser and owner flags win
// regardless of the role string.
func (a Actor) IsStaff() bool {
	if a.IsSuperuser || a.IsOwner {
		return true
	}
	return a.Role.Valid() && a.Role != RoleClient
}

// CanApprove reports whether the actor's role may resolve approval records
// at all. Team scoping for managers is enforced separately by the
// authorization service.
func (a Actor) CanApprove() bool {
	if a.IsSuperuser {
		return true
	}
	return a.Role.AtLeast(RoleManager)
}
