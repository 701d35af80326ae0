package models

import "strings"

// Role is the closed set of capabilities a user can hold.
type Role string

const (
	RoleInvestor Role = "investor"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

// NormalizeRole maps the role strings accepted at the boundary onto a Role.
// "entrepreneur" is the client-facing alias of seller; unknown values fall
// back to investor.
func NormalizeRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "seller", "entrepreneur":
		return RoleSeller
	case "admin":
		return RoleAdmin
	default:
		return RoleInvestor
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleInvestor, RoleSeller, RoleAdmin:
		return true
	}
	return false
}
