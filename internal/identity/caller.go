// Package identity carries the resolved caller through a request.
package identity

import (
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

// Caller is who is making a request. The zero value is anonymous.
type Caller struct {
	ID    uuid.UUID
	Email string
	Role  models.Role
}

func Anonymous() Caller { return Caller{} }

func (c Caller) IsAnonymous() bool { return c.ID == uuid.Nil }

func (c Caller) IsAdmin() bool { return !c.IsAnonymous() && c.Role == models.RoleAdmin }

func (c Caller) IsSeller() bool { return !c.IsAnonymous() && c.Role == models.RoleSeller }

// HasRole reports whether the caller holds one of roles.
func (c Caller) HasRole(roles ...models.Role) bool {
	if c.IsAnonymous() {
		return false
	}
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
