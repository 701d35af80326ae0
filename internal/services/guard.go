package services

import (
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
)

var (
	ErrAuthRequired  = apperr.Authentication("authentication required")
	ErrAdminRequired = apperr.Authorization("admin access required")
	ErrNotOwner      = apperr.Authorization("you do not have permission to modify this listing")
)

func requireAuthenticated(caller identity.Caller) error {
	if caller.IsAnonymous() {
		return ErrAuthRequired
	}
	return nil
}

// RequireRole fails unless the caller holds one of roles.
func RequireRole(caller identity.Caller, roles ...models.Role) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	if !caller.HasRole(roles...) {
		if len(roles) == 1 && roles[0] == models.RoleAdmin {
			return ErrAdminRequired
		}
		return apperr.Authorization("insufficient permissions")
	}
	return nil
}

// RequireOwnerOrAdmin fails unless the caller is the listing's seller or an admin.
func RequireOwnerOrAdmin(caller identity.Caller, l *models.Listing) error {
	if err := requireAuthenticated(caller); err != nil {
		return err
	}
	if caller.IsAdmin() || l.OwnedBy(caller.ID) {
		return nil
	}
	return ErrNotOwner
}

// canSee reports whether the caller may address the listing at all.
func canSee(caller identity.Caller, l *models.Listing) bool {
	return l.Status.PubliclyVisible() || caller.IsAdmin() || l.OwnedBy(caller.ID)
}
