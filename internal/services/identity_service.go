package services

import (
	"context"
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/config"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/identity"
	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

var ErrUnknownCaller = apperr.Authentication("account no longer exists")

// IdentityService turns a verified token subject into a Caller.
type IdentityService struct {
	users        UserStore
	adminEmails  map[string]struct{}
	adminUserIDs map[string]struct{}
}

func NewIdentityService(users UserStore, cfg *config.Config) *IdentityService {
	s := &IdentityService{
		users:        users,
		adminEmails:  make(map[string]struct{}),
		adminUserIDs: make(map[string]struct{}),
	}
	for _, e := range cfg.AdminEmailList() {
		s.adminEmails[e] = struct{}{}
	}
	for _, id := range cfg.AdminUserIDList() {
		s.adminUserIDs[strings.ToLower(id)] = struct{}{}
	}
	return s
}

// ResolveCaller loads the live account behind subject. The role comes from
// the stored row, never from token claims, and config-listed admins are
// elevated.
func (s *IdentityService) ResolveCaller(ctx context.Context, subject uuid.UUID) (identity.Caller, error) {
	if subject == uuid.Nil {
		return identity.Anonymous(), ErrAuthRequired
	}
	user, err := s.users.GetUserByID(ctx, subject)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return identity.Anonymous(), ErrUnknownCaller
		}
		return identity.Anonymous(), err
	}

	role := user.Role
	if !role.Valid() {
		role = models.NormalizeRole(string(role))
	}
	if s.isConfiguredAdmin(user) {
		role = models.RoleAdmin
	}

	return identity.Caller{ID: user.ID, Email: user.Email, Role: role}, nil
}

func (s *IdentityService) isConfiguredAdmin(user *models.User) bool {
	if _, ok := s.adminEmails[strings.ToLower(user.Email)]; ok {
		return true
	}
	_, ok := s.adminUserIDs[user.ID.String()]
	return ok
}
