package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/models"
	"github.com/google/uuid"
)

func TestResolveCallerUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.identity.ResolveCaller(context.Background(), uuid.New())
	if !errors.Is(err, ErrUnknownCaller) {
		t.Fatalf("expected ErrUnknownCaller, got %v", err)
	}
	_, err = env.identity.ResolveCaller(context.Background(), uuid.Nil)
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
}

func TestResolveCallerRoleFromStore(t *testing.T) {
	env := newTestEnv(t)
	caller := env.investor(t)

	env.store.SetUserRole(caller.ID, models.RoleSeller)
	resolved, err := env.identity.ResolveCaller(context.Background(), caller.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Role != models.RoleSeller {
		t.Fatalf("role = %q, want seller", resolved.Role)
	}
}

func TestResolveCallerConfigAdmins(t *testing.T) {
	env := newTestEnv(t)
	byEmail := env.user(t, "ROOT@example.com", "investor")
	if byEmail.Role != models.RoleAdmin {
		t.Fatalf("ADMIN_EMAILS user should be admin, got %q", byEmail.Role)
	}

	plain := env.investor(t)
	env.cfg.AdminUserIDs = plain.ID.String()
	resolver := NewIdentityService(env.store, env.cfg)
	resolved, err := resolver.ResolveCaller(context.Background(), plain.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !resolved.IsAdmin() {
		t.Fatalf("ADMIN_USER_IDS user should be admin, got %q", resolved.Role)
	}
}
