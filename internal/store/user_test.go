package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/shoplist/internal/model"
)

func TestSeededRoles(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	for _, name := range []string{model.RoleAdmin, model.RoleUser} {
		r, err := us.GetRoleByName(ctx, name)
		if err != nil {
			t.Fatalf("get role %s: %v", name, err)
		}
		if r == nil {
			t.Fatalf("expected role %s to be seeded", name)
		}
	}
}

func TestUserCreate(t *testing.T) {
	db := setupTestDB(t)

	u := createTestUser(t, db, "alice@example.com")
	if u.Email != "alice@example.com" {
		t.Errorf("email = %q, want %q", u.Email, "alice@example.com")
	}
	if u.Role != model.RoleUser {
		t.Errorf("role = %q, want %q", u.Role, model.RoleUser)
	}
	if u.ID == "" {
		t.Error("expected generated ID")
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	first := createTestUser(t, db, "alice@example.com")
	_, err := us.Create(context.Background(), "alice@example.com", "Alice2", "hash", first.RoleID)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Error("expected nil for nonexistent user")
	}
}

func TestUserGetByEmail(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	created := createTestUser(t, db, "alice@example.com")

	u, err := us.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if u == nil || u.ID != created.ID {
		t.Fatalf("got %+v, want user %s", u, created.ID)
	}
	if u.PasswordHash != "hash" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "hash")
	}
}

func TestUserSetRole(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ctx := context.Background()
	u := createTestUser(t, db, "alice@example.com")

	admin, err := us.EnsureRole(ctx, model.RoleAdmin)
	if err != nil {
		t.Fatalf("ensure role: %v", err)
	}
	updated, err := us.SetRole(ctx, u.ID, admin.ID)
	if err != nil {
		t.Fatalf("set role: %v", err)
	}
	if updated.Role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", updated.Role, model.RoleAdmin)
	}
}
