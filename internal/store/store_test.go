package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// createTestUser inserts a user with the "user" role.
func createTestUser(t *testing.T, db *sql.DB, email string) *model.User {
	t.Helper()
	ctx := context.Background()
	us := NewUserStore(db)
	role, err := us.GetRoleByName(ctx, model.RoleUser)
	if err != nil || role == nil {
		t.Fatalf("get user role: %v", err)
	}
	u, err := us.Create(ctx, email, "Test User", "hash", role.ID)
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}
