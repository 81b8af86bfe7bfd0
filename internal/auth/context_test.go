package auth

import (
	"context"
	"testing"
)

func TestWithAuthAndFromContext(t *testing.T) {
	ac := AuthContext{
		UserID:  "0b7c0d34-55a8-4f43-9a3e-1f5b0b7a6c11",
		Email:   "alice@example.com",
		Role:    "admin",
		TokenID: "jti-1",
	}

	ctx := WithAuth(context.Background(), ac)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AuthContext in context")
	}
	if got.UserID != ac.UserID {
		t.Errorf("UserID = %q, want %q", got.UserID, ac.UserID)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", got.Email, "alice@example.com")
	}
	if got.Role != "admin" {
		t.Errorf("Role = %q, want %q", got.Role, "admin")
	}
	if got.TokenID != "jti-1" {
		t.Errorf("TokenID = %q, want %q", got.TokenID, "jti-1")
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AuthContext")
	}
}

func TestUserID(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{UserID: "u-7"})
	if UserID(ctx) != "u-7" {
		t.Errorf("UserID = %q, want %q", UserID(ctx), "u-7")
	}
}

func TestUserIDMissing(t *testing.T) {
	if UserID(context.Background()) != "" {
		t.Error("expected empty id for missing context")
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Role: "admin"})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true for admin role")
	}
}

func TestIsAdminFalse(t *testing.T) {
	ctx := WithAuth(context.Background(), AuthContext{Role: "user"})
	if IsAdmin(ctx) {
		t.Error("expected IsAdmin = false for user role")
	}
}

func TestIsAdminMissing(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("expected IsAdmin = false for missing context")
	}
}
