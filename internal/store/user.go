package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/google/uuid"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.RoleID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userSelect = `SELECT u.id, u.email, u.full_name, u.password_hash, u.role_id, r.name, u.created_at, u.updated_at
	FROM users u JOIN roles r ON r.id = u.role_id`

// Create inserts a user with a fresh UUID. A taken email yields ErrDuplicate.
func (s *UserStore) Create(ctx context.Context, email, fullName, passwordHash string, roleID int64) (*model.User, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, full_name, password_hash, role_id) VALUES (?, ?, ?, ?, ?)`,
		id, email, fullName, passwordHash, roleID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", classify(err))
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, userSelect+` WHERE u.id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, userSelect+` WHERE u.email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) SetRole(ctx context.Context, id string, roleID int64) (*model.User, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET role_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		roleID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("set user role: %w", classify(err))
	}
	return s.GetByID(ctx, id)
}

// --- Role methods ---

func (s *UserStore) GetRoleByName(ctx context.Context, name string) (*model.Role, error) {
	var r model.Role
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM roles WHERE name = ?`, name).Scan(&r.ID, &r.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}
	return &r, nil
}

// EnsureRole inserts the role if missing and returns it.
func (s *UserStore) EnsureRole(ctx context.Context, name string) (*model.Role, error) {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO roles (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, name,
	); err != nil {
		return nil, fmt.Errorf("ensure role: %w", err)
	}
	return s.GetRoleByName(ctx, name)
}
