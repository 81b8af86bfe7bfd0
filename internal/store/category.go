package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func scanCategory(scanner interface{ Scan(...any) error }) (*model.Category, error) {
	var c model.Category
	var rank sql.NullInt64
	err := scanner.Scan(&c.ID, &c.Name, &c.DisplayOrder, &rank)
	if err != nil {
		return nil, err
	}
	if rank.Valid {
		r := int(rank.Int64)
		c.Rank = &r
	}
	return &c, nil
}

// List returns every category in global display order.
func (s *CategoryStore) List(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, display_order, NULL FROM categories ORDER BY display_order ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// ListForUser returns every category in the user's effective order:
// categories the user ranked come first by (rank, display_order, id), the
// rest follow by (display_order, id).
func (s *CategoryStore) ListForUser(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.display_order, p.sort_order
		 FROM categories c
		 LEFT JOIN user_category_preferences p ON p.category_id = c.id AND p.user_id = ?
		 ORDER BY p.sort_order IS NULL ASC, p.sort_order ASC, c.display_order ASC, c.id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list categories for user: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoryStore) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, display_order, NULL FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// Create inserts a category. A taken name yields ErrDuplicate.
func (s *CategoryStore) Create(ctx context.Context, name string, displayOrder int) (*model.Category, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, display_order) VALUES (?, ?)`,
		name, displayOrder,
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Upsert inserts the category or resets its display order if the name exists.
func (s *CategoryStore) Upsert(ctx context.Context, name string, displayOrder int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (name, display_order) VALUES (?, ?)
		 ON CONFLICT (name) DO UPDATE SET display_order = excluded.display_order`,
		name, displayOrder,
	)
	if err != nil {
		return fmt.Errorf("upsert category %q: %w", name, err)
	}
	return nil
}

// --- Preference methods ---

// SetUserOrder upserts one preference row per category, with the slice index
// as its order, inside a single transaction. Any failure rolls back every row.
func (s *CategoryStore) SetUserOrder(ctx context.Context, userID string, categoryIDs []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO user_category_preferences (user_id, category_id, sort_order) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, category_id) DO UPDATE SET sort_order = excluded.sort_order`,
	)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, id := range categoryIDs {
		if _, err := stmt.ExecContext(ctx, userID, id, i); err != nil {
			return fmt.Errorf("upsert order for category %d: %w", id, classify(err))
		}
	}

	return tx.Commit()
}

// UserOrder returns the user's explicit order keyed by category id.
func (s *CategoryStore) UserOrder(ctx context.Context, userID string) (map[int64]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, sort_order FROM user_category_preferences WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	order := make(map[int64]int)
	for rows.Next() {
		var id int64
		var o int
		if err := rows.Scan(&id, &o); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		order[id] = o
	}
	return order, rows.Err()
}
