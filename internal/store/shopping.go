package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/shoplist/internal/model"
	"github.com/shopspring/decimal"
)

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

// --- List methods ---

func scanList(scanner interface{ Scan(...any) error }) (*model.ShoppingList, error) {
	var l model.ShoppingList
	var archived int
	err := scanner.Scan(&l.ID, &l.Name, &l.UserID, &l.Budget, &archived, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	l.IsArchived = archived != 0
	return &l, nil
}

const listCols = `id, name, user_id, budget, is_archived, created_at, updated_at`

func (s *ShoppingStore) CreateList(ctx context.Context, userID, name string, budget decimal.NullDecimal) (*model.ShoppingList, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO shopping_lists (name, user_id, budget) VALUES (?, ?, ?)`,
		name, userID, budget,
	)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetList(ctx, id)
}

// GetList returns the list without items, or nil if it does not exist.
func (s *ShoppingStore) GetList(ctx context.Context, id int64) (*model.ShoppingList, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+listCols+` FROM shopping_lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ShoppingStore) ListsByUser(ctx context.Context, userID string) ([]model.ShoppingList, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+listCols+` FROM shopping_lists WHERE user_id = ? ORDER BY id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// UpdateList writes name, budget and archived flag of l.
func (s *ShoppingStore) UpdateList(ctx context.Context, l *model.ShoppingList) (*model.ShoppingList, error) {
	archived := 0
	if l.IsArchived {
		archived = 1
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE shopping_lists SET name = ?, budget = ?, is_archived = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		l.Name, l.Budget, archived, l.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update list: %w", classify(err))
	}
	return s.GetList(ctx, l.ID)
}

// DeleteList removes the list; its items go with it via ON DELETE CASCADE.
func (s *ShoppingStore) DeleteList(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// --- Product methods ---

func productKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func scanProduct(scanner interface{ Scan(...any) error }) (*model.Product, error) {
	var p model.Product
	var userID sql.NullString
	var categoryID sql.NullInt64
	err := scanner.Scan(&p.ID, &p.Name, &userID, &categoryID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		p.UserID = &userID.String
	}
	if categoryID.Valid {
		p.CategoryID = &categoryID.Int64
	}
	return &p, nil
}

const productCols = `id, name, user_id, category_id, created_at`

func (s *ShoppingStore) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// FindProductByName returns the oldest product whose name matches
// case-insensitively, regardless of owner, or nil.
func (s *ShoppingStore) FindProductByName(ctx context.Context, name string) (*model.Product, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+productCols+` FROM products WHERE name_key = ? ORDER BY id ASC LIMIT 1`,
		productKey(name),
	)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// CreateProduct inserts a product with no category. A nil userID makes it global.
func (s *ShoppingStore) CreateProduct(ctx context.Context, name string, userID *string) (*model.Product, error) {
	var uid sql.NullString
	if userID != nil {
		uid = sql.NullString{String: *userID, Valid: true}
	}
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, name_key, user_id) VALUES (?, ?, ?)`,
		name, productKey(name), uid,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetProduct(ctx, id)
}

// SetProductCategory assigns (or with nil, clears) a product's category.
func (s *ShoppingStore) SetProductCategory(ctx context.Context, productID int64, categoryID *int64) error {
	var cid sql.NullInt64
	if categoryID != nil {
		cid = sql.NullInt64{Int64: *categoryID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `UPDATE products SET category_id = ? WHERE id = ?`, cid, productID)
	if err != nil {
		return fmt.Errorf("set product category: %w", classify(err))
	}
	return nil
}

// --- Item methods ---

func scanItem(scanner interface{ Scan(...any) error }) (*model.ListItem, error) {
	var item model.ListItem
	var p model.Product
	var checked int
	var productUserID sql.NullString
	var productCategoryID sql.NullInt64
	var catID, catOrder sql.NullInt64
	var catName sql.NullString

	err := scanner.Scan(
		&item.ID, &item.ListID, &item.ProductID, &item.Quantity, &item.PricePerUnit, &checked, &item.CreatedAt,
		&p.ID, &p.Name, &productUserID, &productCategoryID, &p.CreatedAt,
		&catID, &catName, &catOrder,
	)
	if err != nil {
		return nil, err
	}

	item.IsChecked = checked != 0
	if productUserID.Valid {
		p.UserID = &productUserID.String
	}
	if productCategoryID.Valid {
		p.CategoryID = &productCategoryID.Int64
	}
	if catID.Valid {
		p.Category = &model.Category{ID: catID.Int64, Name: catName.String, DisplayOrder: int(catOrder.Int64)}
	}
	item.Product = &p
	return &item, nil
}

const itemSelect = `SELECT i.id, i.list_id, i.product_id, i.quantity, i.price_per_unit, i.is_checked, i.created_at,
	p.id, p.name, p.user_id, p.category_id, p.created_at,
	c.id, c.name, c.display_order
	FROM list_items i
	JOIN products p ON p.id = i.product_id
	LEFT JOIN categories c ON c.id = p.category_id`

func (s *ShoppingStore) GetItem(ctx context.Context, id int64) (*model.ListItem, error) {
	row := s.db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// GetItemInList returns the item only if it belongs to listID, else nil.
func (s *ShoppingStore) GetItemInList(ctx context.Context, listID, itemID int64) (*model.ListItem, error) {
	row := s.db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ? AND i.list_id = ?`, itemID, listID)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get item in list: %w", err)
	}
	return item, nil
}

// ListItems returns the list's items in insertion order, each joined with its
// product and the product's category.
func (s *ShoppingStore) ListItems(ctx context.Context, listID int64) ([]model.ListItem, error) {
	rows, err := s.db.QueryContext(ctx, itemSelect+` WHERE i.list_id = ? ORDER BY i.id ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []model.ListItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) CreateItem(ctx context.Context, listID, productID int64, quantity int, price decimal.NullDecimal) (*model.ListItem, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO list_items (list_id, product_id, quantity, price_per_unit) VALUES (?, ?, ?, ?)`,
		listID, productID, quantity, price,
	)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", classify(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetItem(ctx, id)
}

// UpdateItem writes quantity, price and checked state of item.
func (s *ShoppingStore) UpdateItem(ctx context.Context, item *model.ListItem) (*model.ListItem, error) {
	checked := 0
	if item.IsChecked {
		checked = 1
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE list_items SET quantity = ?, price_per_unit = ?, is_checked = ? WHERE id = ?`,
		item.Quantity, item.PricePerUnit, checked, item.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update item: %w", classify(err))
	}
	return s.GetItem(ctx, item.ID)
}

func (s *ShoppingStore) DeleteItem(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM list_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// ClearChecked deletes every checked item of the list and reports how many.
func (s *ShoppingStore) ClearChecked(ctx context.Context, listID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM list_items WHERE list_id = ? AND is_checked = 1`,
		listID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear checked: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
