package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
	// Rank is the user's explicit order for this category, nil when the
	// global display order applies.
	Rank *int `json:"rank"`
}

type Product struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	UserID     *string   `json:"user_id"`
	CategoryID *int64    `json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type ShoppingList struct {
	ID         int64               `json:"id"`
	Name       string              `json:"name"`
	UserID     string              `json:"user_id"`
	Budget     decimal.NullDecimal `json:"budget"`
	IsArchived bool                `json:"is_archived"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

type ListItem struct {
	ID           int64               `json:"id"`
	ListID       int64               `json:"list_id"`
	ProductID    int64               `json:"product_id"`
	Quantity     int                 `json:"quantity"`
	PricePerUnit decimal.NullDecimal `json:"price_per_unit"`
	IsChecked    bool                `json:"is_checked"`
	CreatedAt    time.Time           `json:"created_at"`
	Product      *Product            `json:"product,omitempty"`
}

// LineTotal is quantity times unit price; a missing price counts as zero.
func (i ListItem) LineTotal() decimal.Decimal {
	if !i.PricePerUnit.Valid {
		return decimal.Zero
	}
	return i.PricePerUnit.Decimal.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CategoryPreference struct {
	UserID     string `json:"user_id"`
	CategoryID int64  `json:"category_id"`
	Order      int    `json:"order"`
}
