package shopping

import (
	"context"
	"errors"
	"strings"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
	"go.opentelemetry.io/otel/attribute"
)

// ReorderCategories ranks the given categories for userID by their position
// in categoryIDs. The whole call is one transaction. When an id repeats, its
// last position wins.
func (s *Service) ReorderCategories(ctx context.Context, userID string, categoryIDs []int64) error {
	ctx, span := startSpan(ctx, "ReorderCategories", attribute.Int("categories", len(categoryIDs)))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return err
	}
	if len(categoryIDs) == 0 {
		return nil
	}
	if err := s.categories.SetUserOrder(ctx, userID, categoryIDs); err != nil {
		if errors.Is(err, store.ErrReference) {
			return apperr.Validation("category order references an unknown category")
		}
		return s.storeErr("failed to reorder categories", err)
	}
	return nil
}

// Categories returns the catalog in the caller's effective order.
func (s *Service) Categories(ctx context.Context, userID string) ([]model.Category, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	categories, err := s.categories.ListForUser(ctx, userID)
	if err != nil {
		return nil, s.storeErr("failed to list categories", err)
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// Preferences returns the caller's explicit ranks keyed by category id.
func (s *Service) Preferences(ctx context.Context, userID string) (map[int64]int, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	order, err := s.categories.UserOrder(ctx, userID)
	if err != nil {
		return nil, s.storeErr("failed to load preferences", err)
	}
	return order, nil
}

type CreateCategoryInput struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// CreateCategory adds a category to the shared catalog. Callers restrict it
// to administrators.
func (s *Service) CreateCategory(ctx context.Context, in CreateCategoryInput) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperr.Validation("name is required")
	}
	if in.DisplayOrder < 0 {
		return nil, apperr.Validation("display_order cannot be negative")
	}
	c, err := s.categories.Create(ctx, in.Name, in.DisplayOrder)
	if err != nil {
		return nil, s.storeErr("failed to create category", err)
	}
	return c, nil
}

// SetProductCategory files a product under a category, or clears it when
// categoryID is nil. Only the product's owner may change it; shared products
// need an administrator.
func (s *Service) SetProductCategory(ctx context.Context, userID string, isAdmin bool, productID int64, categoryID *int64) (*model.Product, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	p, err := s.lists.GetProduct(ctx, productID)
	if err != nil {
		return nil, s.storeErr("failed to load product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("product %d not found", productID)
	}
	if !isAdmin && (p.UserID == nil || *p.UserID != userID) {
		return nil, apperr.Forbidden("product %d belongs to another user", productID)
	}
	if categoryID != nil {
		c, err := s.categories.GetByID(ctx, *categoryID)
		if err != nil {
			return nil, s.storeErr("failed to load category", err)
		}
		if c == nil {
			return nil, apperr.Validation("category %d does not exist", *categoryID)
		}
	}

	if err := s.lists.SetProductCategory(ctx, p.ID, categoryID); err != nil {
		return nil, s.storeErr("failed to update product", err)
	}
	p.CategoryID = categoryID
	return p, nil
}
