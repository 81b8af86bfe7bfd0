package store

import (
	"context"
	"fmt"

	"github.com/dukerupert/shoplist/internal/model"
)

// DefaultCategories is the catalog a fresh database starts with.
var DefaultCategories = []model.Category{
	{Name: "Cuidado del Hogar", DisplayOrder: 10},
	{Name: "Cuidado Personal", DisplayOrder: 20},
	{Name: "Despensa", DisplayOrder: 30},
	{Name: "Bebidas", DisplayOrder: 40},
	{Name: "Panadería y Pastelería", DisplayOrder: 50},
	{Name: "Frescos", DisplayOrder: 60},
	{Name: "Otros", DisplayOrder: 80},
	{Name: "Congelados y Refrigerados", DisplayOrder: 99},
}

// Seed ensures both roles exist and resets the default categories to their
// display order. Safe to run repeatedly.
func Seed(ctx context.Context, users *UserStore, categories *CategoryStore) error {
	for _, role := range []string{model.RoleAdmin, model.RoleUser} {
		if _, err := users.EnsureRole(ctx, role); err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}
	for _, c := range DefaultCategories {
		if err := categories.Upsert(ctx, c.Name, c.DisplayOrder); err != nil {
			return err
		}
	}
	return nil
}
