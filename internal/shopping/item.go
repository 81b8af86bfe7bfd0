package shopping

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type AddItemInput struct {
	ProductName  string              `json:"productName"`
	Quantity     *int                `json:"quantity"`
	PricePerUnit decimal.NullDecimal `json:"price_per_unit"`
}

// UnmarshalJSON also accepts "product_name" for the product.
func (in *AddItemInput) UnmarshalJSON(b []byte) error {
	type plain AddItemInput
	var aux struct {
		plain
		ProductNameAlt *string `json:"product_name"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*in = AddItemInput(aux.plain)
	if in.ProductName == "" && aux.ProductNameAlt != nil {
		in.ProductName = *aux.ProductNameAlt
	}
	return nil
}

func (in *AddItemInput) validate() error {
	in.ProductName = strings.TrimSpace(in.ProductName)
	if in.ProductName == "" {
		return apperr.Validation("productName is required")
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return apperr.Validation("quantity must be at least 1")
	}
	return validatePrice(in.PricePerUnit)
}

func (in AddItemInput) quantity() int {
	if in.Quantity == nil {
		return 1
	}
	return *in.Quantity
}

type UpdateItemInput struct {
	IsChecked    *bool           `json:"isChecked"`
	Quantity     *int            `json:"quantity"`
	PricePerUnit OptionalDecimal `json:"price_per_unit"`
}

// UnmarshalJSON also accepts "is_checked" for the checked flag.
func (in *UpdateItemInput) UnmarshalJSON(b []byte) error {
	type plain UpdateItemInput
	var aux struct {
		plain
		IsCheckedAlt *bool `json:"is_checked"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*in = UpdateItemInput(aux.plain)
	if in.IsChecked == nil {
		in.IsChecked = aux.IsCheckedAlt
	}
	return nil
}

func (in UpdateItemInput) validate() error {
	if in.Quantity != nil && *in.Quantity < 1 {
		return apperr.Validation("quantity must be at least 1")
	}
	if in.PricePerUnit.Set {
		return validatePrice(in.PricePerUnit.Value)
	}
	return nil
}

func validatePrice(p decimal.NullDecimal) error {
	if p.Valid && p.Decimal.IsNegative() {
		return apperr.Validation("price_per_unit cannot be negative")
	}
	return nil
}

// AddItem adds a product to the list by name. An existing product whose name
// matches case-insensitively is reused, whoever owns it; otherwise a new
// uncategorized product owned by userID is created.
func (s *Service) AddItem(ctx context.Context, listID int64, userID string, in AddItemInput) (*model.ListItem, error) {
	ctx, span := startSpan(ctx, "AddItem", attribute.Int64("list.id", listID))
	defer span.End()

	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	l, err := s.authorizeForItems(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.resolveProduct(ctx, in.ProductName, userID)
	if err != nil {
		return nil, err
	}

	item, err := s.lists.CreateItem(ctx, l.ID, product.ID, in.quantity(), in.PricePerUnit)
	if err != nil {
		return nil, s.storeErr("failed to add item", err)
	}
	return item, nil
}

func (s *Service) resolveProduct(ctx context.Context, name, userID string) (*model.Product, error) {
	p, err := s.lists.FindProductByName(ctx, name)
	if err != nil {
		return nil, s.storeErr("failed to look up product", err)
	}
	if p != nil {
		return p, nil
	}
	p, err = s.lists.CreateProduct(ctx, name, &userID)
	if err != nil {
		return nil, s.storeErr("failed to create product", err)
	}
	s.logger.Debug("product created", "product_id", p.ID, "user_id", userID)
	return p, nil
}

// UpdateItem applies the fields present in the input. The item must belong
// to the list named in the call.
func (s *Service) UpdateItem(ctx context.Context, listID, itemID int64, userID string, in UpdateItemInput) (*model.ListItem, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	item, err := s.itemInList(ctx, listID, itemID, userID)
	if err != nil {
		return nil, err
	}

	if in.IsChecked != nil {
		item.IsChecked = *in.IsChecked
	}
	if in.Quantity != nil {
		item.Quantity = *in.Quantity
	}
	if in.PricePerUnit.Set {
		item.PricePerUnit = in.PricePerUnit.Value
	}

	updated, err := s.lists.UpdateItem(ctx, item)
	if err != nil {
		return nil, s.storeErr("failed to update item", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("item %d not found in list %d", itemID, listID)
	}
	return updated, nil
}

func (s *Service) DeleteItem(ctx context.Context, listID, itemID int64, userID string) error {
	item, err := s.itemInList(ctx, listID, itemID, userID)
	if err != nil {
		return err
	}
	if err := s.lists.DeleteItem(ctx, item.ID); err != nil {
		return s.storeErr("failed to delete item", err)
	}
	return nil
}

// ClearChecked deletes every checked item of the list and returns how many
// were removed.
func (s *Service) ClearChecked(ctx context.Context, listID int64, userID string) (int64, error) {
	l, err := s.authorizeForItems(ctx, listID, userID)
	if err != nil {
		return 0, err
	}
	n, err := s.lists.ClearChecked(ctx, l.ID)
	if err != nil {
		return 0, s.storeErr("failed to clear checked items", err)
	}
	return n, nil
}

// itemInList checks list ownership, then item membership, in that order.
func (s *Service) itemInList(ctx context.Context, listID, itemID int64, userID string) (*model.ListItem, error) {
	l, err := s.authorizeForItems(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	item, err := s.lists.GetItemInList(ctx, l.ID, itemID)
	if err != nil {
		return nil, s.storeErr("failed to load item", err)
	}
	if item == nil {
		return nil, apperr.NotFound("item %d not found in list %d", itemID, listID)
	}
	return item, nil
}
