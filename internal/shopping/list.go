package shopping

import (
	"context"
	"strings"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
)

type CreateListInput struct {
	Name   string              `json:"name"`
	Budget decimal.NullDecimal `json:"budget"`
}

func (in *CreateListInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return apperr.Validation("name is required")
	}
	return validateBudget(in.Budget)
}

type UpdateListInput struct {
	Name       *string         `json:"name"`
	Budget     OptionalDecimal `json:"budget"`
	IsArchived *bool           `json:"is_archived"`
}

func (in *UpdateListInput) validate() error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return apperr.Validation("name cannot be empty")
		}
		in.Name = &name
	}
	if in.Budget.Set {
		return validateBudget(in.Budget.Value)
	}
	return nil
}

func validateBudget(b decimal.NullDecimal) error {
	if b.Valid && !b.Decimal.IsPositive() {
		return apperr.Validation("budget must be greater than zero")
	}
	return nil
}

// ListDetail is a list with its items and the aggregates derived from them.
type ListDetail struct {
	model.ShoppingList
	Items   []model.ListItem `json:"items"`
	Summary Summary          `json:"summary"`
	Groups  []ItemGroup      `json:"groups"`
}

func (s *Service) CreateList(ctx context.Context, userID string, in CreateListInput) (*model.ShoppingList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	l, err := s.lists.CreateList(ctx, userID, in.Name, in.Budget)
	if err != nil {
		return nil, s.storeErr("failed to create list", err)
	}
	return l, nil
}

// Lists returns every list owned by userID.
func (s *Service) Lists(ctx context.Context, userID string) ([]model.ShoppingList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	lists, err := s.lists.ListsByUser(ctx, userID)
	if err != nil {
		return nil, s.storeErr("failed to list lists", err)
	}
	if lists == nil {
		lists = []model.ShoppingList{}
	}
	return lists, nil
}

// GetList returns the list with items in insertion order, a fresh summary and
// the items grouped in the caller's category order.
func (s *Service) GetList(ctx context.Context, listID int64, userID string) (*ListDetail, error) {
	ctx, span := startSpan(ctx, "GetList", attribute.Int64("list.id", listID))
	defer span.End()

	l, err := s.authorize(ctx, listID, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.lists.ListItems(ctx, l.ID)
	if err != nil {
		return nil, s.storeErr("failed to load items", err)
	}
	if items == nil {
		items = []model.ListItem{}
	}
	categories, err := s.categories.ListForUser(ctx, userID)
	if err != nil {
		return nil, s.storeErr("failed to load categories", err)
	}

	return &ListDetail{
		ShoppingList: *l,
		Items:        items,
		Summary:      Summarize(l.Budget, items),
		Groups:       GroupByCategory(items, categories),
	}, nil
}

func (s *Service) UpdateList(ctx context.Context, listID int64, userID string, in UpdateListInput) (*model.ShoppingList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	l, err := s.authorize(ctx, listID, userID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		l.Name = *in.Name
	}
	if in.Budget.Set {
		l.Budget = in.Budget.Value
	}
	if in.IsArchived != nil {
		l.IsArchived = *in.IsArchived
	}

	updated, err := s.lists.UpdateList(ctx, l)
	if err != nil {
		return nil, s.storeErr("failed to update list", err)
	}
	if updated == nil {
		return nil, apperr.NotFound("shopping list %d not found", listID)
	}
	return updated, nil
}

// DeleteList removes the list and, through the schema, all of its items.
func (s *Service) DeleteList(ctx context.Context, listID int64, userID string) error {
	l, err := s.authorize(ctx, listID, userID)
	if err != nil {
		return err
	}
	if err := s.lists.DeleteList(ctx, l.ID); err != nil {
		return s.storeErr("failed to delete list", err)
	}
	return nil
}
