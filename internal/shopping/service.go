// Package shopping implements list, item and category-order operations for
// a single authenticated user. Every operation proves the caller owns the
// targeted list before it reads or writes anything else.
package shopping

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/dukerupert/shoplist/internal/model"
	"github.com/dukerupert/shoplist/internal/store"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/dukerupert/shoplist/internal/shopping")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "shopping."+name, trace.WithAttributes(attrs...))
}

// ListStore persists lists, their items and the products items refer to.
// Lookups return nil, nil when the row does not exist.
type ListStore interface {
	CreateList(ctx context.Context, userID, name string, budget decimal.NullDecimal) (*model.ShoppingList, error)
	GetList(ctx context.Context, id int64) (*model.ShoppingList, error)
	ListsByUser(ctx context.Context, userID string) ([]model.ShoppingList, error)
	UpdateList(ctx context.Context, l *model.ShoppingList) (*model.ShoppingList, error)
	DeleteList(ctx context.Context, id int64) error

	ListItems(ctx context.Context, listID int64) ([]model.ListItem, error)
	GetItemInList(ctx context.Context, listID, itemID int64) (*model.ListItem, error)
	CreateItem(ctx context.Context, listID, productID int64, quantity int, price decimal.NullDecimal) (*model.ListItem, error)
	UpdateItem(ctx context.Context, item *model.ListItem) (*model.ListItem, error)
	DeleteItem(ctx context.Context, id int64) error
	ClearChecked(ctx context.Context, listID int64) (int64, error)

	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	FindProductByName(ctx context.Context, name string) (*model.Product, error)
	CreateProduct(ctx context.Context, name string, userID *string) (*model.Product, error)
	SetProductCategory(ctx context.Context, productID int64, categoryID *int64) error
}

// CategoryStore persists the category catalog and per-user ordering.
type CategoryStore interface {
	ListForUser(ctx context.Context, userID string) ([]model.Category, error)
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, name string, displayOrder int) (*model.Category, error)
	SetUserOrder(ctx context.Context, userID string, categoryIDs []int64) error
	UserOrder(ctx context.Context, userID string) (map[int64]int, error)
}

type Service struct {
	lists      ListStore
	categories CategoryStore
	logger     *slog.Logger
}

func NewService(lists ListStore, categories CategoryStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		lists:      lists,
		categories: categories,
		logger:     logger.With("component", "shopping"),
	}
}

func requireUser(userID string) error {
	if userID == "" {
		return apperr.Unauthenticated("authentication required")
	}
	return nil
}

// storeErr turns a store failure into a client-visible error. Constraint
// violations become Conflict or Validation; anything else is Unavailable.
func (s *Service) storeErr(msg string, err error) error {
	switch {
	case errors.Is(err, store.ErrDuplicate):
		return apperr.Conflict("%s: already exists", msg)
	case errors.Is(err, store.ErrReference):
		return apperr.Validation("%s: unknown reference", msg)
	case errors.Is(err, store.ErrConstraint):
		return apperr.Validation("%s: invalid value", msg)
	}
	s.logger.Error(msg, "error", err)
	return apperr.Unavailable(msg, err)
}
