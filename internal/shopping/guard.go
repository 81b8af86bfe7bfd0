package shopping

import (
	"context"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/dukerupert/shoplist/internal/model"
)

// authorize loads the list and checks that userID owns it.
func (s *Service) authorize(ctx context.Context, listID int64, userID string) (*model.ShoppingList, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	l, err := s.lists.GetList(ctx, listID)
	if err != nil {
		return nil, s.storeErr("failed to load list", err)
	}
	if l == nil {
		return nil, apperr.NotFound("shopping list %d not found", listID)
	}
	if l.UserID != userID {
		return nil, apperr.Forbidden("shopping list %d belongs to another user", listID)
	}
	return l, nil
}

// authorizeForItems is authorize with a missing list reported as Forbidden,
// so item routes reveal nothing about lists the caller cannot see.
func (s *Service) authorizeForItems(ctx context.Context, listID int64, userID string) (*model.ShoppingList, error) {
	l, err := s.authorize(ctx, listID, userID)
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Forbidden("no access to shopping list %d", listID)
	}
	return l, err
}
