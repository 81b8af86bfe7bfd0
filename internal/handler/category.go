package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/apperr"
	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/shopping"
	ws "github.com/dukerupert/shoplist/internal/websocket"
)

type CategoryHandler struct {
	svc    *shopping.Service
	hub    *ws.Hub
	logger *slog.Logger
}

func NewCategoryHandler(svc *shopping.Service, hub *ws.Hub, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{svc: svc, hub: hub, logger: logger}
}

// List returns the catalog in the caller's order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.svc.Categories(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// reorderRequest takes "categoryIds" or "category_ids". One of them must be
// present and non-null; an explicit [] is allowed.
type reorderRequest struct {
	CategoryIDs    *[]int64 `json:"categoryIds"`
	CategoryIDsAlt *[]int64 `json:"category_ids"`
}

func (req reorderRequest) ids() ([]int64, error) {
	switch {
	case req.CategoryIDs != nil:
		return *req.CategoryIDs, nil
	case req.CategoryIDsAlt != nil:
		return *req.CategoryIDsAlt, nil
	}
	return nil, apperr.Validation("categoryIds is required")
}

func (h *CategoryHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	ids, err := req.ids()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.svc.ReorderCategories(r.Context(), userID, ids); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.hub != nil {
		h.hub.Publish(userID, ws.NewMessage("category_order", "updated", 0, nil))
	}
	w.WriteHeader(http.StatusNoContent)
}

// Create adds a category to the shared catalog. Routed behind RequireAdmin.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in shopping.CreateCategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.hub != nil {
		h.hub.Broadcast(ws.NewMessage("category", "created", c.ID, nil))
	}
	writeJSON(w, http.StatusCreated, c)
}

// SetProductCategory files a product under a category. A null category_id
// clears it.
func (h *CategoryHandler) SetProductCategory(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var req struct {
		CategoryID *int64 `json:"category_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if req.CategoryID != nil && *req.CategoryID <= 0 {
		writeError(w, h.logger, apperr.Validation("invalid category_id"))
		return
	}

	ctx := r.Context()
	p, err := h.svc.SetProductCategory(ctx, auth.UserID(ctx), auth.IsAdmin(ctx), productID, req.CategoryID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.hub != nil {
		h.hub.Publish(auth.UserID(ctx), ws.NewMessage("product", "updated", p.ID, nil))
	}
	writeJSON(w, http.StatusOK, p)
}
