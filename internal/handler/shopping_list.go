package handler

import (
	"log/slog"
	"net/http"

	"github.com/dukerupert/shoplist/internal/auth"
	"github.com/dukerupert/shoplist/internal/shopping"
	ws "github.com/dukerupert/shoplist/internal/websocket"
)

// ShoppingListHandler serves list and item routes. Successful mutations are
// published to the owner's websocket connections.
type ShoppingListHandler struct {
	svc    *shopping.Service
	hub    *ws.Hub
	logger *slog.Logger
}

func NewShoppingListHandler(svc *shopping.Service, hub *ws.Hub, logger *slog.Logger) *ShoppingListHandler {
	return &ShoppingListHandler{svc: svc, hub: hub, logger: logger}
}

func (h *ShoppingListHandler) publish(userID, entity, action string, id int64, extra map[string]any) {
	if h.hub == nil {
		return
	}
	h.hub.Publish(userID, ws.NewMessage(entity, action, id, extra))
}

func (h *ShoppingListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in shopping.CreateListInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	l, err := h.svc.CreateList(r.Context(), userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.publish(userID, "shopping_list", "created", l.ID, nil)
	writeJSON(w, http.StatusCreated, l)
}

func (h *ShoppingListHandler) List(w http.ResponseWriter, r *http.Request) {
	lists, err := h.svc.Lists(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, lists)
}

func (h *ShoppingListHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	detail, err := h.svc.GetList(r.Context(), id, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *ShoppingListHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in shopping.UpdateListInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	l, err := h.svc.UpdateList(r.Context(), id, userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.publish(userID, "shopping_list", "updated", l.ID, nil)
	writeJSON(w, http.StatusOK, l)
}

func (h *ShoppingListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.svc.DeleteList(r.Context(), id, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.publish(userID, "shopping_list", "deleted", id, nil)
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingListHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in shopping.AddItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	item, err := h.svc.AddItem(r.Context(), listID, userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.publish(userID, "list_item", "created", item.ID, map[string]any{"list_id": listID})
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingListHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	itemID, err := parseIDParam(r, "item_id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	var in shopping.UpdateItemInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	item, err := h.svc.UpdateItem(r.Context(), listID, itemID, userID, in)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.publish(userID, "list_item", "updated", item.ID, map[string]any{"list_id": listID})
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingListHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	itemID, err := parseIDParam(r, "item_id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.svc.DeleteItem(r.Context(), listID, itemID, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.publish(userID, "list_item", "deleted", itemID, map[string]any{"list_id": listID})
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingListHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	listID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	userID := auth.UserID(r.Context())
	n, err := h.svc.ClearChecked(r.Context(), listID, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if n > 0 {
		h.publish(userID, "list_item", "cleared", listID, map[string]any{"count": n})
	}
	writeJSON(w, http.StatusOK, map[string]int64{"cleared": n})
}
