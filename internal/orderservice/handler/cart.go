package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

type identityRequest struct {
	ChatID string `json:"chat_id"`
	Name   string `json:"name"`
}

func (h *OrderingHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	items, err := h.service.Menu(r.Context())
	if err != nil {
		h.logger.Error(reqID, "menu_query_failed", "Failed to list menu items", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"items": items})
}

func (h *OrderingHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	chatID := r.URL.Query().Get("chat_id")
	name := r.URL.Query().Get("name")

	view, err := h.service.ViewCart(r.Context(), chatID, name)
	if err != nil {
		h.logger.Error(reqID, "cart_view_failed", "Failed to load cart", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, view)
}

func (h *OrderingHandler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var input struct {
		identityRequest
		MenuItemID int64 `json:"menu_item_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}

	view, err := h.service.AddItem(r.Context(), input.ChatID, input.Name, input.MenuItemID)
	if err != nil {
		h.logger.Error(reqID, "cart_add_failed",
			fmt.Sprintf("Failed to add menu item %d", input.MenuItemID), err)
		rejection(w, err)
		return
	}

	h.logger.Debug(reqID, "cart_add_completed",
		fmt.Sprintf("Menu item %d added for chat %s", input.MenuItemID, input.ChatID))
	jsonResponse(w, http.StatusOK, view)
}

func (h *OrderingHandler) ChangeCartItemQty(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	cartItemID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid cart item id"))
		return
	}

	var input struct {
		identityRequest
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}

	view, err := h.service.ChangeQuantity(r.Context(), input.ChatID, input.Name, cartItemID, input.Delta)
	if err != nil {
		h.logger.Error(reqID, "cart_qty_change_failed",
			fmt.Sprintf("Failed to change quantity of cart item %d", cartItemID), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, view)
}

func (h *OrderingHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	chatID := r.URL.Query().Get("chat_id")
	name := r.URL.Query().Get("name")

	if err := h.service.ClearCart(r.Context(), chatID, name); err != nil {
		h.logger.Error(reqID, "cart_clear_failed", "Failed to clear cart", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}
