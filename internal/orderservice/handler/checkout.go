package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

func (h *OrderingHandler) BeginCheckout(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var input identityRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}

	reply, err := h.service.BeginCheckout(r.Context(), input.ChatID, input.Name)
	if err != nil {
		h.logger.Error(reqID, "checkout_begin_failed", "Failed to start checkout", err)
		rejection(w, err)
		return
	}

	h.logger.Debug(reqID, "checkout_begin_completed", "Checkout started for chat "+input.ChatID)
	jsonResponse(w, http.StatusOK, reply)
}

func (h *OrderingHandler) CheckoutMessage(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var input struct {
		identityRequest
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}

	reply, err := h.service.HandleMessage(r.Context(), input.ChatID, input.Name, input.Text)
	if err != nil {
		h.logger.Error(reqID, "checkout_message_failed", "Failed to process checkout message", err)
		rejection(w, err)
		return
	}

	if reply.Order != nil {
		h.logger.Info(reqID, "checkout_completed", "Order "+reply.Order.Number+" created")
	}
	jsonResponse(w, http.StatusOK, reply)
}

func (h *OrderingHandler) TrackOrders(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)
	chatID := r.URL.Query().Get("chat_id")
	name := r.URL.Query().Get("name")

	orders, err := h.service.TrackOrders(r.Context(), chatID, name)
	if err != nil {
		h.logger.Error(reqID, "order_track_failed", "Failed to list orders", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"orders": orders})
}
