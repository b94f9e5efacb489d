package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	paymentStatus := r.URL.Query().Get("payment_status")

	orders, err := h.service.ListOrders(r.Context(), paymentStatus, limit)
	if err != nil {
		h.logger.Error(reqID, "order_list_failed", "Failed to list orders", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"orders": orders})
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := orderID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.logger.Error(reqID, "order_get_failed", fmt.Sprintf("Failed to load order %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, order)
}

func (h *AdminHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := orderID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	var input struct {
		AdminID string  `json:"admin_id"`
		Approve bool    `json:"approve"`
		Notes   *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}
	if input.AdminID == "" {
		jsonError(w, http.StatusBadRequest, errors.New("admin_id is required"))
		return
	}

	order, err := h.service.VerifyPayment(r.Context(), id, input.AdminID, input.Approve, input.Notes)
	if err != nil {
		h.logger.Error(reqID, "payment_verify_failed",
			fmt.Sprintf("Failed to record payment decision for order %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, order)
}

func (h *AdminHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := orderID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	var input struct {
		AdminID      string  `json:"admin_id"`
		Status       string  `json:"status"`
		RiderContact *string `json:"rider_contact,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}
	if input.AdminID == "" || input.Status == "" {
		jsonError(w, http.StatusBadRequest, errors.New("admin_id and status are required"))
		return
	}

	order, err := h.service.SetStatus(r.Context(), id, input.Status, input.RiderContact, input.AdminID)
	if err != nil {
		h.logger.Error(reqID, "status_change_failed",
			fmt.Sprintf("Failed to change status of order %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, order)
}

func (h *AdminHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := orderID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	var input struct {
		AdminID string  `json:"admin_id"`
		Notes   *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}
	if input.AdminID == "" {
		jsonError(w, http.StatusBadRequest, errors.New("admin_id is required"))
		return
	}

	order, err := h.service.Cancel(r.Context(), id, input.AdminID, input.Notes)
	if err != nil {
		h.logger.Error(reqID, "order_cancel_failed",
			fmt.Sprintf("Failed to cancel order %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, order)
}

func (h *AdminHandler) QueryOrder(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := orderID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	var input struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}
	if input.Message == "" {
		jsonError(w, http.StatusBadRequest, errors.New("message is required"))
		return
	}

	if err := h.service.QueryOrder(r.Context(), id, input.Message); err != nil {
		h.logger.Error(reqID, "order_query_failed",
			fmt.Sprintf("Failed to relay query about order %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "query sent"})
}

func (h *AdminHandler) AuditLog(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := orderID(r)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	actions, err := h.service.Audit(r.Context(), id)
	if err != nil {
		h.logger.Error(reqID, "audit_read_failed",
			fmt.Sprintf("Failed to read audit log of order %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"actions": actions})
}
