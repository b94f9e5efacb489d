package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"sochow/internal/adminservice/service"
	"sochow/pkg/logger"
	"sochow/pkg/models"

	"github.com/google/uuid"
)

// Uploader stores an uploaded image and returns its stable reference.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type AdminHandler struct {
	service  *service.AdminService
	uploader Uploader
	logger   *logger.Logger
}

func NewAdminHandler(svc *service.AdminService, uploader Uploader, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service:  svc,
		uploader: uploader,
		logger:   log,
	}
}

func (h *AdminHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /orders", h.ListOrders)
	mux.HandleFunc("GET /orders/{id}", h.GetOrder)
	mux.HandleFunc("POST /orders/{id}/verify", h.VerifyPayment)
	mux.HandleFunc("PATCH /orders/{id}/status", h.SetStatus)
	mux.HandleFunc("POST /orders/{id}/cancel", h.CancelOrder)
	mux.HandleFunc("POST /orders/{id}/query", h.QueryOrder)
	mux.HandleFunc("GET /orders/{id}/audit", h.AuditLog)
	mux.HandleFunc("GET /menu/items", h.ListMenu)
	mux.HandleFunc("POST /menu/items", h.AddMenuItem)
	mux.HandleFunc("PATCH /menu/items/{id}", h.EditMenuItem)
	mux.HandleFunc("DELETE /menu/items/{id}", h.RemoveMenuItem)
	mux.HandleFunc("GET /menu/image", h.GetMenuImage)
	mux.HandleFunc("POST /menu/image", h.SetMenuImage)
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

func orderID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, errors.New("invalid order id")
	}
	return id, nil
}

func jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, map[string]string{"error": err.Error()})
}

func rejection(w http.ResponseWriter, err error) {
	if errors.Is(err, models.ErrNotFound) {
		jsonError(w, http.StatusNotFound, err)
		return
	}
	jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
}
