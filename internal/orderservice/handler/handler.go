package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sochow/internal/orderservice/service"
	"sochow/pkg/logger"
	"sochow/pkg/models"

	"github.com/google/uuid"
)

// Uploader stores an uploaded image and returns its stable reference.
type Uploader interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
}

type OrderingHandler struct {
	service  *service.OrderingService
	uploader Uploader
	logger   *logger.Logger
}

func NewOrderingHandler(svc *service.OrderingService, uploader Uploader, log *logger.Logger) *OrderingHandler {
	return &OrderingHandler{
		service:  svc,
		uploader: uploader,
		logger:   log,
	}
}

func (h *OrderingHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /menu", h.GetMenu)
	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("POST /cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /cart/items/{id}", h.ChangeCartItemQty)
	mux.HandleFunc("DELETE /cart", h.ClearCart)
	mux.HandleFunc("POST /checkout", h.BeginCheckout)
	mux.HandleFunc("POST /checkout/message", h.CheckoutMessage)
	mux.HandleFunc("POST /receipts", h.UploadReceipt)
	mux.HandleFunc("GET /orders", h.TrackOrders)
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

func jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, map[string]string{"error": err.Error()})
}

// rejection maps the domain error kinds to HTTP statuses; anything else is
// an internal failure.
func rejection(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, models.ErrNoPendingOrder):
		jsonError(w, http.StatusNotFound, err)
	case errors.Is(err, models.ErrEmptyCart), errors.Is(err, models.ErrItemUnavailable):
		jsonError(w, http.StatusBadRequest, err)
	default:
		jsonError(w, http.StatusInternalServerError, errors.New("internal error"))
	}
}
