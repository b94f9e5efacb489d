package handler

import (
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"
)

const maxReceiptSize = 10 << 20 // 10 MiB

// UploadReceipt takes a multipart payment-proof image, stores it and
// attaches it to the customer's most recent pending order.
func (h *OrderingHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse upload"))
		return
	}

	chatID := r.FormValue("chat_id")
	name := r.FormValue("name")

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("image file is required"))
		return
	}
	defer file.Close()

	ext := path.Ext(header.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("receipts/%s%s", uuid.NewString(), ext)

	imageRef, err := h.uploader.Upload(r.Context(), key, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error(reqID, "receipt_upload_failed", "Failed to store receipt image", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to store image"))
		return
	}

	receipt, order, err := h.service.AttachReceipt(r.Context(), chatID, name, imageRef)
	if err != nil {
		h.logger.Error(reqID, "receipt_attach_failed", "Failed to attach receipt", err)
		rejection(w, err)
		return
	}

	h.logger.Info(reqID, "receipt_attach_completed",
		fmt.Sprintf("Receipt %d attached to order %s", receipt.ID, order.Number))
	jsonResponse(w, http.StatusOK, map[string]any{
		"receipt":      receipt,
		"order_number": order.Number,
	})
}
