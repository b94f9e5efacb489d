package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"
)

const maxMenuImageSize = 10 << 20 // 10 MiB

func (h *AdminHandler) ListMenu(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	items, err := h.service.ListMenu(r.Context())
	if err != nil {
		h.logger.Error(reqID, "menu_list_failed", "Failed to list menu items", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]any{"items": items})
}

func (h *AdminHandler) AddMenuItem(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	var input struct {
		Name        string  `json:"name"`
		PriceNaira  int64   `json:"price_naira"`
		Description *string `json:"description,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}

	item, err := h.service.AddMenuItem(r.Context(), input.Name, input.PriceNaira, input.Description)
	if err != nil {
		h.logger.Error(reqID, "menu_add_failed", "Failed to add menu item", err)
		jsonError(w, http.StatusBadRequest, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

func (h *AdminHandler) EditMenuItem(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	var input struct {
		Name        *string `json:"name,omitempty"`
		PriceNaira  *int64  `json:"price_naira,omitempty"`
		Available   *bool   `json:"available,omitempty"`
		Description *string `json:"description,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse JSON"))
		return
	}

	item, err := h.service.EditMenuItem(r.Context(), id, input.Name, input.PriceNaira, input.Available, input.Description)
	if err != nil {
		h.logger.Error(reqID, "menu_edit_failed", fmt.Sprintf("Failed to edit menu item %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

func (h *AdminHandler) RemoveMenuItem(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	if err := h.service.RemoveMenuItem(r.Context(), id); err != nil {
		h.logger.Error(reqID, "menu_remove_failed", fmt.Sprintf("Failed to remove menu item %d", id), err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "menu item removed"})
}

func (h *AdminHandler) GetMenuImage(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	url, err := h.service.MenuImageURL(r.Context())
	if err != nil {
		h.logger.Error(reqID, "menu_image_get_failed", "Failed to resolve menu image", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"url": url})
}

// SetMenuImage takes a multipart image upload and replaces the menu board.
func (h *AdminHandler) SetMenuImage(w http.ResponseWriter, r *http.Request) {
	reqID := requestID(r)

	if err := r.ParseMultipartForm(maxMenuImageSize); err != nil {
		jsonError(w, http.StatusBadRequest, errors.New("failed to parse upload"))
		return
	}

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
	key := fmt.Sprintf("menu/%s%s", uuid.NewString(), ext)

	imageRef, err := h.uploader.Upload(r.Context(), key, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		h.logger.Error(reqID, "menu_image_upload_failed", "Failed to store menu image", err)
		jsonError(w, http.StatusInternalServerError, errors.New("failed to store image"))
		return
	}

	if err := h.service.SetMenuImage(r.Context(), imageRef); err != nil {
		h.logger.Error(reqID, "menu_image_set_failed", "Failed to record menu image", err)
		rejection(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"image_ref": imageRef})
}
