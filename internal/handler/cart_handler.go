package handler

import (
	"encoding/json"
	"net/http"

	"urban-kart/internal/model"
	"urban-kart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles cart HTTP requests. All routes require an
// authenticated caller.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	items, err := h.service.GetCart(r.Context(), ident)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// AddLine handles POST /api/cart requests.
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req model.AddLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid request body", h.logger)
		return
	}

	items, err := h.service.AddLine(r.Context(), ident, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// UpdateLine handles PUT /api/cart requests.
func (h *CartHandler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req model.UpdateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid request body", h.logger)
		return
	}

	items, err := h.service.UpdateLineQuantity(r.Context(), ident, req.LineID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// RemoveLine handles DELETE /api/cart requests.
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req model.RemoveLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid request body", h.logger)
		return
	}

	items, err := h.service.RemoveLine(r.Context(), ident, req.LineID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Merge handles POST /api/cart/merge requests. The endpoint absorbs a local
// guest cart after sign-in and returns the merged server cart.
func (h *CartHandler) Merge(w http.ResponseWriter, r *http.Request) {
	ident, ok := requireIdentity(w, r, h.logger)
	if !ok {
		return
	}

	var req model.MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid request body", h.logger)
		return
	}

	if err := h.service.MergeGuestCart(r.Context(), ident, req.LocalCart); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	items, err := h.service.GetCart(r.Context(), ident)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}
