package handler

import (
	"encoding/json"
	"net/http"

	"urban-kart/internal/model"
	"urban-kart/internal/service"

	"github.com/rs/zerolog"
)

// CouponHandler handles coupon validation HTTP requests.
type CouponHandler struct {
	service service.CouponService
	logger  zerolog.Logger
}

// NewCouponHandler creates a new coupon handler.
func NewCouponHandler(service service.CouponService, logger zerolog.Logger) *CouponHandler {
	return &CouponHandler{
		service: service,
		logger:  logger.With().Str("handler", "coupon").Logger(),
	}
}

// Validate handles POST /api/coupons/validate requests. Validation here is
// advisory, for checkout UI feedback; the coupon is re-validated
// authoritatively when the order is priced.
func (h *CouponHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireIdentity(w, r, h.logger); !ok {
		return
	}

	var req model.ValidateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid request body", h.logger)
		return
	}
	if req.Code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "coupon code is required", h.logger)
		return
	}

	resp, err := h.service.Validate(r.Context(), req.Code, req.CartTotal)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
