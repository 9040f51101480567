// Package handler maps HTTP requests onto the service layer and domain
// errors back onto status codes.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"urban-kart/internal/middleware"
	"urban-kart/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps a service error onto an HTTP status and writes it.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var oos *model.OutOfStockError
	if errors.As(err, &oos) {
		writeJSON(w, http.StatusConflict, struct {
			Error     string `json:"error"`
			Message   string `json:"message"`
			ProductID string `json:"productId"`
			Color     string `json:"color"`
			Size      string `json:"size"`
			Available int    `json:"available"`
		}{
			Error:     model.ErrCodeOutOfStock,
			Message:   oos.Error(),
			ProductID: oos.ProductID,
			Color:     oos.Color,
			Size:      oos.Size,
			Available: oos.Available,
		})
		return
	}

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("unexpected service error")
	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// statusForCode maps a stable domain error code onto an HTTP status.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeEmptyCart,
		model.ErrCodeInvalidCoupon, model.ErrCodeCouponExpired, model.ErrCodeMinPurchase:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeOutOfStock, model.ErrCodeInsufficientStock, model.ErrCodeStaleCallback:
		return http.StatusConflict
	case model.ErrCodePaymentInitiation:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requireIdentity extracts the caller identity, writing a 401 when the
// request is anonymous. The boolean reports whether the handler may proceed.
func requireIdentity(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (model.Identity, bool) {
	ident := middleware.IdentityFromContext(r.Context())
	if ident.IsZero() {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "Authentication required", logger)
		return model.Identity{}, false
	}
	return ident, true
}
