package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"urban-kart/internal/model"
	"urban-kart/internal/payment"
	"urban-kart/internal/service"

	"github.com/rs/zerolog"
)

// CallbackHandler receives payment gateway callbacks. The provider retries
// until it sees a 2xx, so every processable request is acknowledged with 200
// even when the event is dropped: signature mismatches, duplicates and stale
// outcomes are logged, never surfaced as errors the gateway would retry.
type CallbackHandler struct {
	verifier payment.Verifier
	service  service.OrderService
	logger   zerolog.Logger
}

// NewCallbackHandler creates a new payment callback handler.
func NewCallbackHandler(verifier payment.Verifier, service service.OrderService, logger zerolog.Logger) *CallbackHandler {
	return &CallbackHandler{
		verifier: verifier,
		service:  service,
		logger:   logger.With().Str("handler", "payment-callback").Logger(),
	}
}

// callbackRequest is the gateway's callback envelope: a base64 JSON body.
type callbackRequest struct {
	Response string `json:"response"`
}

// ackResponse is the fixed acknowledgement body.
type ackResponse struct {
	Status string `json:"status"`
}

// Handle handles POST /api/payment/callback requests.
func (h *CallbackHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Response == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid callback body", h.logger)
		return
	}

	event, err := h.verifier.VerifyCallback(req.Response, r.Header.Get("X-VERIFY"))
	if err != nil {
		if errors.Is(err, model.ErrSignatureMismatch) {
			h.logger.Warn().
				Str("remote_addr", r.RemoteAddr).
				Msg("dropping callback with bad signature")
			writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
			return
		}
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "malformed callback payload", h.logger)
		return
	}

	outcome := model.PaymentOutcome{
		OrderID:       event.OrderID,
		Success:       event.Success(),
		TransactionID: event.TransactionID,
	}

	if err := h.service.ApplyPaymentResult(r.Context(), outcome); err != nil {
		switch {
		case errors.Is(err, model.ErrStaleCallback):
			h.logger.Warn().
				Str("order_id", event.OrderID.String()).
				Str("code", event.Code).
				Msg("dropping stale payment callback")
		case errors.Is(err, model.ErrOrderNotFound):
			h.logger.Warn().
				Str("order_id", event.OrderID.String()).
				Msg("payment callback for unknown order")
		case errors.Is(err, model.ErrInsufficientStock):
			// Payment is captured but stock ran out before confirmation; the
			// order stays pending for manual reconciliation.
			h.logger.Error().
				Str("order_id", event.OrderID.String()).
				Msg("paid order could not be confirmed: stock exhausted")
		default:
			h.logger.Error().
				Err(err).
				Str("order_id", event.OrderID.String()).
				Msg("failed to apply payment outcome")
		}
	}

	writeJSON(w, http.StatusOK, ackResponse{Status: "ok"})
}
