// Package payment holds the gateway adapter: building signed outbound
// payment-initiation requests and verifying signed inbound callbacks. It is
// stateless besides the shared secret material.
package payment

import (
	"context"

	"github.com/google/uuid"
)

// Outcome code reported by the provider for a successful payment.
const CodePaymentSuccess = "PAYMENT_SUCCESS"

// InitiationRequest carries everything the provider needs to start a
// hosted-page payment. Amount is in minor currency units (paise).
type InitiationRequest struct {
	OrderID     uuid.UUID
	UserID      string
	AmountMinor int64
	Mobile      string
}

// Provider initiates payments. The live implementation calls the provider's
// API; the sandbox implementation short-circuits to a local redirect. Which
// one runs is chosen at startup, not by an in-line flag.
type Provider interface {
	// Name identifies the provider in persisted payment info.
	Name() string

	// Initiate starts a payment and returns the URL to redirect the
	// shopper to. A failure here means no payment was started; the caller
	// rolls back the pending order.
	Initiate(ctx context.Context, req InitiationRequest) (string, error)
}

// CallbackEvent is a verified, decoded payment outcome.
type CallbackEvent struct {
	OrderID       uuid.UUID
	Code          string
	TransactionID string
}

// Success reports whether the event is a payment success.
func (e *CallbackEvent) Success() bool {
	return e.Code == CodePaymentSuccess
}

// Verifier authenticates and decodes provider callbacks. Verification must
// fail closed: an event with a bad signature is dropped without touching
// any order.
type Verifier interface {
	// VerifyCallback recomputes the keyed checksum over the base64 body and
	// compares it against the signature header. Returns
	// model.ErrSignatureMismatch on any mismatch.
	VerifyCallback(base64Body, signatureHeader string) (*CallbackEvent, error)
}
