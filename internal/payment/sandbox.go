package payment

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// sandboxProvider skips the outbound provider call and sends the shopper
// straight to the local order-status page. Callbacks are still verified
// against the shared salt, so the reconciliation path is exercised end to
// end in non-live environments.
type sandboxProvider struct {
	baseURL string
	logger  zerolog.Logger
}

// NewSandboxProvider creates the sandbox provider.
func NewSandboxProvider(baseURL string, logger zerolog.Logger) Provider {
	return &sandboxProvider{
		baseURL: baseURL,
		logger:  logger.With().Str("component", "sandbox-provider").Logger(),
	}
}

// Name identifies the provider in persisted payment info.
func (p *sandboxProvider) Name() string {
	return "sandbox"
}

// Initiate returns a pre-baked redirect to the local order-status page.
func (p *sandboxProvider) Initiate(_ context.Context, req InitiationRequest) (string, error) {
	p.logger.Warn().
		Str("order_id", req.OrderID.String()).
		Int64("amount_minor", req.AmountMinor).
		Msg("sandbox payment mode active, skipping provider call")

	return fmt.Sprintf("%s/order-status?id=%s&status=SANDBOX_SUCCESS", p.baseURL, req.OrderID), nil
}
