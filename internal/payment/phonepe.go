package payment

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"urban-kart/internal/config"
	"urban-kart/internal/model"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// payRoute is the provider API route included in the request signature.
const payRoute = "/pg/v1/pay"

// phonePeProvider is the live PhonePe client. Outbound calls go through a
// circuit breaker so a degraded provider fails checkouts fast instead of
// holding connections open.
type phonePeProvider struct {
	cfg     config.PaymentConfig
	signer  signer
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

// NewPhonePeProvider creates the live provider from configuration.
func NewPhonePeProvider(cfg config.PaymentConfig, logger zerolog.Logger) Provider {
	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:    "phonepe",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &phonePeProvider{
		cfg:    cfg,
		signer: signer{saltKey: cfg.SaltKey, saltIndex: cfg.SaltIndex},
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		breaker: breaker,
		logger:  logger.With().Str("component", "phonepe-provider").Logger(),
	}
}

// Name identifies the provider in persisted payment info.
func (p *phonePeProvider) Name() string {
	return "phonepe"
}

// payPayload is the provider's pay-page request body, base64-encoded and
// signed before sending.
type payPayload struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Amount                int64             `json:"amount"`
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	CallbackURL           string            `json:"callbackUrl"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     paymentInstrument `json:"paymentInstrument"`
}

type paymentInstrument struct {
	Type string `json:"type"`
}

// payResponse is the provider's response to a pay-page request.
type payResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		InstrumentResponse struct {
			RedirectInfo struct {
				URL string `json:"url"`
			} `json:"redirectInfo"`
		} `json:"instrumentResponse"`
	} `json:"data"`
}

// Initiate builds, signs and posts the pay-page request and returns the
// provider's hosted-payment redirect URL.
func (p *phonePeProvider) Initiate(ctx context.Context, req InitiationRequest) (string, error) {
	orderID := req.OrderID.String()

	mobile := req.Mobile
	if mobile == "" {
		mobile = "9999999999"
	}

	payload := payPayload{
		MerchantID:            p.cfg.MerchantID,
		MerchantTransactionID: orderID,
		MerchantUserID:        req.UserID,
		Amount:                req.AmountMinor,
		RedirectURL:           fmt.Sprintf("%s/order-status?id=%s", p.cfg.BaseURL, orderID),
		RedirectMode:          "REDIRECT",
		CallbackURL:           p.cfg.BaseURL + "/api/payment/callback",
		MobileNumber:          mobile,
		PaymentInstrument:     paymentInstrument{Type: "PAY_PAGE"},
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal pay payload: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(raw)
	checksum := p.signer.checksum(encoded, payRoute)

	body, err := json.Marshal(map[string]string{"request": encoded})
	if err != nil {
		return "", fmt.Errorf("failed to marshal pay request: %w", err)
	}

	redirectURL, err := p.breaker.Execute(func() (string, error) {
		return p.post(ctx, body, checksum)
	})
	if err != nil {
		p.logger.Error().
			Err(err).
			Str("order_id", orderID).
			Int64("amount_minor", req.AmountMinor).
			Msg("payment initiation failed")
		return "", model.ErrPaymentInitiationFailed
	}

	p.logger.Info().
		Str("order_id", orderID).
		Int64("amount_minor", req.AmountMinor).
		Msg("payment initiated")

	return redirectURL, nil
}

// post performs the HTTP call and extracts the redirect URL.
func (p *phonePeProvider) post(ctx context.Context, body []byte, checksum string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.PayAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build pay request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-VERIFY", checksum)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("pay request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pay request returned status %d", resp.StatusCode)
	}

	var decoded payResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode pay response: %w", err)
	}

	if !decoded.Success {
		return "", fmt.Errorf("provider rejected pay request: %s", decoded.Message)
	}

	redirectURL := decoded.Data.InstrumentResponse.RedirectInfo.URL
	if redirectURL == "" {
		return "", fmt.Errorf("provider response missing redirect URL")
	}

	return redirectURL, nil
}
