package payment

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"urban-kart/internal/model"

	"github.com/google/uuid"
)

// signer implements the provider's keyed-hash scheme: the hex SHA-256 of
// payload+route+saltKey, suffixed with "###" and the salt index.
type signer struct {
	saltKey   string
	saltIndex string
}

// checksum computes the signature for a base64 payload and route suffix.
// Callbacks are signed with an empty route.
func (s *signer) checksum(base64Payload, route string) string {
	sum := sha256.Sum256([]byte(base64Payload + route + s.saltKey))
	return hex.EncodeToString(sum[:]) + "###" + s.saltIndex
}

// verify compares an incoming signature header against the recomputed
// checksum in constant time.
func (s *signer) verify(base64Payload, route, header string) bool {
	expected := s.checksum(base64Payload, route)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(header)) == 1
}

// callbackVerifier authenticates provider callbacks with the shared salt.
type callbackVerifier struct {
	signer signer
}

// NewVerifier creates a callback verifier from the shared secret material.
func NewVerifier(saltKey, saltIndex string) Verifier {
	return &callbackVerifier{
		signer: signer{saltKey: saltKey, saltIndex: saltIndex},
	}
}

// callbackPayload is the provider's decoded callback body.
type callbackPayload struct {
	Code string `json:"code"`
	Data struct {
		MerchantTransactionID string `json:"merchantTransactionId"`
		TransactionID         string `json:"transactionId"`
	} `json:"data"`
}

// VerifyCallback recomputes the keyed checksum over the base64 body and
// decodes the event on a match. Any mismatch fails closed.
func (v *callbackVerifier) VerifyCallback(base64Body, signatureHeader string) (*CallbackEvent, error) {
	if !v.signer.verify(base64Body, "", signatureHeader) {
		return nil, model.ErrSignatureMismatch
	}

	raw, err := base64.StdEncoding.DecodeString(base64Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode callback body: %w", err)
	}

	var payload callbackPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal callback body: %w", err)
	}

	orderID, err := uuid.Parse(payload.Data.MerchantTransactionID)
	if err != nil {
		return nil, fmt.Errorf("callback carries malformed order reference: %w", err)
	}

	return &CallbackEvent{
		OrderID:       orderID,
		Code:          payload.Code,
		TransactionID: payload.Data.TransactionID,
	}, nil
}
