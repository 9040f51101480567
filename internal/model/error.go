package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeOutOfStock        = "OUT_OF_STOCK"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidCoupon     = "INVALID_COUPON"
	ErrCodeCouponExpired     = "COUPON_EXPIRED"
	ErrCodeMinPurchase       = "MIN_PURCHASE_NOT_MET"
	ErrCodeSignatureMismatch = "SIGNATURE_MISMATCH"
	ErrCodeStaleCallback     = "STALE_CALLBACK"
	ErrCodePaymentInitiation = "PAYMENT_INITIATION_FAILED"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule rejection with a stable machine code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUnauthorised            = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrForbidden               = NewDomainError(ErrCodeForbidden, "You do not have access to this resource")
	ErrProductNotFound         = NewDomainError(ErrCodeNotFound, "Product not found")
	ErrVariantNotFound         = NewDomainError(ErrCodeNotFound, "Requested colour/size combination not found")
	ErrCartLineNotFound        = NewDomainError(ErrCodeNotFound, "Item not found in cart")
	ErrOrderNotFound           = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrInvalidCoupon           = NewDomainError(ErrCodeInvalidCoupon, "Invalid coupon code")
	ErrEmptyCart               = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrInsufficientStock       = NewDomainError(ErrCodeInsufficientStock, "Stock changed before payment was confirmed")
	ErrCouponExpired           = NewDomainError(ErrCodeCouponExpired, "Coupon has expired")
	ErrMinPurchaseNotMet       = NewDomainError(ErrCodeMinPurchase, "Cart total is below the coupon's minimum purchase")
	ErrSignatureMismatch       = NewDomainError(ErrCodeSignatureMismatch, "Callback signature verification failed")
	ErrStaleCallback           = NewDomainError(ErrCodeStaleCallback, "Payment outcome arrived after the order left its initial state")
	ErrPaymentInitiationFailed = NewDomainError(ErrCodePaymentInitiation, "Payment initiation failed")
)

// OutOfStockError reports the first cart line whose requested quantity
// exceeds the variant's current stock.
type OutOfStockError struct {
	ProductID string
	Name      string
	Color     string
	Size      string
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: %s (%s/%s): requested %d, available %d",
		e.Name, e.Color, e.Size, e.Requested, e.Available)
}
