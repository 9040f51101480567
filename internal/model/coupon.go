package model

import (
	"strings"
	"time"
)

// Discount types for coupons.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// Coupon is a discount code. Codes are stored upper-cased; a coupon applies
// to a cart iff it is active, unexpired and the subtotal meets MinPurchase.
type Coupon struct {
	Code          string    `json:"code" db:"code"`
	DiscountType  string    `json:"discountType" db:"discount_type"`
	DiscountValue float64   `json:"discountValue" db:"discount_value"`
	MinPurchase   float64   `json:"minPurchase" db:"min_purchase"`
	ExpiresAt     time.Time `json:"expiresAt" db:"expires_at"`
	IsActive      bool      `json:"isActive" db:"is_active"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// NormalizeCouponCode upper-cases and trims a user-supplied code, matching
// how codes are stored.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCouponRequest is the payload for the coupon validation endpoint.
type ValidateCouponRequest struct {
	Code      string  `json:"code"`
	CartTotal float64 `json:"cartTotal"`
}

// ValidateCouponResponse returns the discount parameters for a valid coupon.
type ValidateCouponResponse struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
	Message       string  `json:"message"`
}
