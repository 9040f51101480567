// Package pricing computes an order's authoritative subtotal, discount and
// total from server-trusted prices. It is deterministic and side-effect-free:
// the same inputs always produce the same quote, so it is safe to run both as
// a dry-run for display and as the authoritative computation at checkout.
package pricing

import (
	"math"
	"time"

	"urban-kart/internal/model"
)

// Line is one priced cart line: the server-side unit price and quantity.
// Client-supplied prices never enter a Line.
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Quote is the result of a pricing run.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// Subtotal sums unit price times quantity over all lines.
func Subtotal(lines []Line) float64 {
	var subtotal float64
	for _, l := range lines {
		subtotal += l.UnitPrice * float64(l.Quantity)
	}
	return subtotal
}

// ValidateCoupon checks whether a coupon applies to the given subtotal at
// the given instant. A nil coupon is an unknown or inactive code.
func ValidateCoupon(coupon *model.Coupon, subtotal float64, now time.Time) error {
	if coupon == nil || !coupon.IsActive {
		return model.ErrInvalidCoupon
	}
	if now.After(coupon.ExpiresAt) {
		return model.ErrCouponExpired
	}
	if subtotal < coupon.MinPurchase {
		return model.ErrMinPurchaseNotMet
	}
	return nil
}

// Compute prices the lines and applies an already-validated coupon.
// Total is clamped so it never drops below zero.
func Compute(lines []Line, coupon *model.Coupon) Quote {
	subtotal := Subtotal(lines)

	var discount float64
	if coupon != nil {
		switch coupon.DiscountType {
		case model.DiscountTypePercentage:
			discount = subtotal * coupon.DiscountValue / 100
		case model.DiscountTypeFixed:
			discount = coupon.DiscountValue
		}
	}

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Total:    math.Max(0, subtotal-discount),
	}
}

// AmountMinorUnits converts a total in major currency units to the integer
// smallest-denomination value payment providers expect (e.g. rupees to
// paise).
func AmountMinorUnits(total float64) int64 {
	return int64(math.Round(total * 100))
}
