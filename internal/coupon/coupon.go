// Package coupon seeds the coupon table from JSON definition files kept on
// local disk or in S3, so marketing can ship code batches without a deploy.
package coupon

import (
	"context"
	"time"
)

// SeedCoupon is one coupon definition in a seed file.
type SeedCoupon struct {
	Code          string    `json:"code"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	MinPurchase   float64   `json:"minPurchase"`
	ExpiresAt     time.Time `json:"expiresAt"`
	IsActive      bool      `json:"isActive"`
}

// Loader defines the interface for reading a coupon seed file.
type Loader interface {
	// Load reads a JSON coupon seed file and returns its definitions.
	Load(ctx context.Context, location string) ([]SeedCoupon, error)
}
