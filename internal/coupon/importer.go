package coupon

import (
	"context"
	"fmt"

	"urban-kart/internal/model"
	"urban-kart/internal/repository"

	"github.com/rs/zerolog"
)

// Importer upserts coupon seed definitions into the coupon table.
type Importer struct {
	couponRepo repository.CouponRepository
	logger     zerolog.Logger
}

// NewImporter creates a new coupon seed importer.
func NewImporter(couponRepo repository.CouponRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		couponRepo: couponRepo,
		logger:     logger.With().Str("component", "coupon-importer").Logger(),
	}
}

// Run loads a seed file and upserts every well-formed definition. Malformed
// entries are skipped and counted, not fatal: one bad row must not block the
// rest of a marketing batch.
func (i *Importer) Run(ctx context.Context, loader Loader, location string) error {
	seeds, err := loader.Load(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to load coupon seeds: %w", err)
	}

	imported, skipped := 0, 0
	for _, seed := range seeds {
		if err := validateSeed(seed); err != nil {
			i.logger.Warn().
				Str("code", seed.Code).
				Err(err).
				Msg("skipping malformed coupon seed")
			skipped++
			continue
		}

		err := i.couponRepo.Upsert(ctx, &model.Coupon{
			Code:          model.NormalizeCouponCode(seed.Code),
			DiscountType:  seed.DiscountType,
			DiscountValue: seed.DiscountValue,
			MinPurchase:   seed.MinPurchase,
			ExpiresAt:     seed.ExpiresAt,
			IsActive:      seed.IsActive,
		})
		if err != nil {
			return fmt.Errorf("failed to import coupon %s: %w", seed.Code, err)
		}
		imported++
	}

	i.logger.Info().
		Int("imported", imported).
		Int("skipped", skipped).
		Msg("coupon seed import finished")

	return nil
}

// validateSeed checks one seed definition.
func validateSeed(seed SeedCoupon) error {
	if seed.Code == "" {
		return fmt.Errorf("coupon code is required")
	}
	if seed.DiscountType != model.DiscountTypePercentage && seed.DiscountType != model.DiscountTypeFixed {
		return fmt.Errorf("invalid discount type: %s", seed.DiscountType)
	}
	if seed.DiscountValue < 0 {
		return fmt.Errorf("discount value cannot be negative")
	}
	if seed.MinPurchase < 0 {
		return fmt.Errorf("minimum purchase cannot be negative")
	}
	if seed.ExpiresAt.IsZero() {
		return fmt.Errorf("expiry date is required")
	}
	return nil
}
