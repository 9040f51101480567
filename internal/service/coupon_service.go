package service

import (
	"context"
	"time"

	"urban-kart/internal/model"
	"urban-kart/internal/pricing"
	"urban-kart/internal/repository"

	"github.com/rs/zerolog"
)

// couponService implements CouponService.
type couponService struct {
	couponRepo repository.CouponRepository
	logger     zerolog.Logger
}

// NewCouponService creates a new coupon service.
func NewCouponService(couponRepo repository.CouponRepository, logger zerolog.Logger) CouponService {
	return &couponService{
		couponRepo: couponRepo,
		logger:     logger.With().Str("service", "coupon").Logger(),
	}
}

// Validate returns the coupon's discount parameters for a given cart total.
// The result is advisory: checkout re-validates the coupon against the
// authoritative server-side subtotal.
func (s *couponService) Validate(ctx context.Context, code string, cartTotal float64) (*model.ValidateCouponResponse, error) {
	if code == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Coupon code is required")
	}

	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := pricing.ValidateCoupon(coupon, cartTotal, time.Now()); err != nil {
		s.logger.Debug().
			Str("coupon_code", code).
			Float64("cart_total", cartTotal).
			Err(err).
			Msg("coupon rejected")
		return nil, err
	}

	return &model.ValidateCouponResponse{
		Code:          coupon.Code,
		DiscountType:  coupon.DiscountType,
		DiscountValue: coupon.DiscountValue,
		Message:       "Coupon applied successfully",
	}, nil
}
