package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"urban-kart/internal/model"
	"urban-kart/internal/payment"
	"urban-kart/internal/pricing"
	"urban-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// orderService implements OrderService. It is the sole writer of order
// status.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	provider    payment.Provider
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	provider payment.Provider,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		couponRepo:  couponRepo,
		provider:    provider,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// newOrderRef generates a short human-readable order identifier.
func newOrderRef() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("ORD-%s-%04d", millis[len(millis)-6:], 1000+rand.IntN(9000))
}

// Checkout turns the caller's cart into an immutable placed/pending order
// and initiates payment.
func (s *orderService) Checkout(ctx context.Context, ident model.Identity, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if req == nil {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Checkout request is required")
	}
	if err := req.ShippingAddress.Validate(); err != nil {
		return nil, err
	}

	cartItems, err := s.cartRepo.GetItems(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if len(cartItems) == 0 {
		return nil, model.ErrEmptyCart
	}

	// Validate every line against live stock before anything is written.
	// The whole checkout fails on the first short line; no partial orders.
	lines := make([]pricing.Line, 0, len(cartItems))
	frozen := make([]model.OrderItem, 0, len(cartItems))
	for _, item := range cartItems {
		variant, err := s.productRepo.GetVariant(ctx, item.Product.ID, item.Color, item.Size)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, model.ErrVariantNotFound
		}
		if variant.Stock < item.Quantity {
			s.logger.Warn().
				Str("user_id", ident.UserID).
				Str("product_id", item.Product.ID).
				Str("color", item.Color).
				Str("size", item.Size).
				Int("requested", item.Quantity).
				Int("available", variant.Stock).
				Msg("checkout rejected, line out of stock")
			return nil, &model.OutOfStockError{
				ProductID: item.Product.ID,
				Name:      item.Product.Name,
				Color:     item.Color,
				Size:      item.Size,
				Requested: item.Quantity,
				Available: variant.Stock,
			}
		}

		lines = append(lines, pricing.Line{UnitPrice: item.Product.Price, Quantity: item.Quantity})
		frozen = append(frozen, model.OrderItem{
			ID:        uuid.New(),
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Slug:      item.Product.Slug,
			Image:     item.Product.Image,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
			Color:     item.Color,
			Size:      item.Size,
		})
	}

	// Coupons are re-validated here regardless of any earlier validation
	// call; deactivation between the two is a checkout failure.
	var coupon *model.Coupon
	var couponCode *string
	if req.CouponCode != nil && *req.CouponCode != "" {
		code := model.NormalizeCouponCode(*req.CouponCode)
		coupon, err = s.couponRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if err := pricing.ValidateCoupon(coupon, pricing.Subtotal(lines), time.Now()); err != nil {
			s.logger.Warn().
				Str("user_id", ident.UserID).
				Str("coupon_code", code).
				Err(err).
				Msg("checkout rejected, coupon invalid")
			return nil, err
		}
		couponCode = &code
	}

	quote := pricing.Compute(lines, coupon)

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          ident.UserID,
		OrderRef:        newOrderRef(),
		ShippingAddress: req.ShippingAddress,
		CouponCode:      couponCode,
		PaymentInfo: model.PaymentInfo{
			Provider:      s.provider.Name(),
			PaymentStatus: model.PaymentStatusPending,
			Amount:        quote.Total,
		},
		OrderStatus: model.OrderStatusPlaced,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for i := range frozen {
		frozen[i].OrderID = order.ID
	}
	order.Items = frozen

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// err may be set after the commit (payment initiation), so the rollback
	// of an already-closed tx is expected there.
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, order.Items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	redirectURL, err := s.provider.Initiate(ctx, payment.InitiationRequest{
		OrderID:     order.ID,
		UserID:      ident.UserID,
		AmountMinor: pricing.AmountMinorUnits(quote.Total),
		Mobile:      req.ShippingAddress.Mobile,
	})
	if err != nil {
		// Best-effort cleanup so the failed initiation does not leave an
		// orphan pending order.
		if delErr := s.orderRepo.Delete(ctx, order.ID); delErr != nil {
			s.logger.Error().
				Err(delErr).
				Str("order_id", order.ID.String()).
				Msg("failed to delete order after initiation failure")
		}
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("order_ref", order.OrderRef).
			Msg("payment initiation failed, pending order rolled back")
		return nil, model.ErrPaymentInitiationFailed
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_ref", order.OrderRef).
		Float64("subtotal", quote.Subtotal).
		Float64("discount", quote.Discount).
		Float64("total", quote.Total).
		Int("item_count", len(order.Items)).
		Msg("order created, payment initiated")

	return &model.CheckoutResponse{
		OrderID:     order.ID,
		OrderRef:    order.OrderRef,
		RedirectURL: redirectURL,
	}, nil
}

// ApplyPaymentResult applies a verified payment outcome exactly once. The
// conditional status update and all of its side effects (stock decrement,
// cart clearing) run in one transaction, so of two concurrent callbacks only
// the one that wins the pending->terminal transition applies anything.
func (s *orderService) ApplyPaymentResult(ctx context.Context, outcome model.PaymentOutcome) error {
	order, err := s.orderRepo.GetByID(ctx, outcome.OrderID)
	if err != nil {
		return err
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to apply payment result: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	var won bool
	if outcome.Success {
		won, err = s.orderRepo.MarkPaymentCompleted(ctx, tx, order.ID, outcome.TransactionID)
	} else {
		won, err = s.orderRepo.MarkPaymentFailed(ctx, tx, order.ID)
	}
	if err != nil {
		return err
	}

	if !won {
		_ = tx.Rollback(ctx)
		return s.classifyLostTransition(ctx, order.ID, outcome.Success)
	}

	if outcome.Success {
		for _, item := range order.Items {
			if err = s.productRepo.DecrementStock(ctx, tx, item.ProductID, item.Color, item.Size, item.Quantity); err != nil {
				s.logger.Error().
					Err(err).
					Str("order_id", order.ID.String()).
					Str("product_id", item.ProductID).
					Msg("stock decrement failed during payment confirmation")
				return err
			}
		}

		if err = s.cartRepo.ClearCart(ctx, tx, order.UserID); err != nil {
			return err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to apply payment result: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_ref", order.OrderRef).
		Bool("success", outcome.Success).
		Str("transaction_id", outcome.TransactionID).
		Msg("payment outcome applied")

	return nil
}

// classifyLostTransition distinguishes a harmless duplicate delivery from a
// genuinely stale outcome after the conditional update changed no rows.
func (s *orderService) classifyLostTransition(ctx context.Context, orderID uuid.UUID, success bool) error {
	current, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if current == nil {
		return model.ErrOrderNotFound
	}

	status := current.PaymentInfo.PaymentStatus
	if (success && status == model.PaymentStatusCompleted) ||
		(!success && status == model.PaymentStatusFailed) {
		s.logger.Info().
			Str("order_id", orderID.String()).
			Str("payment_status", status).
			Bool("success", success).
			Msg("duplicate payment callback ignored")
		return nil
	}

	s.logger.Warn().
		Str("order_id", orderID.String()).
		Str("payment_status", status).
		Str("order_status", current.OrderStatus).
		Bool("success", success).
		Msg("stale payment callback rejected")
	return model.ErrStaleCallback
}

// ListOrders retrieves the caller's order summaries, newest first.
func (s *orderService) ListOrders(ctx context.Context, ident model.Identity) ([]model.OrderSummary, error) {
	orders, err := s.orderRepo.ListByUser(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []model.OrderSummary{}
	}
	return orders, nil
}

// GetOrder retrieves one order, rejecting callers who do not own it.
func (s *orderService) GetOrder(ctx context.Context, ident model.Identity, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.authorizeOrder(ident, order)
}

// GetOrderByRef retrieves one order by its human-readable reference, with the
// same ownership rules as GetOrder.
func (s *orderService) GetOrderByRef(ctx context.Context, ident model.Identity, ref string) (*model.Order, error) {
	order, err := s.orderRepo.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	return s.authorizeOrder(ident, order)
}

func (s *orderService) authorizeOrder(ident model.Identity, order *model.Order) (*model.Order, error) {
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if order.UserID != ident.UserID && ident.Role != model.RoleAdmin {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("owner", order.UserID).
			Str("caller", ident.UserID).
			Msg("order access denied")
		return nil, model.ErrForbidden
	}

	return order, nil
}
