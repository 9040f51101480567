package service

import (
	"context"

	"urban-kart/internal/model"

	"github.com/google/uuid"
)

// ProductService defines read-only catalogue operations.
type ProductService interface {
	// GetAll retrieves active products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetBySlug retrieves a single product by slug, or nil if unknown.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
}

// CartService defines operations on the caller's cart. Every operation takes
// the verified identity explicitly.
type CartService interface {
	// GetCart returns the cart joined with live product data.
	GetCart(ctx context.Context, ident model.Identity) ([]model.CartItem, error)

	// AddLine adds a product variant to the cart, summing quantities when
	// the same (product, colour, size) line already exists.
	AddLine(ctx context.Context, ident model.Identity, req *model.AddLineRequest) ([]model.CartItem, error)

	// UpdateLineQuantity replaces a line's quantity; zero or less removes
	// the line.
	UpdateLineQuantity(ctx context.Context, ident model.Identity, lineID uuid.UUID, quantity int) ([]model.CartItem, error)

	// RemoveLine removes a line from the cart.
	RemoveLine(ctx context.Context, ident model.Identity, lineID uuid.UUID) ([]model.CartItem, error)

	// MergeGuestCart reconciles a pre-authentication local cart into the
	// server cart. Invalid entries are skipped, not fatal.
	MergeGuestCart(ctx context.Context, ident model.Identity, guestLines []model.GuestLine) error
}

// CouponService validates coupon codes against a cart total.
type CouponService interface {
	// Validate returns the coupon's discount parameters, or the rejection
	// reason as a domain error.
	Validate(ctx context.Context, code string, cartTotal float64) (*model.ValidateCouponResponse, error)
}

// OrderService is the order lifecycle manager: it creates immutable orders
// from the cart, initiates payment, and applies payment outcomes exactly
// once.
type OrderService interface {
	// Checkout validates stock for every cart line, prices the cart with an
	// optional coupon, persists a placed/pending order with a frozen item
	// snapshot, and initiates payment. On initiation failure the pending
	// order is deleted and model.ErrPaymentInitiationFailed returned.
	Checkout(ctx context.Context, ident model.Identity, req *model.CheckoutRequest) (*model.CheckoutResponse, error)

	// ApplyPaymentResult applies a verified payment outcome idempotently.
	// Duplicate signals for an already-terminal payment are no-ops; outcomes
	// for orders past their initial state return model.ErrStaleCallback.
	ApplyPaymentResult(ctx context.Context, outcome model.PaymentOutcome) error

	// ListOrders retrieves the caller's order summaries, newest first.
	ListOrders(ctx context.Context, ident model.Identity) ([]model.OrderSummary, error)

	// GetOrder retrieves one order, rejecting callers who do not own it
	// with model.ErrForbidden.
	GetOrder(ctx context.Context, ident model.Identity, id uuid.UUID) (*model.Order, error)

	// GetOrderByRef retrieves one order by its human-readable reference,
	// with the same ownership rules as GetOrder.
	GetOrderByRef(ctx context.Context, ident model.Identity, ref string) (*model.Order, error)
}
