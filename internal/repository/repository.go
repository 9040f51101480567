package repository

import (
	"context"

	"urban-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines catalogue reads and the variant stock ledger.
type ProductRepository interface {
	// GetAll retrieves active products with their variants, paginated.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product with its variants.
	// Returns nil if the product does not exist.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetBySlug retrieves a single product by its slug.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// GetVariant retrieves one variant's current stock.
	// Returns nil if the variant does not exist.
	GetVariant(ctx context.Context, productID, color, size string) (*model.Variant, error)

	// DecrementStock atomically decrements a variant's stock within the
	// provided transaction, conditioned on stock >= qty. Returns
	// model.ErrInsufficientStock if the condition no longer holds.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID, color, size string, qty int) error
}

// CartRepository defines per-user cart line storage. One row per
// (user, product, colour, size); upserts sum quantities.
type CartRepository interface {
	// GetLines retrieves a user's raw cart lines.
	GetLines(ctx context.Context, userID string) ([]model.CartLine, error)

	// GetItems retrieves cart lines joined with live product data. Lines
	// whose product no longer exists are dropped silently.
	GetItems(ctx context.Context, userID string) ([]model.CartItem, error)

	// UpsertLine inserts a line or adds its quantity to the existing line
	// for the same (product, colour, size).
	UpsertLine(ctx context.Context, line *model.CartLine) error

	// UpdateQuantity replaces the quantity of one of the user's lines.
	// Returns model.ErrCartLineNotFound if the line is not theirs.
	UpdateQuantity(ctx context.Context, userID string, lineID uuid.UUID, quantity int) error

	// DeleteLine removes one of the user's lines.
	DeleteLine(ctx context.Context, userID string, lineID uuid.UUID) error

	// ClearCart removes all of a user's lines within the provided
	// transaction. Used by payment reconciliation.
	ClearCart(ctx context.Context, tx pgx.Tx, userID string) error
}

// CouponRepository defines coupon lookup and administrative upsert.
type CouponRepository interface {
	// GetByCode retrieves a coupon by its normalised code.
	// Returns nil if no such coupon exists.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// Upsert inserts or replaces a coupon definition. Used by the seed
	// importer.
	Upsert(ctx context.Context, coupon *model.Coupon) error
}

// OrderRepository defines order persistence, including the atomic payment
// transitions that make reconciliation idempotent.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's frozen item snapshot within the
	// provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByRef retrieves an order by its human-readable reference.
	// Returns nil if not found.
	GetByRef(ctx context.Context, ref string) (*model.Order, error)

	// ListByUser retrieves a user's order summaries, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.OrderSummary, error)

	// Delete removes an order and its items. Best-effort cleanup when
	// payment initiation fails.
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkPaymentCompleted transitions payment_status pending->completed and
	// order_status placed->processing within the provided transaction,
	// storing the provider transaction id. Returns true iff this call won
	// the transition (the row was still pending).
	MarkPaymentCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, transactionID string) (bool, error)

	// MarkPaymentFailed transitions payment_status pending->failed and
	// order_status placed->cancelled within the provided transaction.
	// Returns true iff this call won the transition.
	MarkPaymentFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error)
}
