package repository

import (
	"context"
	"fmt"

	"urban-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, user_id, order_ref, coupon_code,
			ship_full_name, ship_address1, ship_address2, ship_city, ship_state, ship_postal_code, ship_country, ship_mobile,
			provider, transaction_id, payment_status, amount, order_status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	a := order.ShippingAddress
	_, err := tx.Exec(ctx, query,
		order.ID, order.UserID, order.OrderRef, order.CouponCode,
		a.FullName, a.AddressLine1, a.AddressLine2, a.City, a.State, a.PostalCode, a.Country, a.Mobile,
		order.PaymentInfo.Provider, order.PaymentInfo.TransactionID, order.PaymentInfo.PaymentStatus,
		order.PaymentInfo.Amount, order.OrderStatus,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("order_ref", order.OrderRef).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("order_ref", order.OrderRef).
		Msg("order created")

	return nil
}

// CreateOrderItems inserts the order's frozen item snapshot within the
// provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, slug, image, price, quantity, color, size)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name, item.Slug,
			item.Image, item.Price, item.Quantity, item.Color, item.Size)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		_, err := results.Exec()
		if err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created")

	return nil
}

const orderColumns = `
	id, user_id, order_ref, coupon_code,
	ship_full_name, ship_address1, ship_address2, ship_city, ship_state, ship_postal_code, ship_country, ship_mobile,
	provider, transaction_id, payment_status, amount, order_status,
	created_at, updated_at
`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderRef, &o.CouponCode,
		&o.ShippingAddress.FullName, &o.ShippingAddress.AddressLine1, &o.ShippingAddress.AddressLine2,
		&o.ShippingAddress.City, &o.ShippingAddress.State, &o.ShippingAddress.PostalCode,
		&o.ShippingAddress.Country, &o.ShippingAddress.Mobile,
		&o.PaymentInfo.Provider, &o.PaymentInfo.TransactionID, &o.PaymentInfo.PaymentStatus,
		&o.PaymentInfo.Amount, &o.OrderStatus,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByID retrieves an order with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// GetByRef retrieves an order by its human-readable reference.
func (r *orderRepository) GetByRef(ctx context.Context, ref string) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_ref = $1`

	order, err := scanOrder(r.pool.QueryRow(ctx, query, ref))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_ref", ref).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_ref", ref).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.getItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// getItems retrieves an order's frozen item snapshot.
func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, slug, image, price, quantity, color, size
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Slug,
			&item.Image, &item.Price, &item.Quantity, &item.Color, &item.Size)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// ListByUser retrieves a user's order summaries, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]model.OrderSummary, error) {
	query := `
		SELECT o.id, o.order_ref, o.amount, o.payment_status, o.order_status, o.created_at,
		       (SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id)
		FROM orders o
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.OrderSummary
	for rows.Next() {
		var s model.OrderSummary
		err := rows.Scan(&s.ID, &s.OrderRef, &s.Amount, &s.PaymentStatus, &s.OrderStatus, &s.CreatedAt, &s.ItemCount)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order summary row")
			return nil, fmt.Errorf("failed to scan order summary: %w", err)
		}
		orders = append(orders, s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order summary rows")
		return nil, fmt.Errorf("error iterating order summaries: %w", err)
	}

	return orders, nil
}

// Delete removes an order and its items (items cascade).
func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM orders WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to delete order")
		return fmt.Errorf("failed to delete order: %w", err)
	}

	r.logger.Debug().Str("order_id", id.String()).Msg("order deleted")

	return nil
}

// MarkPaymentCompleted performs the conditional pending->completed
// transition. The WHERE clause on payment_status is the idempotency guard:
// of two concurrent callbacks, exactly one sees a row change.
func (r *orderRepository) MarkPaymentCompleted(ctx context.Context, tx pgx.Tx, id uuid.UUID, transactionID string) (bool, error) {
	query := `
		UPDATE orders
		SET payment_status = $3, order_status = $4, transaction_id = $2, updated_at = NOW()
		WHERE id = $1 AND payment_status = $5
	`

	tag, err := tx.Exec(ctx, query, id, transactionID,
		model.PaymentStatusCompleted, model.OrderStatusProcessing, model.PaymentStatusPending)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark payment completed")
		return false, fmt.Errorf("failed to mark payment completed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// MarkPaymentFailed performs the conditional pending->failed transition.
func (r *orderRepository) MarkPaymentFailed(ctx context.Context, tx pgx.Tx, id uuid.UUID) (bool, error) {
	query := `
		UPDATE orders
		SET payment_status = $2, order_status = $3, updated_at = NOW()
		WHERE id = $1 AND payment_status = $4
	`

	tag, err := tx.Exec(ctx, query, id,
		model.PaymentStatusFailed, model.OrderStatusCancelled, model.PaymentStatusPending)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark payment failed")
		return false, fmt.Errorf("failed to mark payment failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
