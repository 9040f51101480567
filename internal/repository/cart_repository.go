package repository

import (
	"context"
	"fmt"
	"time"

	"urban-kart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetLines retrieves a user's raw cart lines.
func (r *cartRepository) GetLines(ctx context.Context, userID string) ([]model.CartLine, error) {
	query := `
		SELECT id, user_id, product_id, color, size, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart lines")
		return nil, fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	var lines []model.CartLine
	for rows.Next() {
		var l model.CartLine
		err := rows.Scan(&l.ID, &l.UserID, &l.ProductID, &l.Color, &l.Size, &l.Quantity, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart line row")
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart line rows")
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return lines, nil
}

// GetItems retrieves cart lines joined with live product data. The inner
// join drops lines whose product was deleted from the catalogue.
func (r *cartRepository) GetItems(ctx context.Context, userID string) ([]model.CartItem, error) {
	query := `
		SELECT c.id, c.color, c.size, c.quantity,
		       p.id, p.name, p.slug, p.price, p.image, p.category, p.is_active
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to query cart items")
		return nil, fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	var items []model.CartItem
	for rows.Next() {
		var item model.CartItem
		err := rows.Scan(&item.ID, &item.Color, &item.Size, &item.Quantity,
			&item.Product.ID, &item.Product.Name, &item.Product.Slug,
			&item.Product.Price, &item.Product.Image, &item.Product.Category,
			&item.Product.IsActive)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan cart item row")
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating cart item rows")
		return nil, fmt.Errorf("error iterating cart items: %w", err)
	}

	return items, nil
}

// UpsertLine inserts a line or adds its quantity to the existing line for
// the same (product, colour, size). The unique index on
// (user_id, product_id, color, size) is what prevents duplicate lines.
func (r *cartRepository) UpsertLine(ctx context.Context, line *model.CartLine) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, color, size, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id, product_id, color, size)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	_, err := r.pool.Exec(ctx, query, line.ID, line.UserID, line.ProductID, line.Color, line.Size, line.Quantity, now)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", line.UserID).
			Str("product_id", line.ProductID).
			Msg("failed to upsert cart line")
		return fmt.Errorf("failed to upsert cart line: %w", err)
	}

	r.logger.Debug().
		Str("user_id", line.UserID).
		Str("product_id", line.ProductID).
		Str("color", line.Color).
		Str("size", line.Size).
		Int("quantity", line.Quantity).
		Msg("cart line upserted")

	return nil
}

// UpdateQuantity replaces the quantity of one of the user's lines.
func (r *cartRepository) UpdateQuantity(ctx context.Context, userID string, lineID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, lineID, userID, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to update cart line quantity")
		return fmt.Errorf("failed to update cart line quantity: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartLineNotFound
	}

	return nil
}

// DeleteLine removes one of the user's lines.
func (r *cartRepository) DeleteLine(ctx context.Context, userID string, lineID uuid.UUID) error {
	query := `
		DELETE FROM cart_items
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, lineID, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("line_id", lineID.String()).Msg("failed to delete cart line")
		return fmt.Errorf("failed to delete cart line: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.ErrCartLineNotFound
	}

	return nil
}

// ClearCart removes all of a user's lines within the provided transaction.
func (r *cartRepository) ClearCart(ctx context.Context, tx pgx.Tx, userID string) error {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`

	tag, err := tx.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}

	r.logger.Debug().
		Str("user_id", userID).
		Int64("lines_removed", tag.RowsAffected()).
		Msg("cart cleared")

	return nil
}
