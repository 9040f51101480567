package repository

import (
	"context"
	"fmt"

	"urban-kart/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, slug, description, price, image, category, brand, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.Image,
		&p.Category, &p.Brand, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll retrieves active products with their variants, paginated.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE is_active
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}

	return products, nil
}

// GetByID retrieves a single product with its variants.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	products := []model.Product{*p}
	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// GetBySlug retrieves a single product by its slug.
func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE slug = $1
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("slug", slug).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to query product by slug")
		return nil, fmt.Errorf("failed to query product by slug: %w", err)
	}

	products := []model.Product{*p}
	if err := r.attachVariants(ctx, products); err != nil {
		return nil, err
	}

	return &products[0], nil
}

// attachVariants loads variants for the given products in one query.
func (r *productRepository) attachVariants(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]string, len(products))
	index := make(map[string]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `
		SELECT product_id, color, size, stock
		FROM product_variants
		WHERE product_id = ANY($1)
		ORDER BY product_id, color, size
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query product variants")
		return fmt.Errorf("failed to query product variants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var productID string
		var v model.Variant
		if err := rows.Scan(&productID, &v.Color, &v.Size, &v.Stock); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan variant row")
			return fmt.Errorf("failed to scan variant: %w", err)
		}
		i := index[productID]
		products[i].Variants = append(products[i].Variants, v)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating variant rows")
		return fmt.Errorf("error iterating variants: %w", err)
	}

	return nil
}

// GetVariant retrieves one variant's current stock.
func (r *productRepository) GetVariant(ctx context.Context, productID, color, size string) (*model.Variant, error) {
	query := `
		SELECT color, size, stock
		FROM product_variants
		WHERE product_id = $1 AND color = $2 AND size = $3
	`

	var v model.Variant
	err := r.pool.QueryRow(ctx, query, productID, color, size).Scan(&v.Color, &v.Size, &v.Stock)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().
				Str("product_id", productID).
				Str("color", color).
				Str("size", size).
				Msg("variant not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to query variant")
		return nil, fmt.Errorf("failed to query variant: %w", err)
	}

	return &v, nil
}

// DecrementStock atomically decrements a variant's stock, conditioned on
// stock >= qty. Zero rows affected means the stock moved under us since the
// checkout-time availability check.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID, color, size string, qty int) error {
	query := `
		UPDATE product_variants
		SET stock = stock - $4
		WHERE product_id = $1 AND color = $2 AND size = $3 AND stock >= $4
	`

	tag, err := tx.Exec(ctx, query, productID, color, size, qty)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("product_id", productID).
			Str("color", color).
			Str("size", size).
			Int("quantity", qty).
			Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("product_id", productID).
			Str("color", color).
			Str("size", size).
			Int("quantity", qty).
			Msg("conditional stock decrement rejected")
		return model.ErrInsufficientStock
	}

	r.logger.Debug().
		Str("product_id", productID).
		Str("color", color).
		Str("size", size).
		Int("quantity", qty).
		Msg("stock decremented")

	return nil
}
