package service

import (
	"context"

	"urban-kart/internal/model"
	"urban-kart/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultProductLimit = 50
	maxProductLimit     = 200
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves active products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit < 1 || limit > maxProductLimit {
		limit = defaultProductLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// GetBySlug retrieves a single product by slug, or nil if unknown.
func (s *productService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.productRepo.GetBySlug(ctx, slug)
}
