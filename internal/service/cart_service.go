package service

import (
	"context"

	"urban-kart/internal/model"
	"urban-kart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart returns the cart joined with live product data.
func (s *cartService) GetCart(ctx context.Context, ident model.Identity) ([]model.CartItem, error) {
	items, err := s.cartRepo.GetItems(ctx, ident.UserID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.CartItem{}
	}
	return items, nil
}

// AddLine adds a product variant to the cart after checking live stock.
func (s *cartService) AddLine(ctx context.Context, ident model.Identity, req *model.AddLineRequest) ([]model.CartItem, error) {
	if req.ProductID == "" || req.Color == "" || req.Size == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "productId, color and size are required")
	}
	if req.Quantity < 1 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	variant, err := s.productRepo.GetVariant(ctx, req.ProductID, req.Color, req.Size)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, model.ErrVariantNotFound
	}

	if variant.Stock < req.Quantity {
		s.logger.Debug().
			Str("user_id", ident.UserID).
			Str("product_id", req.ProductID).
			Int("requested", req.Quantity).
			Int("available", variant.Stock).
			Msg("add to cart rejected, not enough stock")
		return nil, &model.OutOfStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Color:     req.Color,
			Size:      req.Size,
			Requested: req.Quantity,
			Available: variant.Stock,
		}
	}

	line := &model.CartLine{
		ID:        uuid.New(),
		UserID:    ident.UserID,
		ProductID: req.ProductID,
		Color:     req.Color,
		Size:      req.Size,
		Quantity:  req.Quantity,
	}

	if err := s.cartRepo.UpsertLine(ctx, line); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", ident.UserID).
		Str("product_id", req.ProductID).
		Str("color", req.Color).
		Str("size", req.Size).
		Int("quantity", req.Quantity).
		Msg("cart line added")

	return s.GetCart(ctx, ident)
}

// UpdateLineQuantity replaces a line's quantity; zero or less removes it.
func (s *cartService) UpdateLineQuantity(ctx context.Context, ident model.Identity, lineID uuid.UUID, quantity int) ([]model.CartItem, error) {
	if quantity <= 0 {
		if err := s.cartRepo.DeleteLine(ctx, ident.UserID, lineID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, ident)
	}

	if err := s.cartRepo.UpdateQuantity(ctx, ident.UserID, lineID, quantity); err != nil {
		return nil, err
	}

	return s.GetCart(ctx, ident)
}

// RemoveLine removes a line from the cart.
func (s *cartService) RemoveLine(ctx context.Context, ident model.Identity, lineID uuid.UUID) ([]model.CartItem, error) {
	if err := s.cartRepo.DeleteLine(ctx, ident.UserID, lineID); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, ident)
}

// MergeGuestCart folds a pre-authentication local cart into the server
// cart. Entries are matched by (product, colour, size) and quantities
// summed; malformed entries and unknown products are skipped. Stock is not
// checked here: checkout re-validates every line.
func (s *cartService) MergeGuestCart(ctx context.Context, ident model.Identity, guestLines []model.GuestLine) error {
	merged := 0
	for _, g := range guestLines {
		if g.ProductID == "" || g.Color == "" || g.Size == "" {
			s.logger.Debug().
				Str("user_id", ident.UserID).
				Str("product_id", g.ProductID).
				Msg("skipping malformed guest cart entry")
			continue
		}

		quantity := g.Quantity
		if quantity < 1 {
			quantity = 1
		}

		product, err := s.productRepo.GetByID(ctx, g.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			s.logger.Debug().
				Str("user_id", ident.UserID).
				Str("product_id", g.ProductID).
				Msg("skipping guest cart entry for unknown product")
			continue
		}

		line := &model.CartLine{
			ID:        uuid.New(),
			UserID:    ident.UserID,
			ProductID: g.ProductID,
			Color:     g.Color,
			Size:      g.Size,
			Quantity:  quantity,
		}

		if err := s.cartRepo.UpsertLine(ctx, line); err != nil {
			return err
		}
		merged++
	}

	s.logger.Info().
		Str("user_id", ident.UserID).
		Int("submitted", len(guestLines)).
		Int("merged", merged).
		Msg("guest cart merged")

	return nil
}
