package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/themizzi/storecheck/internal/models"
	"go.uber.org/zap"
)

// CartRepository defines the interface for cart persistence
type CartRepository interface {
	CreateCart(ctx context.Context, cart *models.Cart) error
	GetCart(ctx context.Context, id string) (*models.Cart, error)
	AddItem(ctx context.Context, cartID string, item *models.CartItem) error
}

// CartService handles the fixture storefront cart
type CartService interface {
	GetOrCreateCart(ctx context.Context, cartID string) (*models.Cart, error)
	AddProduct(ctx context.Context, cartID string, product *models.NormalizedProduct) (*models.Cart, error)
	Cart(ctx context.Context, cartID string) (*models.Cart, error)
}

// CartServiceImpl implements CartService
type CartServiceImpl struct {
	cartRepo CartRepository
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, logger *zap.Logger) CartService {
	return &CartServiceImpl{
		cartRepo: cartRepo,
		logger:   logger,
	}
}

// GetOrCreateCart returns the cart stored under cartID, or a new empty cart
// when cartID is empty or unknown
func (s *CartServiceImpl) GetOrCreateCart(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID != "" {
		cart, err := s.cartRepo.GetCart(ctx, cartID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, models.ErrCartNotFound) {
			return nil, fmt.Errorf("failed to get cart: %w", err)
		}
	}

	cart := models.NewCart()
	if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.Debug("cart created", zap.String("cart_id", cart.ID))
	return cart, nil
}

// AddProduct adds product at its final price. Adding a product that is
// already in the cart leaves the cart unchanged.
func (s *CartServiceImpl) AddProduct(ctx context.Context, cartID string, product *models.NormalizedProduct) (*models.Cart, error) {
	cart, err := s.GetOrCreateCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if cart.Contains(product.SteamAppID) {
		return cart, nil
	}

	if product.PriceOverview == nil {
		return nil, fmt.Errorf("product %d has no price", product.SteamAppID)
	}

	item, err := models.NewCartItem(product.SteamAppID, product.Name,
		product.PriceOverview.Final, product.PriceOverview.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid cart item: %w", err)
	}

	if err := cart.Add(*item); err != nil {
		return nil, err
	}

	if err := s.cartRepo.AddItem(ctx, cart.ID, item); err != nil {
		return nil, fmt.Errorf("failed to add item to cart: %w", err)
	}

	s.logger.Info("item added to cart",
		zap.String("cart_id", cart.ID),
		zap.Int64("app_id", item.AppID),
		zap.Int64("price", item.Price),
		zap.String("currency", item.Currency))

	return cart, nil
}

// Cart retrieves a cart by its ID
func (s *CartServiceImpl) Cart(ctx context.Context, cartID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}
