package repository

import (
	"context"
	"sync"
	"time"

	"github.com/themizzi/storecheck/internal/models"
)

// MemoryCartRepository keeps carts in process memory. The fixture storefront
// uses it when no Postgres database is configured.
type MemoryCartRepository struct {
	mu    sync.Mutex
	carts map[string]*models.Cart
}

// NewMemoryCartRepository creates an empty in-memory cart repository
func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: map[string]*models.Cart{}}
}

// CreateCart stores a copy of cart
func (r *MemoryCartRepository) CreateCart(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	stored := *cart
	stored.Items = append([]models.CartItem(nil), cart.Items...)
	r.carts[cart.ID] = &stored
	return nil
}

// GetCart returns a copy of the stored cart
func (r *MemoryCartRepository) GetCart(_ context.Context, id string) (*models.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.carts[id]
	if !ok {
		return nil, models.ErrCartNotFound
	}
	cart := *stored
	cart.Items = append([]models.CartItem(nil), stored.Items...)
	return &cart, nil
}

// AddItem appends item to the stored cart
func (r *MemoryCartRepository) AddItem(_ context.Context, cartID string, item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.carts[cartID]
	if !ok {
		return models.ErrCartNotFound
	}
	stored.Items = append(stored.Items, *item)
	stored.Currency = item.Currency
	stored.UpdatedAt = time.Now()
	return nil
}
