package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CartItem is one product line in a fixture storefront cart
type CartItem struct {
	ID       string
	AppID    int64
	Name     string
	Price    int64 // final price in minor units
	Currency string
	AddedAt  time.Time
}

// Cart represents a visitor's shopping cart in the fixture storefront
type Cart struct {
	ID        string
	Currency  string
	Items     []CartItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain errors
var (
	ErrInvalidPrice       = errors.New("item price cannot be negative")
	ErrInvalidCurrency    = errors.New("currency code must be 3 characters")
	ErrInvalidProductName = errors.New("product name cannot be empty")
	ErrInvalidAppID       = errors.New("app id must be positive")
	ErrCurrencyMismatch   = errors.New("item currency does not match cart currency")
	ErrDuplicateItem      = errors.New("item is already in the cart")
	ErrCartNotFound       = errors.New("cart not found")
	ErrProductNotFound    = errors.New("product not found")
)

// NewCart creates an empty cart with a fresh ID
func NewCart() *Cart {
	now := time.Now()
	return &Cart{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewCartItem creates a validated cart line
func NewCartItem(appID int64, name string, price int64, currency string) (*CartItem, error) {
	if err := validateItemInput(appID, name, price, currency); err != nil {
		return nil, err
	}

	return &CartItem{
		ID:       uuid.New().String(),
		AppID:    appID,
		Name:     name,
		Price:    price,
		Currency: currency,
		AddedAt:  time.Now(),
	}, nil
}

// validateItemInput validates cart line parameters
func validateItemInput(appID int64, name string, price int64, currency string) error {
	if appID <= 0 {
		return ErrInvalidAppID
	}
	if name == "" {
		return ErrInvalidProductName
	}
	if price < 0 {
		return ErrInvalidPrice
	}
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	return nil
}

// Add appends an item. The first item fixes the cart currency.
func (c *Cart) Add(item CartItem) error {
	if c.Contains(item.AppID) {
		return fmt.Errorf("%w: app %d", ErrDuplicateItem, item.AppID)
	}
	if c.Currency == "" {
		c.Currency = item.Currency
	} else if c.Currency != item.Currency {
		return fmt.Errorf("%w: cart is %s, item is %s", ErrCurrencyMismatch, c.Currency, item.Currency)
	}

	c.Items = append(c.Items, item)
	c.UpdatedAt = time.Now()
	return nil
}

// Contains returns true if the app is already in the cart
func (c *Cart) Contains(appID int64) bool {
	for _, item := range c.Items {
		if item.AppID == appID {
			return true
		}
	}
	return false
}

// IsEmpty returns true if the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total returns the sum of item prices in minor units
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price
	}
	return total
}
