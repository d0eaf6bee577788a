package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/themizzi/storecheck/internal/models"
)

func TestMemoryCartRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository()

	// GIVEN a stored cart
	cart := models.NewCart()
	require.NoError(t, repo.CreateCart(ctx, cart))
	assert.False(t, cart.CreatedAt.IsZero())

	// WHEN two items are added
	for _, item := range []struct {
		appID int64
		name  string
		price int64
	}{
		{427520, "Factorio", 3500},
		{648800, "Raft", 1199},
	} {
		line, err := models.NewCartItem(item.appID, item.name, item.price, "EUR")
		require.NoError(t, err)
		require.NoError(t, repo.AddItem(ctx, cart.ID, line))
	}

	// THEN the cart reads back with both, in order
	got, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, int64(427520), got.Items[0].AppID)
	assert.Equal(t, int64(648800), got.Items[1].AppID)
	assert.Equal(t, "EUR", got.Currency)
	assert.Equal(t, int64(4699), got.Total())
}

func TestMemoryCartRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository()
	cart := models.NewCart()
	require.NoError(t, repo.CreateCart(ctx, cart))

	got, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	got.Items = append(got.Items, models.CartItem{AppID: 1})

	again, err := repo.GetCart(ctx, cart.ID)
	require.NoError(t, err)
	assert.Empty(t, again.Items)
}

func TestMemoryCartRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryCartRepository()

	_, err := repo.GetCart(ctx, "missing")
	if !errors.Is(err, models.ErrCartNotFound) {
		t.Errorf("Expected ErrCartNotFound, got %v", err)
	}

	item, err := models.NewCartItem(427520, "Factorio", 3500, "EUR")
	require.NoError(t, err)
	err = repo.AddItem(ctx, "missing", item)
	if !errors.Is(err, models.ErrCartNotFound) {
		t.Errorf("Expected ErrCartNotFound, got %v", err)
	}
}
