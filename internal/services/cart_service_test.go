package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karanxa1/trade-mart/internal/utils"
)

func TestCartService_AddAndList(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_cart_add")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 10, false, true)

	entry, err := env.carts.Add(ctx, buyer.ID, listing.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, entry.Quantity)

	items, err := env.carts.ListForBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, listing.ID, items[0].Listing.ID)
	assert.Equal(t, 2, items[0].Entry.Quantity)
}

func TestCartService_AddMergesQuantity(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_cart_merge")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 10, false, true)

	_, err := env.carts.Add(ctx, buyer.ID, listing.ID, 1)
	require.NoError(t, err)

	// Re-adding the same listing increments, it does not create a second row.
	entry, err := env.carts.Add(ctx, buyer.ID, listing.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Quantity)

	items, err := env.carts.ListForBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCartService_AddValidation(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_cart_add_validation")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)

	_, err := env.carts.Add(ctx, buyer.ID, utils.NewSixID(), 1)
	assert.ErrorIs(t, err, ErrNotFound)

	pending := env.createListing(t, seller.ID, 10, false, false)
	_, err = env.carts.Add(ctx, buyer.ID, pending.ID, 1)
	assert.ErrorIs(t, err, ErrNotAvailable)

	approved := env.createListing(t, seller.ID, 10, false, true)
	_, err = env.carts.Add(ctx, buyer.ID, approved.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Sellers cannot add their own listing.
	_, err = env.carts.Add(ctx, seller.ID, approved.ID, 1)
	assert.ErrorIs(t, err, ErrSelfDealing)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_cart_update_qty")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 10, false, true)

	_, err := env.carts.Add(ctx, buyer.ID, listing.ID, 1)
	require.NoError(t, err)

	require.NoError(t, env.carts.UpdateQuantity(ctx, buyer.ID, listing.ID, 5))

	items, err := env.carts.ListForBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Entry.Quantity)

	assert.ErrorIs(t, env.carts.UpdateQuantity(ctx, buyer.ID, listing.ID, 0), ErrInvalidInput)
	assert.ErrorIs(t, env.carts.UpdateQuantity(ctx, buyer.ID, utils.NewSixID(), 2), ErrNotFound)
}

func TestCartService_RemoveAndClear(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_cart_remove")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	first := env.createListing(t, seller.ID, 10, false, true)
	second := env.createListing(t, seller.ID, 20, false, true)

	_, err := env.carts.Add(ctx, buyer.ID, first.ID, 1)
	require.NoError(t, err)
	_, err = env.carts.Add(ctx, buyer.ID, second.ID, 1)
	require.NoError(t, err)

	require.NoError(t, env.carts.Remove(ctx, buyer.ID, first.ID))

	items, err := env.carts.ListForBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].Listing.ID)

	assert.ErrorIs(t, env.carts.Remove(ctx, buyer.ID, first.ID), ErrNotFound)

	// Clear always succeeds, even on an already empty cart.
	require.NoError(t, env.carts.Clear(ctx, buyer.ID))
	require.NoError(t, env.carts.Clear(ctx, buyer.ID))

	items, err = env.carts.ListForBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_CartsAreIsolatedPerBuyer(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_cart_isolation")
	ctx := context.Background()
	buyerA := env.createBuyer(t)
	buyerB := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 10, false, true)

	_, err := env.carts.Add(ctx, buyerA.ID, listing.ID, 1)
	require.NoError(t, err)

	items, err := env.carts.ListForBuyer(ctx, buyerB.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
