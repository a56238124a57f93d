package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

func TestOfferService_Submit(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_offer_submit")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 100, true, true)

	offer, err := env.offers.Submit(ctx, buyer.ID, listing.ID, 80)
	require.NoError(t, err)
	assert.Equal(t, models.OfferPending, offer.Status)
	assert.Equal(t, 80.0, offer.Price)
	assert.Equal(t, seller.ID, offer.SellerID)
}

func TestOfferService_SubmitValidation(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_offer_validation")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)

	_, err := env.offers.Submit(ctx, buyer.ID, utils.NewSixID(), 50)
	assert.ErrorIs(t, err, ErrNotFound)

	pending := env.createListing(t, seller.ID, 100, true, false)
	_, err = env.offers.Submit(ctx, buyer.ID, pending.ID, 50)
	assert.ErrorIs(t, err, ErrNotAvailable)

	fixed := env.createListing(t, seller.ID, 100, false, true)
	_, err = env.offers.Submit(ctx, buyer.ID, fixed.ID, 50)
	assert.ErrorIs(t, err, ErrNotNegotiable)

	negotiable := env.createListing(t, seller.ID, 100, true, true)

	_, err = env.offers.Submit(ctx, seller.ID, negotiable.ID, 50)
	assert.ErrorIs(t, err, ErrSelfDealing)

	// Offers must undercut the asking price and be positive.
	_, err = env.offers.Submit(ctx, buyer.ID, negotiable.ID, 100)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = env.offers.Submit(ctx, buyer.ID, negotiable.ID, 150)
	assert.ErrorIs(t, err, ErrInvalidPrice)
	_, err = env.offers.Submit(ctx, buyer.ID, negotiable.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestOfferService_ResubmitRevisesInPlace(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_offer_revise")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 100, true, true)

	first, err := env.offers.Submit(ctx, buyer.ID, listing.ID, 60)
	require.NoError(t, err)

	second, err := env.offers.Submit(ctx, buyer.ID, listing.ID, 75)
	require.NoError(t, err)

	// Same pending offer, new price.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 75.0, second.Price)

	all, err := env.offers.ListByListing(ctx, listing.ID)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOfferService_Reject(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_offer_reject")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 100, true, true)

	offer, err := env.offers.Submit(ctx, buyer.ID, listing.ID, 60)
	require.NoError(t, err)

	rejected, err := env.offers.Respond(ctx, offer.ID, seller.ID, OfferActionReject)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, rejected.Status)
	assert.NotNil(t, rejected.RespondedAt)

	// The listing keeps its price and stays purchasable.
	found, err := env.listings.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, found.Price)
	assert.True(t, found.Purchasable())

	// A resolved offer cannot be decided again.
	_, err = env.offers.Respond(ctx, offer.ID, seller.ID, OfferActionAccept)
	assert.ErrorIs(t, err, ErrAlreadyResolved)

	// After rejection the buyer is free to offer again.
	fresh, err := env.offers.Submit(ctx, buyer.ID, listing.ID, 70)
	require.NoError(t, err)
	assert.NotEqual(t, offer.ID, fresh.ID)
}

func TestOfferService_AcceptCascade(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_offer_accept")
	ctx := context.Background()
	buyerA := env.createBuyer(t)
	buyerB := env.createBuyer(t)
	seller := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 100, true, true)

	offerA, err := env.offers.Submit(ctx, buyerA.ID, listing.ID, 85)
	require.NoError(t, err)
	offerB, err := env.offers.Submit(ctx, buyerB.ID, listing.ID, 70)
	require.NoError(t, err)

	accepted, err := env.offers.Respond(ctx, offerA.ID, seller.ID, OfferActionAccept)
	require.NoError(t, err)
	assert.Equal(t, models.OfferAccepted, accepted.Status)

	// The losing sibling is rejected in the same transaction.
	sibling, err := env.offers.FindByID(ctx, offerB.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OfferRejected, sibling.Status)

	// The listing takes the accepted price.
	found, err := env.listings.FindByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 85.0, found.Price)
}

func TestOfferService_RespondAuthorization(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_offer_authz")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	intruder := env.createSeller(t)
	listing := env.createListing(t, seller.ID, 100, true, true)

	offer, err := env.offers.Submit(ctx, buyer.ID, listing.ID, 60)
	require.NoError(t, err)

	_, err = env.offers.Respond(ctx, offer.ID, intruder.ID, OfferActionAccept)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = env.offers.Respond(ctx, offer.ID, seller.ID, OfferAction("maybe"))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.offers.Respond(ctx, utils.NewSixID(), seller.ID, OfferActionAccept)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOfferService_ListsAndPendingCount(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_offer_lists")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)
	first := env.createListing(t, seller.ID, 100, true, true)
	second := env.createListing(t, seller.ID, 50, true, true)

	offer, err := env.offers.Submit(ctx, buyer.ID, first.ID, 80)
	require.NoError(t, err)
	_, err = env.offers.Submit(ctx, buyer.ID, second.ID, 40)
	require.NoError(t, err)

	byBuyer, err := env.offers.ListByBuyer(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Len(t, byBuyer, 2)

	bySeller, err := env.offers.ListBySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Len(t, bySeller, 2)

	count, err := env.offers.PendingCountForSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = env.offers.Respond(ctx, offer.ID, seller.ID, OfferActionReject)
	require.NoError(t, err)

	count, err = env.offers.PendingCountForSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
