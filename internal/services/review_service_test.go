package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Create(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_review_create")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	seller := env.createSeller(t)

	review, err := env.reviews.Create(ctx, buyer.ID, seller.ID, 4, "  arrived on time  ")
	require.NoError(t, err)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "arrived on time", review.Comment)
	assert.Equal(t, buyer.ID, review.ReviewerID)
}

func TestReviewService_CreateValidation(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_review_validation")
	ctx := context.Background()
	buyer := env.createBuyer(t)
	otherBuyer := env.createBuyer(t)
	seller := env.createSeller(t)

	_, err := env.reviews.Create(ctx, buyer.ID, seller.ID, 0, "bad rating")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.reviews.Create(ctx, buyer.ID, seller.ID, 6, "bad rating")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.reviews.Create(ctx, buyer.ID, seller.ID, 3, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.reviews.Create(ctx, seller.ID, seller.ID, 3, "me reviewing me")
	assert.ErrorIs(t, err, ErrSelfDealing)

	// Only sellers can be reviewed.
	_, err = env.reviews.Create(ctx, buyer.ID, otherBuyer.ID, 3, "not a seller")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewService_SellerStats(t *testing.T) {
	env := newTestEnv(t, "trade_mart_test_review_stats")
	ctx := context.Background()
	seller := env.createSeller(t)

	// No reviews yet: zero stats, not an error.
	stats, err := env.reviews.SellerStats(ctx, seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Count)
	assert.Equal(t, 0.0, stats.MeanRating)

	ratings := []int{5, 4, 2}
	for _, r := range ratings {
		buyer := env.createBuyer(t)
		_, err := env.reviews.Create(ctx, buyer.ID, seller.ID, r, "ok")
		require.NoError(t, err)
	}

	stats, err = env.reviews.SellerStats(ctx, seller.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Count)
	assert.InDelta(t, 11.0/3.0, stats.MeanRating, 0.001)

	reviews, err := env.reviews.ListBySeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
}
