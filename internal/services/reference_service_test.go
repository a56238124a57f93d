package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

func TestReferenceService_SeedAndRead(t *testing.T) {
	db := utils.SetupTestDB(t, "trade_mart_test_reference", "categories", "conditions")
	ctx := context.Background()

	// nil redis client: every read goes straight to mongo.
	ref := NewReferenceService(db, nil, time.Hour)

	require.NoError(t, ref.Seed(ctx))

	categories, err := ref.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, len(models.DefaultCategories))
	assert.Equal(t, "1", categories[0].ID)
	assert.Equal(t, models.DefaultCategories[0], categories[0].Name)

	conditions, err := ref.Conditions(ctx)
	require.NoError(t, err)
	require.Len(t, conditions, len(models.DefaultConditions))

	// Seeding again neither duplicates nor fails.
	require.NoError(t, ref.Seed(ctx))

	categories, err = ref.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, len(models.DefaultCategories))
}
