package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karanxa1/trade-mart/internal/models"
)

// EnsureIndexes creates the indexes the services rely on. Safe to call on
// every startup; Mongo treats existing identical indexes as a no-op.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	type spec struct {
		collection string
		models     []mongo.IndexModel
	}

	specs := []spec{
		{
			collection: "users",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "email", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			collection: "products",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "seller_id", Value: 1}}},
				{Keys: bson.D{{Key: "availability", Value: 1}, {Key: "moderation", Value: 1}}},
			},
		},
		{
			collection: "carts",
			models: []mongo.IndexModel{
				{
					// One entry per (buyer, listing); adds merge via upsert.
					Keys:    bson.D{{Key: "buyer_id", Value: 1}, {Key: "listing_id", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
			},
		},
		{
			collection: "offers",
			models: []mongo.IndexModel{
				{
					// At most one pending offer per (listing, buyer).
					Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "buyer_id", Value: 1}},
					Options: options.Index().
						SetUnique(true).
						SetPartialFilterExpression(bson.M{"status": models.OfferPending}),
				},
				{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "created_at", Value: -1}}},
				{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "status", Value: 1}}},
			},
		},
		{
			collection: "orders",
			models: []mongo.IndexModel{
				{
					Keys:    bson.D{{Key: "tracking_ref", Value: 1}},
					Options: options.Index().SetUnique(true),
				},
				{Keys: bson.D{{Key: "buyer_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "order_items",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "order_id", Value: 1}}},
				{Keys: bson.D{{Key: "listing_id", Value: 1}}},
			},
		},
		{
			collection: "reviews",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "seller_id", Value: 1}}},
			},
		},
		{
			collection: "suspension_activity",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "seller_id", Value: 1}, {Key: "created_at", Value: -1}}},
			},
		},
		{
			collection: "verification_requests",
			models: []mongo.IndexModel{
				{Keys: bson.D{{Key: "status", Value: 1}}},
			},
		},
	}

	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateMany(ctx, s.models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", s.collection, err)
		}
	}
	return nil
}
