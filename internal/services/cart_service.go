package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karanxa1/trade-mart/internal/db"
	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// CartItem pairs a cart entry with its listing for display.
type CartItem struct {
	Entry   models.CartEntry `json:"entry"`
	Listing models.Product   `json:"listing"`
}

// ICartService defines the interface for cart operations.
type ICartService interface {
	Add(ctx context.Context, buyerID, listingID utils.SixID, qty int) (*models.CartEntry, error)
	UpdateQuantity(ctx context.Context, buyerID, listingID utils.SixID, qty int) error
	Remove(ctx context.Context, buyerID, listingID utils.SixID) error
	Clear(ctx context.Context, buyerID utils.SixID) error
	ListForBuyer(ctx context.Context, buyerID utils.SixID) ([]CartItem, error)
}

const cartsCollection = "carts"

type cartService struct {
	db       *mongo.Database
	listings IListingService
}

// NewCartService creates a new CartService.
func NewCartService(db *mongo.Database, listings IListingService) ICartService {
	return &cartService{db: db, listings: listings}
}

// Add puts a listing in the buyer's cart. A repeat add for the same listing
// merges quantities instead of creating a second entry.
func (s *cartService) Add(ctx context.Context, buyerID, listingID utils.SixID, qty int) (*models.CartEntry, error) {
	if qty < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	listing, err := s.listings.FindByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.Purchasable() {
		return nil, fmt.Errorf("listing %s: %w", listingID.String(), ErrNotAvailable)
	}
	if listing.SellerID == buyerID {
		return nil, fmt.Errorf("listing %s: %w", listingID.String(), ErrSelfDealing)
	}

	collection := s.db.Collection(cartsCollection)
	now := time.Now().UTC()
	filter := bson.M{"buyer_id": buyerID, "listing_id": listingID}

	// Merge first; insert only when nothing matched. Concurrent inserts race
	// on the unique (buyer_id, listing_id) index, resolved by db.Try.
	result, err := collection.UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"quantity": qty},
		"$set": bson.M{"updated_at": now},
	})
	if err != nil {
		return nil, fmt.Errorf("db error adding to cart for buyer %s: %w", buyerID.String(), err)
	}
	if result.MatchedCount == 0 {
		entry := &models.CartEntry{
			BuyerID:   buyerID,
			ListingID: listingID,
			Quantity:  qty,
			CreatedAt: now,
			UpdatedAt: now,
		}
		operation := func() error {
			entry.ID = utils.NewSixID()
			_, insertErr := collection.InsertOne(ctx, entry)
			if db.IsMongoDuplicateKeyError(insertErr) {
				// Lost the insert race on (buyer, listing); merge instead.
				_, mergeErr := collection.UpdateOne(ctx, filter, bson.M{
					"$inc": bson.M{"quantity": qty},
					"$set": bson.M{"updated_at": now},
				})
				return mergeErr
			}
			return insertErr
		}
		if err := db.Try(operation); err != nil {
			return nil, fmt.Errorf("failed to insert cart entry for buyer %s: %w", buyerID.String(), err)
		}
	}

	var current models.CartEntry
	if err := collection.FindOne(ctx, filter).Decode(&current); err != nil {
		return nil, fmt.Errorf("failed to read back cart entry: %w", err)
	}
	return &current, nil
}

// UpdateQuantity replaces the quantity of an existing entry.
func (s *cartService) UpdateQuantity(ctx context.Context, buyerID, listingID utils.SixID, qty int) error {
	if qty < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}
	result, err := s.db.Collection(cartsCollection).UpdateOne(ctx,
		bson.M{"buyer_id": buyerID, "listing_id": listingID},
		bson.M{"$set": bson.M{"quantity": qty, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("db error updating cart quantity: %w", err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("cart entry for listing %s: %w", listingID.String(), ErrNotFound)
	}
	return nil
}

// Remove deletes one entry from the buyer's cart.
func (s *cartService) Remove(ctx context.Context, buyerID, listingID utils.SixID) error {
	result, err := s.db.Collection(cartsCollection).DeleteOne(ctx,
		bson.M{"buyer_id": buyerID, "listing_id": listingID})
	if err != nil {
		return fmt.Errorf("db error removing cart entry: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("cart entry for listing %s: %w", listingID.String(), ErrNotFound)
	}
	return nil
}

// Clear drains the buyer's entire cart. Clearing an empty cart is not an
// error.
func (s *cartService) Clear(ctx context.Context, buyerID utils.SixID) error {
	_, err := s.db.Collection(cartsCollection).DeleteMany(ctx, bson.M{"buyer_id": buyerID})
	if err != nil {
		return fmt.Errorf("db error clearing cart for buyer %s: %w", buyerID.String(), err)
	}
	return nil
}

// ListForBuyer returns the cart with each entry's listing attached. Entries
// whose listing has since vanished are skipped.
func (s *cartService) ListForBuyer(ctx context.Context, buyerID utils.SixID) ([]CartItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.db.Collection(cartsCollection).Find(ctx, bson.M{"buyer_id": buyerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error listing cart for buyer %s: %w", buyerID.String(), err)
	}
	defer cursor.Close(ctx)

	var entries []models.CartEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}

	items := make([]CartItem, 0, len(entries))
	for _, entry := range entries {
		listing, err := s.listings.FindByID(ctx, entry.ListingID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, CartItem{Entry: entry, Listing: *listing})
	}
	return items, nil
}
