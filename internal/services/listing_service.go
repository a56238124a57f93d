package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karanxa1/trade-mart/internal/db"
	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// ListingInput carries the seller-supplied fields for a new listing.
type ListingInput struct {
	Name        string
	Description string
	Price       float64
	Negotiable  bool
	CategoryID  string
	ConditionID string
	Image       string
}

// ListingFilter narrows a listing search. Zero values mean "no constraint".
type ListingFilter struct {
	Query       string
	CategoryID  string
	ConditionID string
	SellerID    *utils.SixID
	MinPrice    *float64
	MaxPrice    *float64
	SortBy      string // "newest" (default) or "price_asc" / "price_desc"
	Limit       int
}

// IListingService defines the interface for listing-related operations.
type IListingService interface {
	Create(ctx context.Context, sellerID utils.SixID, input ListingInput) (*models.Product, error)
	FindByID(ctx context.Context, listingID utils.SixID) (*models.Product, error)
	Search(ctx context.Context, filter ListingFilter) ([]models.Product, error)
	FindBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Product, error)
	FindPendingModeration(ctx context.Context, limit int) ([]models.Product, error)

	Approve(ctx context.Context, listingID, reviewerID utils.SixID) error
	Reject(ctx context.Context, listingID, reviewerID utils.SixID, reason string) error
	AdminDelete(ctx context.Context, listingID, reviewerID utils.SixID, reason string) error

	Reserve(ctx context.Context, listingID utils.SixID) error
	Release(ctx context.Context, listingID utils.SixID) error
	MarkSold(ctx context.Context, listingID utils.SixID) error
}

const listingsCollection = "products"

// listingService implements IListingService.
type listingService struct {
	db *mongo.Database
}

// NewListingService creates a new ListingService.
func NewListingService(db *mongo.Database) IListingService {
	return &listingService{db: db}
}

// Create inserts a new listing in the available/pending state.
func (s *listingService) Create(ctx context.Context, sellerID utils.SixID, input ListingInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrInvalidInput)
	}

	collection := s.db.Collection(listingsCollection)
	now := time.Now().UTC()

	var listing *models.Product
	operation := func() error {
		listing = &models.Product{
			ID:           utils.NewSixID(),
			SellerID:     sellerID,
			Name:         input.Name,
			Description:  input.Description,
			Price:        input.Price,
			Negotiable:   input.Negotiable,
			CategoryID:   input.CategoryID,
			ConditionID:  input.ConditionID,
			Image:        input.Image,
			Availability: models.AvailabilityAvailable,
			Moderation:   models.ModerationPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		_, insertErr := collection.InsertOne(ctx, listing)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert listing for seller %s: %w", sellerID.String(), err)
	}
	return listing, nil
}

// FindByID returns a listing regardless of its state. Callers that need a
// purchasable listing check Purchasable() themselves.
func (s *listingService) FindByID(ctx context.Context, listingID utils.SixID) (*models.Product, error) {
	var listing models.Product
	err := s.db.Collection(listingsCollection).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("listing %s: %w", listingID.String(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding listing %s: %w", listingID.String(), err)
	}
	return &listing, nil
}

// Search returns approved, non-deleted listings matching the filter. The
// public browse surface never shows pending, rejected or deleted listings.
func (s *listingService) Search(ctx context.Context, filter ListingFilter) ([]models.Product, error) {
	query := bson.M{
		"moderation":   models.ModerationApproved,
		"availability": bson.M{"$ne": models.AvailabilityDeleted},
	}
	if filter.Query != "" {
		query["name"] = bson.M{"$regex": filter.Query, "$options": "i"}
	}
	if filter.CategoryID != "" {
		query["category_id"] = filter.CategoryID
	}
	if filter.ConditionID != "" {
		query["condition_id"] = filter.ConditionID
	}
	if filter.SellerID != nil {
		query["seller_id"] = *filter.SellerID
	}
	if filter.MinPrice != nil || filter.MaxPrice != nil {
		price := bson.M{}
		if filter.MinPrice != nil {
			price["$gte"] = *filter.MinPrice
		}
		if filter.MaxPrice != nil {
			price["$lte"] = *filter.MaxPrice
		}
		query["price"] = price
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	opts := options.Find().SetLimit(int64(limit))
	switch filter.SortBy {
	case "price_asc":
		opts.SetSort(bson.D{{Key: "price", Value: 1}})
	case "price_desc":
		opts.SetSort(bson.D{{Key: "price", Value: -1}})
	default:
		opts.SetSort(bson.D{{Key: "created_at", Value: -1}})
	}

	cursor, err := s.db.Collection(listingsCollection).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Product
	if err = cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("failed to decode listing search results: %w", err)
	}
	return results, nil
}

// FindBySeller returns all of a seller's listings, every state included, so
// sellers see their own pending and rejected items.
func (s *listingService) FindBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(listingsCollection).Find(ctx, bson.M{"seller_id": sellerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list listings for seller %s: %w", sellerID.String(), err)
	}
	defer cursor.Close(ctx)

	var results []models.Product
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// FindPendingModeration returns the moderation queue, oldest first.
func (s *listingService) FindPendingModeration(ctx context.Context, limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 50
	}
	filter := bson.M{
		"moderation":   models.ModerationPending,
		"availability": bson.M{"$ne": models.AvailabilityDeleted},
	}
	opts := options.Find().SetLimit(int64(limit)).SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.db.Collection(listingsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending listings: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Product
	if err = cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// moderate performs the approve/reject decision. Legal only from pending.
func (s *listingService) moderate(ctx context.Context, listingID, reviewerID utils.SixID, decision models.ModerationStatus, reason string) error {
	collection := s.db.Collection(listingsCollection)
	now := time.Now().UTC()

	set := bson.M{
		"moderation":   decision,
		"moderated_by": reviewerID,
		"moderated_at": now,
		"updated_at":   now,
	}
	if decision == models.ModerationRejected {
		set["rejection_reason"] = reason
	}

	filter := bson.M{"_id": listingID, "moderation": models.ModerationPending}
	result, err := collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("db error moderating listing %s: %w", listingID.String(), err)
	}
	if result.MatchedCount == 0 {
		var listing models.Product
		checkErr := collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
		if errors.Is(checkErr, mongo.ErrNoDocuments) {
			return fmt.Errorf("listing %s: %w", listingID.String(), ErrNotFound)
		}
		if checkErr != nil {
			return fmt.Errorf("error checking listing %s: %w", listingID.String(), checkErr)
		}
		return fmt.Errorf("listing %s is %s: %w", listingID.String(), listing.Moderation, ErrAlreadyModerated)
	}
	return nil
}

// Approve marks a pending listing as approved for public visibility.
func (s *listingService) Approve(ctx context.Context, listingID, reviewerID utils.SixID) error {
	return s.moderate(ctx, listingID, reviewerID, models.ModerationApproved, "")
}

// Reject marks a pending listing as rejected with the reviewer's reason.
func (s *listingService) Reject(ctx context.Context, listingID, reviewerID utils.SixID, reason string) error {
	return s.moderate(ctx, listingID, reviewerID, models.ModerationRejected, reason)
}

// AdminDelete soft-deletes a listing by setting availability=deleted. Legal
// from any availability state; all fields are kept for the audit trail.
func (s *listingService) AdminDelete(ctx context.Context, listingID, reviewerID utils.SixID, reason string) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"availability":    models.AvailabilityDeleted,
		"deleted_by":      reviewerID,
		"deleted_at":      now,
		"deletion_reason": reason,
		"updated_at":      now,
	}}

	result, err := s.db.Collection(listingsCollection).UpdateOne(ctx, bson.M{"_id": listingID}, update)
	if err != nil {
		return fmt.Errorf("db error deleting listing %s: %w", listingID.String(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("listing %s: %w", listingID.String(), ErrNotFound)
	}
	return nil
}

// transitionAvailability performs a compare-and-swap on the availability
// field. Concurrent callers race on the filter; at most one wins.
func (s *listingService) transitionAvailability(ctx context.Context, listingID utils.SixID, filter, set bson.M) error {
	collection := s.db.Collection(listingsCollection)
	set["updated_at"] = time.Now().UTC()
	filter["_id"] = listingID

	result, err := collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("db error transitioning listing %s: %w", listingID.String(), err)
	}
	if result.MatchedCount == 0 {
		var listing models.Product
		checkErr := collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
		if errors.Is(checkErr, mongo.ErrNoDocuments) {
			return fmt.Errorf("listing %s: %w", listingID.String(), ErrNotFound)
		}
		if checkErr != nil {
			return fmt.Errorf("error checking listing %s: %w", listingID.String(), checkErr)
		}
		return fmt.Errorf("listing %s is %s/%s: %w",
			listingID.String(), listing.Availability, listing.Moderation, ErrNotAvailable)
	}
	return nil
}

// Reserve moves an approved, available listing to reserved. Used by
// checkout; a concurrent reserver loses the CAS and gets ErrNotAvailable.
func (s *listingService) Reserve(ctx context.Context, listingID utils.SixID) error {
	return s.transitionAvailability(ctx, listingID,
		bson.M{"availability": models.AvailabilityAvailable, "moderation": models.ModerationApproved},
		bson.M{"availability": models.AvailabilityReserved})
}

// Release returns a reserved listing to available (order cancelled).
func (s *listingService) Release(ctx context.Context, listingID utils.SixID) error {
	return s.transitionAvailability(ctx, listingID,
		bson.M{"availability": models.AvailabilityReserved},
		bson.M{"availability": models.AvailabilityAvailable})
}

// MarkSold finalizes a reserved listing as sold (order delivered).
func (s *listingService) MarkSold(ctx context.Context, listingID utils.SixID) error {
	return s.transitionAvailability(ctx, listingID,
		bson.M{"availability": models.AvailabilityReserved},
		bson.M{"availability": models.AvailabilitySold})
}
