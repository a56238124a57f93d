package services

import (
	"context"
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

// SellerStats is the on-demand review aggregate for a seller.
type SellerStats struct {
	MeanRating float64 `json:"mean_rating"`
	Count      int64   `json:"count"`
}

// IReviewService defines buyer reviews of sellers.
type IReviewService interface {
	Create(ctx context.Context, reviewerID, sellerID utils.SixID, rating int, comment string) (*models.Review, error)
	ListBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Review, error)
	SellerStats(ctx context.Context, sellerID utils.SixID) (*SellerStats, error)
}

const reviewsCollection = "reviews"

type reviewService struct {
	db    *mongo.Database
	users IUserService
}

// NewReviewService creates a new ReviewService.
func NewReviewService(db *mongo.Database, users IUserService) IReviewService {
	return &reviewService{db: db, users: users}
}

// Create records a 1-5 rating of a seller.
func (s *reviewService) Create(ctx context.Context, reviewerID, sellerID utils.SixID, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	if strings.TrimSpace(comment) == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrInvalidInput)
	}
	if reviewerID == sellerID {
		return nil, fmt.Errorf("cannot review yourself: %w", ErrSelfDealing)
	}

	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Type != models.UserTypeSeller {
		return nil, fmt.Errorf("user %s is not a seller: %w", sellerID.String(), ErrInvalidInput)
	}

	review := &models.Review{
		SellerID:   sellerID,
		ReviewerID: reviewerID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
		CreatedAt:  time.Now().UTC(),
	}
	operation := func() error {
		review.ID = utils.NewSixID()
		_, insertErr := s.db.Collection(reviewsCollection).InsertOne(ctx, review)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert review for seller %s: %w", sellerID.String(), err)
	}
	return review, nil
}

// ListBySeller returns a seller's reviews, newest first.
func (s *reviewService) ListBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(reviewsCollection).Find(ctx, bson.M{"seller_id": sellerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error listing reviews for seller %s: %w", sellerID.String(), err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err = cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// SellerStats computes the mean rating and count with an aggregation. Not
// incrementally maintained; the review volume does not warrant it.
func (s *reviewService) SellerStats(ctx context.Context, sellerID utils.SixID) (*SellerStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"seller_id": sellerID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"mean":  bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := s.db.Collection(reviewsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("db error aggregating reviews for seller %s: %w", sellerID.String(), err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Mean  float64 `bson:"mean"`
		Count int64   `bson:"count"`
	}
	if err = cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &SellerStats{}, nil
	}
	return &SellerStats{MeanRating: rows[0].Mean, Count: rows[0].Count}, nil
}
