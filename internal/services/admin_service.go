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

// SellerStandingView is the admin's derived picture of a seller: the
// current flags plus the review aggregate computed on demand.
type SellerStandingView struct {
	Seller           models.User `json:"seller"`
	Suspended        bool        `json:"suspended"`
	IdentityVerified bool        `json:"identity_verified"`
	MeanRating       float64     `json:"mean_rating"`
	ReviewCount      int64       `json:"review_count"`
}

// IAdminService is the moderation authority: listing decisions, seller
// standing and verification resolution. Role checks happen at the API
// boundary; these operations only record the acting administrator.
type IAdminService interface {
	ApproveListing(ctx context.Context, listingID, adminID utils.SixID) error
	RejectListing(ctx context.Context, listingID, adminID utils.SixID, reason string) error
	DeleteListing(ctx context.Context, listingID, adminID utils.SixID, reason string) error
	PendingListings(ctx context.Context, limit int) ([]models.Product, error)

	SuspendSeller(ctx context.Context, sellerID, adminID utils.SixID, reason string) error
	UnsuspendSeller(ctx context.Context, sellerID, adminID utils.SixID) error

	ApproveVerification(ctx context.Context, verificationID, adminID utils.SixID) error
	RejectVerification(ctx context.Context, verificationID, adminID utils.SixID, reason string) error
	PendingVerifications(ctx context.Context, limit int) ([]models.VerificationRequest, error)

	SellerStanding(ctx context.Context, sellerID utils.SixID) (*SellerStandingView, error)
}

const (
	suspensionActivityCollection   = "suspension_activity"
	verificationActivityCollection = "verification_activity"
)

type adminService struct {
	db       *mongo.Database
	listings IListingService
	users    IUserService
	reviews  IReviewService
}

// NewAdminService creates a new AdminService.
func NewAdminService(db *mongo.Database, listings IListingService, users IUserService, reviews IReviewService) IAdminService {
	return &adminService{db: db, listings: listings, users: users, reviews: reviews}
}

// ApproveListing approves a pending listing.
func (s *adminService) ApproveListing(ctx context.Context, listingID, adminID utils.SixID) error {
	return s.listings.Approve(ctx, listingID, adminID)
}

// RejectListing rejects a pending listing with a reason.
func (s *adminService) RejectListing(ctx context.Context, listingID, adminID utils.SixID, reason string) error {
	return s.listings.Reject(ctx, listingID, adminID, reason)
}

// DeleteListing soft-deletes a listing from any state.
func (s *adminService) DeleteListing(ctx context.Context, listingID, adminID utils.SixID, reason string) error {
	return s.listings.AdminDelete(ctx, listingID, adminID, reason)
}

// PendingListings returns the moderation queue.
func (s *adminService) PendingListings(ctx context.Context, limit int) ([]models.Product, error) {
	return s.listings.FindPendingModeration(ctx, limit)
}

// recordSuspensionActivity appends one row to the suspension history.
func (s *adminService) recordSuspensionActivity(ctx context.Context, sellerID, actorID utils.SixID, action, reason string) error {
	activity := &models.SuspensionActivity{
		SellerID:  sellerID,
		ActorID:   actorID,
		Action:    action,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	operation := func() error {
		activity.ID = utils.NewSixID()
		_, insertErr := s.db.Collection(suspensionActivityCollection).InsertOne(ctx, activity)
		return insertErr
	}
	return db.Try(operation)
}

// SuspendSeller flips the seller's suspended flag and records the action.
func (s *adminService) SuspendSeller(ctx context.Context, sellerID, adminID utils.SixID, reason string) error {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller.Type != models.UserTypeSeller {
		return fmt.Errorf("user %s is not a seller: %w", sellerID.String(), ErrForbidden)
	}

	now := time.Now().UTC()
	result, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": sellerID, "suspended": false},
		bson.M{"$set": bson.M{
			"suspended":      true,
			"suspend_reason": reason,
			"suspended_at":   now,
			"suspended_by":   adminID,
			"updated_at":     now,
		}})
	if err != nil {
		return fmt.Errorf("db error suspending seller %s: %w", sellerID.String(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("seller %s is already suspended: %w", sellerID.String(), ErrAlreadyResolved)
	}

	if err := s.recordSuspensionActivity(ctx, sellerID, adminID, models.ActivitySuspend, reason); err != nil {
		return fmt.Errorf("failed to record suspension activity for seller %s: %w", sellerID.String(), err)
	}
	return nil
}

// UnsuspendSeller clears the suspension and records the action.
func (s *adminService) UnsuspendSeller(ctx context.Context, sellerID, adminID utils.SixID) error {
	now := time.Now().UTC()
	result, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": sellerID, "suspended": true},
		bson.M{
			"$set":   bson.M{"suspended": false, "updated_at": now},
			"$unset": bson.M{"suspend_reason": "", "suspended_at": "", "suspended_by": ""},
		})
	if err != nil {
		return fmt.Errorf("db error unsuspending seller %s: %w", sellerID.String(), err)
	}
	if result.MatchedCount == 0 {
		var seller models.User
		checkErr := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": sellerID}).Decode(&seller)
		if errors.Is(checkErr, mongo.ErrNoDocuments) {
			return fmt.Errorf("seller %s: %w", sellerID.String(), ErrNotFound)
		}
		return fmt.Errorf("seller %s is not suspended: %w", sellerID.String(), ErrAlreadyResolved)
	}

	if err := s.recordSuspensionActivity(ctx, sellerID, adminID, models.ActivityUnsuspend, ""); err != nil {
		return fmt.Errorf("failed to record unsuspension activity for seller %s: %w", sellerID.String(), err)
	}
	return nil
}

// resolveVerification settles a pending verification request.
func (s *adminService) resolveVerification(ctx context.Context, verificationID, adminID utils.SixID, decision models.VerificationStatus, reason string) error {
	collection := s.db.Collection(verificationCollection)

	var req models.VerificationRequest
	err := collection.FindOne(ctx, bson.M{"_id": verificationID}).Decode(&req)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("verification request %s: %w", verificationID.String(), ErrNotFound)
		}
		return fmt.Errorf("error finding verification request %s: %w", verificationID.String(), err)
	}

	now := time.Now().UTC()
	set := bson.M{
		"status":      decision,
		"resolved_at": now,
		"resolved_by": adminID,
	}
	if decision == models.VerificationRejected {
		set["reject_reason"] = reason
	}
	result, err := collection.UpdateOne(ctx,
		bson.M{"_id": verificationID, "status": models.VerificationPending},
		bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("db error resolving verification request %s: %w", verificationID.String(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("verification request %s is %s: %w", verificationID.String(), req.Status, ErrAlreadyResolved)
	}

	if decision == models.VerificationApproved {
		_, err = s.db.Collection(usersCollection).UpdateOne(ctx,
			bson.M{"_id": req.SellerID},
			bson.M{"$set": bson.M{"identity_verified": true, "updated_at": now}})
		if err != nil {
			return fmt.Errorf("db error marking seller %s verified: %w", req.SellerID.String(), err)
		}
	}

	action := models.ActivityApprove
	if decision == models.VerificationRejected {
		action = models.ActivityReject
	}
	activity := &models.VerificationActivity{
		SellerID:  req.SellerID,
		ActorID:   adminID,
		Action:    action,
		Reason:    reason,
		CreatedAt: now,
	}
	operation := func() error {
		activity.ID = utils.NewSixID()
		_, insertErr := s.db.Collection(verificationActivityCollection).InsertOne(ctx, activity)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return fmt.Errorf("failed to record verification activity for seller %s: %w", req.SellerID.String(), err)
	}
	return nil
}

// ApproveVerification resolves a request and marks the seller verified.
func (s *adminService) ApproveVerification(ctx context.Context, verificationID, adminID utils.SixID) error {
	return s.resolveVerification(ctx, verificationID, adminID, models.VerificationApproved, "")
}

// RejectVerification resolves a request with a rejection reason.
func (s *adminService) RejectVerification(ctx context.Context, verificationID, adminID utils.SixID, reason string) error {
	return s.resolveVerification(ctx, verificationID, adminID, models.VerificationRejected, reason)
}

// PendingVerifications returns open verification requests, oldest first.
func (s *adminService) PendingVerifications(ctx context.Context, limit int) ([]models.VerificationRequest, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}).SetLimit(int64(limit))
	cursor, err := s.db.Collection(verificationCollection).Find(ctx,
		bson.M{"status": models.VerificationPending}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error listing pending verifications: %w", err)
	}
	defer cursor.Close(ctx)

	var requests []models.VerificationRequest
	if err = cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// SellerStanding assembles the derived standing view for one seller.
func (s *adminService) SellerStanding(ctx context.Context, sellerID utils.SixID) (*SellerStandingView, error) {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.reviews.SellerStats(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return &SellerStandingView{
		Seller:           *seller,
		Suspended:        seller.Suspended,
		IdentityVerified: seller.IdentityVerified,
		MeanRating:       stats.MeanRating,
		ReviewCount:      stats.Count,
	}, nil
}
