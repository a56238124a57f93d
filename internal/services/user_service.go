package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/karanxa1/trade-mart/internal/auth"
	"github.com/karanxa1/trade-mart/internal/config"
	"github.com/karanxa1/trade-mart/internal/db"
	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// IUserService is the user directory: account creation, authentication and
// lookup. Seller-standing flags are flipped by the admin service.
type IUserService interface {
	Register(ctx context.Context, username, email, password string, userType models.UserType) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, userID utils.SixID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Delete(ctx context.Context, userID utils.SixID) error
	SubmitVerificationRequest(ctx context.Context, sellerID utils.SixID, documentRef string) (*models.VerificationRequest, error)
}

const (
	usersCollection        = "users"
	verificationCollection = "verification_requests"
)

type userService struct {
	db  *mongo.Database
	cfg *config.Config
}

// NewUserService creates a new UserService.
func NewUserService(db *mongo.Database, cfg *config.Config) IUserService {
	return &userService{db: db, cfg: cfg}
}

// Register creates a new user with a bcrypt-hashed password. Email
// uniqueness is backed by a unique index.
func (s *userService) Register(ctx context.Context, username, email, password string, userType models.UserType) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrInvalidInput)
	}
	switch userType {
	case models.UserTypeBuyer, models.UserTypeSeller, models.UserTypeGovernment:
	default:
		return nil, fmt.Errorf("%w: unknown user type %q", ErrInvalidInput, userType)
	}
	if matched, _ := regexp.MatchString(s.cfg.PasswordRegexp, password); !matched {
		return nil, fmt.Errorf("%w: password does not meet requirements", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	collection := s.db.Collection(usersCollection)
	now := time.Now().UTC()
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Type:         userType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	operation := func() error {
		user.GenID()
		_, insertErr := collection.InsertOne(ctx, user)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil, fmt.Errorf("email %s: %w", email, ErrEmailExists)
		}
		return nil, fmt.Errorf("failed to insert user %s: %w", email, err)
	}
	return user, nil
}

// Authenticate checks credentials and refuses suspended accounts.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.Suspended {
		return nil, fmt.Errorf("user %s: %w", user.ID.String(), ErrSuspended)
	}
	return user, nil
}

// FindByID returns a user by ID.
func (s *userService) FindByID(ctx context.Context, userID utils.SixID) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"_id": userID, "deleted": false}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", userID.String(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user %s: %w", userID.String(), err)
	}
	return &user, nil
}

// FindByEmail returns a user by email.
func (s *userService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(usersCollection).FindOne(ctx, bson.M{"email": email, "deleted": false}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", email, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding user %s: %w", email, err)
	}
	return &user, nil
}

// Delete soft-deletes an account. The record stays behind for the audit
// trail; every lookup treats the account as gone.
func (s *userService) Delete(ctx context.Context, userID utils.SixID) error {
	result, err := s.db.Collection(usersCollection).UpdateOne(ctx,
		bson.M{"_id": userID, "deleted": false},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("db error deleting user %s: %w", userID.String(), err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", userID.String(), ErrNotFound)
	}
	return nil
}

// SubmitVerificationRequest files an identity-verification request for a
// seller. Only the document reference is recorded; checking the document is
// out of scope. One open request per seller.
func (s *userService) SubmitVerificationRequest(ctx context.Context, sellerID utils.SixID, documentRef string) (*models.VerificationRequest, error) {
	user, err := s.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if user.Type != models.UserTypeSeller {
		return nil, fmt.Errorf("user %s is not a seller: %w", sellerID.String(), ErrForbidden)
	}
	if user.IdentityVerified {
		return nil, fmt.Errorf("seller %s: %w", sellerID.String(), ErrAlreadyResolved)
	}

	collection := s.db.Collection(verificationCollection)
	count, err := collection.CountDocuments(ctx,
		bson.M{"seller_id": sellerID, "status": models.VerificationPending})
	if err != nil {
		return nil, fmt.Errorf("db error checking open verification requests: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("seller %s already has an open request: %w", sellerID.String(), ErrAlreadyResolved)
	}

	req := &models.VerificationRequest{
		SellerID:    sellerID,
		DocumentRef: documentRef,
		Status:      models.VerificationPending,
		CreatedAt:   time.Now().UTC(),
	}
	operation := func() error {
		req.ID = utils.NewSixID()
		_, insertErr := collection.InsertOne(ctx, req)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert verification request for seller %s: %w", sellerID.String(), err)
	}
	return req, nil
}
