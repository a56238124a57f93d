package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/karanxa1/trade-mart/internal/config"
	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// testEnv wires the full service graph against a clean test database.
type testEnv struct {
	db       *mongo.Database
	cfg      *config.Config
	users    IUserService
	listings IListingService
	carts    ICartService
	offers   IOfferService
	orders   IOrderService
	reviews  IReviewService
	admin    IAdminService
}

func newTestEnv(t *testing.T, dbName string) *testEnv {
	db := utils.SetupTestDB(t, dbName,
		"users", "products", "carts", "offers", "orders", "order_items",
		"reviews", "suspension_activity", "verification_requests",
		"verification_activity", "categories", "conditions")

	cfg := &config.Config{
		PasswordRegexp:        "^.{8,}$",
		EstimatedDeliveryDays: 5,
	}

	users := NewUserService(db, cfg)
	listings := NewListingService(db)
	carts := NewCartService(db, listings)
	offers := NewOfferService(db, listings, users, NoopNotifier{})
	orders := NewOrderService(db, cfg, listings, carts, users, NoopNotifier{})
	reviews := NewReviewService(db, users)
	admin := NewAdminService(db, listings, users, reviews)

	return &testEnv{
		db:       db,
		cfg:      cfg,
		users:    users,
		listings: listings,
		carts:    carts,
		offers:   offers,
		orders:   orders,
		reviews:  reviews,
		admin:    admin,
	}
}

var userSeq int

func (e *testEnv) createUser(t *testing.T, userType models.UserType) *models.User {
	userSeq++
	email := fmt.Sprintf("user%d-%s@example.com", userSeq, utils.NewSixID().String())
	user, err := e.users.Register(context.Background(), fmt.Sprintf("user%d", userSeq), email, "password123", userType)
	require.NoError(t, err)
	return user
}

func (e *testEnv) createBuyer(t *testing.T) *models.User {
	return e.createUser(t, models.UserTypeBuyer)
}

func (e *testEnv) createSeller(t *testing.T) *models.User {
	return e.createUser(t, models.UserTypeSeller)
}

func (e *testEnv) createAdmin(t *testing.T) *models.User {
	return e.createUser(t, models.UserTypeGovernment)
}

// createListing creates a listing and optionally approves it.
func (e *testEnv) createListing(t *testing.T, sellerID utils.SixID, price float64, negotiable, approved bool) *models.Product {
	listing, err := e.listings.Create(context.Background(), sellerID, ListingInput{
		Name:       "Test Item " + utils.NewSixID().String(),
		Price:      price,
		Negotiable: negotiable,
	})
	require.NoError(t, err)

	if approved {
		admin := e.createAdmin(t)
		require.NoError(t, e.listings.Approve(context.Background(), listing.ID, admin.ID))
		listing, err = e.listings.FindByID(context.Background(), listing.ID)
		require.NoError(t, err)
	}
	return listing
}
