package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/services"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// --- Mocks ---

// MockListingService
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Create(ctx context.Context, sellerID utils.SixID, input services.ListingInput) (*models.Product, error) {
	args := m.Called(ctx, sellerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockListingService) FindByID(ctx context.Context, listingID utils.SixID) (*models.Product, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockListingService) Search(ctx context.Context, filter services.ListingFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockListingService) FindBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Product, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockListingService) FindPendingModeration(ctx context.Context, limit int) ([]models.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockListingService) Approve(ctx context.Context, listingID, reviewerID utils.SixID) error {
	args := m.Called(ctx, listingID, reviewerID)
	return args.Error(0)
}
func (m *MockListingService) Reject(ctx context.Context, listingID, reviewerID utils.SixID, reason string) error {
	args := m.Called(ctx, listingID, reviewerID, reason)
	return args.Error(0)
}
func (m *MockListingService) AdminDelete(ctx context.Context, listingID, reviewerID utils.SixID, reason string) error {
	args := m.Called(ctx, listingID, reviewerID, reason)
	return args.Error(0)
}
func (m *MockListingService) Reserve(ctx context.Context, listingID utils.SixID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}
func (m *MockListingService) Release(ctx context.Context, listingID utils.SixID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}
func (m *MockListingService) MarkSold(ctx context.Context, listingID utils.SixID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

// MockOfferService
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Submit(ctx context.Context, buyerID, listingID utils.SixID, price float64) (*models.Offer, error) {
	args := m.Called(ctx, buyerID, listingID, price)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}
func (m *MockOfferService) Respond(ctx context.Context, offerID, sellerID utils.SixID, action services.OfferAction) (*models.Offer, error) {
	args := m.Called(ctx, offerID, sellerID, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}
func (m *MockOfferService) FindByID(ctx context.Context, offerID utils.SixID) (*models.Offer, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Offer), args.Error(1)
}
func (m *MockOfferService) ListByBuyer(ctx context.Context, buyerID utils.SixID) ([]models.Offer, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}
func (m *MockOfferService) ListBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Offer, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}
func (m *MockOfferService) ListByListing(ctx context.Context, listingID utils.SixID) ([]models.Offer, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Offer), args.Error(1)
}
func (m *MockOfferService) PendingCountForSeller(ctx context.Context, sellerID utils.SixID) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockOrderService
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) Checkout(ctx context.Context, buyerID utils.SixID, addr models.DeliveryAddress, paymentMethod string) (*services.OrderView, error) {
	args := m.Called(ctx, buyerID, addr, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OrderView), args.Error(1)
}
func (m *MockOrderService) UpdateTracking(ctx context.Context, orderID, actorID utils.SixID, next models.TrackingStatus, description string) (*models.Order, error) {
	args := m.Called(ctx, orderID, actorID, next, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderService) FindByID(ctx context.Context, orderID utils.SixID) (*services.OrderView, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OrderView), args.Error(1)
}
func (m *MockOrderService) FindByTrackingRef(ctx context.Context, trackingRef string) (*services.OrderView, error) {
	args := m.Called(ctx, trackingRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OrderView), args.Error(1)
}
func (m *MockOrderService) ListByBuyer(ctx context.Context, buyerID utils.SixID) ([]services.OrderView, error) {
	args := m.Called(ctx, buyerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.OrderView), args.Error(1)
}
func (m *MockOrderService) ListBySellerListings(ctx context.Context, sellerID utils.SixID) ([]services.OrderView, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.OrderView), args.Error(1)
}

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string, userType models.UserType) (*models.User, error) {
	args := m.Called(ctx, username, email, password, userType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) FindByID(ctx context.Context, userID utils.SixID) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserService) Delete(ctx context.Context, userID utils.SixID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserService) SubmitVerificationRequest(ctx context.Context, sellerID utils.SixID, documentRef string) (*models.VerificationRequest, error) {
	args := m.Called(ctx, sellerID, documentRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.VerificationRequest), args.Error(1)
}
