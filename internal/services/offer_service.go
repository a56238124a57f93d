package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karanxa1/trade-mart/internal/db"
	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// OfferAction is the seller's decision on a pending offer.
type OfferAction string

const (
	OfferActionAccept OfferAction = "accept"
	OfferActionReject OfferAction = "reject"
)

// IOfferService defines the interface for offer negotiation.
type IOfferService interface {
	Submit(ctx context.Context, buyerID, listingID utils.SixID, price float64) (*models.Offer, error)
	Respond(ctx context.Context, offerID, sellerID utils.SixID, action OfferAction) (*models.Offer, error)
	FindByID(ctx context.Context, offerID utils.SixID) (*models.Offer, error)
	ListByBuyer(ctx context.Context, buyerID utils.SixID) ([]models.Offer, error)
	ListBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Offer, error)
	ListByListing(ctx context.Context, listingID utils.SixID) ([]models.Offer, error)
	PendingCountForSeller(ctx context.Context, sellerID utils.SixID) (int64, error)
}

const offersCollection = "offers"

type offerService struct {
	db       *mongo.Database
	listings IListingService
	users    IUserService
	notifier Notifier
}

// NewOfferService creates a new OfferService.
func NewOfferService(db *mongo.Database, listings IListingService, users IUserService, notifier Notifier) IOfferService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &offerService{db: db, listings: listings, users: users, notifier: notifier}
}

// Submit places or revises an offer on a negotiable listing. A buyer holds
// at most one pending offer per listing; resubmitting replaces the price.
func (s *offerService) Submit(ctx context.Context, buyerID, listingID utils.SixID, price float64) (*models.Offer, error) {
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
	if !listing.Negotiable {
		return nil, fmt.Errorf("listing %s: %w", listingID.String(), ErrNotNegotiable)
	}
	if price <= 0 || price >= listing.Price {
		return nil, fmt.Errorf("offer of %.2f on listing priced %.2f: %w", price, listing.Price, ErrInvalidPrice)
	}

	collection := s.db.Collection(offersCollection)
	now := time.Now().UTC()
	pendingFilter := bson.M{
		"listing_id": listingID,
		"buyer_id":   buyerID,
		"status":     models.OfferPending,
	}

	// Revise a pending offer in place if one exists.
	result, err := collection.UpdateOne(ctx, pendingFilter, bson.M{
		"$set": bson.M{"offer_price": price, "created_at": now},
	})
	if err != nil {
		return nil, fmt.Errorf("db error revising offer: %w", err)
	}
	if result.MatchedCount == 0 {
		offer := &models.Offer{
			ListingID: listingID,
			BuyerID:   buyerID,
			SellerID:  listing.SellerID,
			Price:     price,
			Status:    models.OfferPending,
			CreatedAt: now,
		}
		operation := func() error {
			offer.ID = utils.NewSixID()
			_, insertErr := collection.InsertOne(ctx, offer)
			if db.IsMongoDuplicateKeyError(insertErr) {
				// Lost the race on the partial (listing, buyer, pending)
				// index; fall back to revising the winner.
				_, reviseErr := collection.UpdateOne(ctx, pendingFilter, bson.M{
					"$set": bson.M{"offer_price": price, "created_at": now},
				})
				return reviseErr
			}
			return insertErr
		}
		if err := db.Try(operation); err != nil {
			return nil, fmt.Errorf("failed to insert offer for buyer %s on listing %s: %w",
				buyerID.String(), listingID.String(), err)
		}
	}

	var current models.Offer
	if err := collection.FindOne(ctx, pendingFilter).Decode(&current); err != nil {
		return nil, fmt.Errorf("failed to read back offer: %w", err)
	}
	return &current, nil
}

// Respond records the seller's accept/reject decision. Accept cascades in a
// single transaction: the offer flips to accepted, every other pending offer
// on the listing flips to rejected, and the listing takes the offer price.
func (s *offerService) Respond(ctx context.Context, offerID, sellerID utils.SixID, action OfferAction) (*models.Offer, error) {
	if action != OfferActionAccept && action != OfferActionReject {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}

	offer, err := s.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.SellerID != sellerID {
		return nil, fmt.Errorf("offer %s belongs to another seller: %w", offerID.String(), ErrForbidden)
	}
	if offer.Status != models.OfferPending {
		return nil, fmt.Errorf("offer %s is %s: %w", offerID.String(), offer.Status, ErrAlreadyResolved)
	}

	collection := s.db.Collection(offersCollection)
	now := time.Now().UTC()

	if action == OfferActionReject {
		result, err := collection.UpdateOne(ctx,
			bson.M{"_id": offerID, "status": models.OfferPending},
			bson.M{"$set": bson.M{"status": models.OfferRejected, "responded_at": now}})
		if err != nil {
			return nil, fmt.Errorf("db error rejecting offer %s: %w", offerID.String(), err)
		}
		if result.MatchedCount == 0 {
			return nil, fmt.Errorf("offer %s: %w", offerID.String(), ErrAlreadyResolved)
		}
	} else {
		err = db.WithTransaction(ctx, s.db.Client(), func(sc mongo.SessionContext) error {
			// CAS on pending so two concurrent accepts cannot both succeed.
			result, err := collection.UpdateOne(sc,
				bson.M{"_id": offerID, "status": models.OfferPending},
				bson.M{"$set": bson.M{"status": models.OfferAccepted, "responded_at": now}})
			if err != nil {
				return fmt.Errorf("db error accepting offer %s: %w", offerID.String(), err)
			}
			if result.MatchedCount == 0 {
				return fmt.Errorf("offer %s: %w", offerID.String(), ErrAlreadyResolved)
			}

			// Sibling pending offers lose.
			_, err = collection.UpdateMany(sc,
				bson.M{"listing_id": offer.ListingID, "status": models.OfferPending, "_id": bson.M{"$ne": offerID}},
				bson.M{"$set": bson.M{"status": models.OfferRejected, "responded_at": now}})
			if err != nil {
				return fmt.Errorf("db error rejecting sibling offers: %w", err)
			}

			// The listing takes the agreed price.
			_, err = s.db.Collection(listingsCollection).UpdateOne(sc,
				bson.M{"_id": offer.ListingID},
				bson.M{"$set": bson.M{"price": offer.Price, "updated_at": now}})
			if err != nil {
				return fmt.Errorf("db error applying accepted price to listing %s: %w", offer.ListingID.String(), err)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	s.notifyDecision(ctx, offer, string(action))

	updated, err := s.FindByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// notifyDecision emails the buyer about the decision. Best-effort.
func (s *offerService) notifyDecision(ctx context.Context, offer *models.Offer, decision string) {
	buyer, err := s.users.FindByID(ctx, offer.BuyerID)
	if err != nil {
		log.Printf("WARN: could not load buyer %s for offer notification: %v", offer.BuyerID.String(), err)
		return
	}
	listing, err := s.listings.FindByID(ctx, offer.ListingID)
	listingName := offer.ListingID.String()
	if err == nil {
		listingName = listing.Name
	}
	if err := s.notifier.NotifyOfferDecision(ctx, buyer.Email, listingName, decision, offer.Price); err != nil {
		log.Printf("WARN: failed to enqueue offer notification for %s: %v", buyer.Email, err)
	}
}

// FindByID returns an offer by its ID.
func (s *offerService) FindByID(ctx context.Context, offerID utils.SixID) (*models.Offer, error) {
	var offer models.Offer
	err := s.db.Collection(offersCollection).FindOne(ctx, bson.M{"_id": offerID}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("offer %s: %w", offerID.String(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding offer %s: %w", offerID.String(), err)
	}
	return &offer, nil
}

func (s *offerService) listOffers(ctx context.Context, filter bson.M) ([]models.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(offersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("db error listing offers: %w", err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, err
	}
	return offers, nil
}

// ListByBuyer returns all offers a buyer has made.
func (s *offerService) ListByBuyer(ctx context.Context, buyerID utils.SixID) ([]models.Offer, error) {
	return s.listOffers(ctx, bson.M{"buyer_id": buyerID})
}

// ListBySeller returns all offers on a seller's listings.
func (s *offerService) ListBySeller(ctx context.Context, sellerID utils.SixID) ([]models.Offer, error) {
	return s.listOffers(ctx, bson.M{"seller_id": sellerID})
}

// ListByListing returns all offers on one listing.
func (s *offerService) ListByListing(ctx context.Context, listingID utils.SixID) ([]models.Offer, error) {
	return s.listOffers(ctx, bson.M{"listing_id": listingID})
}

// PendingCountForSeller counts the seller's open offers (inbox badge).
func (s *offerService) PendingCountForSeller(ctx context.Context, sellerID utils.SixID) (int64, error) {
	count, err := s.db.Collection(offersCollection).CountDocuments(ctx,
		bson.M{"seller_id": sellerID, "status": models.OfferPending})
	if err != nil {
		return 0, fmt.Errorf("db error counting pending offers for seller %s: %w", sellerID.String(), err)
	}
	return count, nil
}
