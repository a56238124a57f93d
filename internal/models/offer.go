package models

import (
	"time"

	"github.com/karanxa1/trade-mart/internal/utils"
)

// OfferStatus is the negotiation state of an offer. Accepted and rejected
// are terminal.
type OfferStatus string

const (
	OfferPending  OfferStatus = "pending"
	OfferAccepted OfferStatus = "accepted"
	OfferRejected OfferStatus = "rejected"
)

// Offer is a buyer-proposed alternate price for a negotiable listing.
//
// SellerID is denormalized from the listing at creation time for query
// efficiency (seller inbox views); listings never change owners, so it is
// not re-synced. At most one pending offer exists per (buyer, listing) pair,
// enforced by a partial unique index.
type Offer struct {
	ID          utils.SixID  `bson:"_id,omitempty" json:"id,omitempty"`
	ListingID   utils.SixID  `bson:"listing_id" json:"listing_id"`
	BuyerID     utils.SixID  `bson:"buyer_id" json:"buyer_id"`
	SellerID    utils.SixID  `bson:"seller_id" json:"seller_id"`
	Price       float64      `bson:"offer_price" json:"offer_price"`
	Status      OfferStatus  `bson:"status" json:"status"`
	CreatedAt   time.Time    `bson:"created_at" json:"created_at"`
	RespondedAt *time.Time   `bson:"responded_at,omitempty" json:"responded_at,omitempty"`
}
