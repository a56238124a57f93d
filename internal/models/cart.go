package models

import (
	"time"

	"github.com/karanxa1/trade-mart/internal/utils"
)

// CartEntry is a buyer's quantity intent for a single listing. The
// (buyer_id, listing_id) pair is unique; repeat adds merge quantities.
type CartEntry struct {
	ID        utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	BuyerID   utils.SixID `bson:"buyer_id" json:"buyer_id"`
	ListingID utils.SixID `bson:"listing_id" json:"listing_id"`
	Quantity  int         `bson:"quantity" json:"quantity"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time   `bson:"updated_at" json:"updated_at"`
}
