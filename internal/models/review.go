package models

import (
	"time"

	"github.com/karanxa1/trade-mart/internal/utils"
)

// Review is a buyer's 1-5 rating of a seller. The seller's aggregate rating
// is computed on demand from these rows, not incrementally maintained.
type Review struct {
	ID         utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID   utils.SixID `bson:"seller_id" json:"seller_id"`
	ReviewerID utils.SixID `bson:"reviewer_id" json:"reviewer_id"`
	Rating     int         `bson:"rating" json:"rating"`
	Comment    string      `bson:"comment" json:"comment"`
	CreatedAt  time.Time   `bson:"created_at" json:"created_at"`
}
