package models

import (
	"time"

	"github.com/karanxa1/trade-mart/internal/utils"
)

// AvailabilityStatus tracks where a listing sits in its sale lifecycle.
// External consumers match on the literal strings.
type AvailabilityStatus string

const (
	AvailabilityAvailable AvailabilityStatus = "available"
	AvailabilityReserved  AvailabilityStatus = "reserved"
	AvailabilitySold      AvailabilityStatus = "sold"
	AvailabilityDeleted   AvailabilityStatus = "deleted"
)

// ModerationStatus is the administrator approval state gating public
// visibility of a listing. Independent of AvailabilityStatus.
type ModerationStatus string

const (
	ModerationPending  ModerationStatus = "pending"
	ModerationApproved ModerationStatus = "approved"
	ModerationRejected ModerationStatus = "rejected"
)

// Product is a for-sale listing posted by a seller.
//
// Availability is mutated only by the fulfillment pipeline (reserve, release,
// mark sold) and by administrator deletion; moderation only by the moderation
// workflow. Listings are never hard-deleted: administrator deletion is a
// status so the audit trail survives.
type Product struct {
	ID          utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID    utils.SixID `bson:"seller_id" json:"seller_id"`
	Name        string      `bson:"name" json:"name"`
	Description string      `bson:"description" json:"description"`
	Price       float64     `bson:"price" json:"price"`
	Negotiable  bool        `bson:"negotiable" json:"negotiable"`
	CategoryID  string      `bson:"category_id" json:"category_id"`
	ConditionID string      `bson:"condition_id" json:"condition_id"`
	Image       string      `bson:"image,omitempty" json:"image,omitempty"` // opaque reference; storage is handled elsewhere

	Availability AvailabilityStatus `bson:"availability" json:"availability"`
	Moderation   ModerationStatus   `bson:"moderation" json:"moderation"`

	// Moderation metadata. ModeratedBy/ModeratedAt record the reviewer of the
	// approve/reject decision; RejectionReason is set only on reject.
	ModeratedBy     *utils.SixID `bson:"moderated_by,omitempty" json:"moderated_by,omitempty"`
	ModeratedAt     *time.Time   `bson:"moderated_at,omitempty" json:"moderated_at,omitempty"`
	RejectionReason string       `bson:"rejection_reason,omitempty" json:"rejection_reason,omitempty"`

	// Administrator deletion metadata, set when Availability becomes deleted.
	DeletedBy      *utils.SixID `bson:"deleted_by,omitempty" json:"deleted_by,omitempty"`
	DeletedAt      *time.Time   `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	DeletionReason string       `bson:"deletion_reason,omitempty" json:"deletion_reason,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Purchasable reports whether the listing may accept offers or be added to a
// cart: it must be available and approved.
func (p *Product) Purchasable() bool {
	return p.Availability == AvailabilityAvailable && p.Moderation == ModerationApproved
}
