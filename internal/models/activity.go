package models

import (
	"time"

	"github.com/karanxa1/trade-mart/internal/utils"
)

// Administrator actions on seller standing are recorded twice: the mutable
// flag on the User gives current state, and these append-only activity
// records give the history. Activity rows are never updated or removed.

const (
	ActivitySuspend   = "suspend"
	ActivityUnsuspend = "unsuspend"
	ActivityApprove   = "approve"
	ActivityReject    = "reject"
)

// SuspensionActivity is one suspend/unsuspend action against a seller.
type SuspensionActivity struct {
	ID        utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID  utils.SixID `bson:"seller_id" json:"seller_id"`
	ActorID   utils.SixID `bson:"actor_id" json:"actor_id"`
	Action    string      `bson:"action" json:"action"`
	Reason    string      `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
}

// VerificationStatus is the state of a seller identity-verification request.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

// VerificationRequest is a seller's ask to have their identity verified.
// Only the approval state is modelled; document checking happens elsewhere.
type VerificationRequest struct {
	ID           utils.SixID        `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID     utils.SixID        `bson:"seller_id" json:"seller_id"`
	DocumentRef  string             `bson:"document_ref,omitempty" json:"document_ref,omitempty"`
	Status       VerificationStatus `bson:"status" json:"status"`
	RejectReason string             `bson:"reject_reason,omitempty" json:"reject_reason,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	ResolvedAt   *time.Time         `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
	ResolvedBy   *utils.SixID       `bson:"resolved_by,omitempty" json:"resolved_by,omitempty"`
}

// VerificationActivity is one approve/reject action on a verification
// request.
type VerificationActivity struct {
	ID        utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID  utils.SixID `bson:"seller_id" json:"seller_id"`
	ActorID   utils.SixID `bson:"actor_id" json:"actor_id"`
	Action    string      `bson:"action" json:"action"`
	Reason    string      `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt time.Time   `bson:"created_at" json:"created_at"`
}
