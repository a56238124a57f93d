package models

import (
	"time"

	"github.com/karanxa1/trade-mart/internal/utils"
)

// UserType distinguishes the three roles in the marketplace.
type UserType string

const (
	UserTypeBuyer      UserType = "buyer"
	UserTypeSeller     UserType = "seller"
	UserTypeGovernment UserType = "government"
)

// User is a directory record. The core treats the directory as an external
// collaborator: it reads role and standing flags, and the moderation
// authority flips the seller-standing flags.
type User struct {
	Base         `bson:",inline"`
	Username     string   `bson:"username" json:"username"`
	Email        string   `bson:"email" json:"email"`
	PasswordHash string   `bson:"password" json:"-"`
	Type         UserType `bson:"user_type" json:"user_type"`

	// Seller standing. The flags give current state; history lives in the
	// suspension/verification activity collections.
	Suspended        bool         `bson:"suspended" json:"suspended"`
	SuspendReason    string       `bson:"suspend_reason,omitempty" json:"suspend_reason,omitempty"`
	SuspendedAt      *time.Time   `bson:"suspended_at,omitempty" json:"suspended_at,omitempty"`
	SuspendedBy      *utils.SixID `bson:"suspended_by,omitempty" json:"suspended_by,omitempty"`
	IdentityVerified bool         `bson:"identity_verified" json:"identity_verified"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
	Deleted   bool      `bson:"deleted" json:"-"` // Soft delete flag
}

// IsGovernment reports whether the user holds the administrator role.
func (u *User) IsGovernment() bool {
	return u.Type == UserTypeGovernment
}
