package models

import (
	"strings"
	"time"

	"github.com/karanxa1/trade-mart/internal/utils"
)

// OrderStatus is the overall state of an order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// TrackingStatus is the fulfillment stage of an order. Transitions are
// monotonic; see TrackingCanTransition.
type TrackingStatus string

const (
	TrackingOrderPlaced    TrackingStatus = "order_placed"
	TrackingProcessing     TrackingStatus = "processing"
	TrackingShipped        TrackingStatus = "shipped"
	TrackingOutForDelivery TrackingStatus = "out_for_delivery"
	TrackingDelivered      TrackingStatus = "delivered"
	TrackingCancelled      TrackingStatus = "cancelled"
)

// trackingEdges is the permitted transition set. No back-transitions, and an
// order can only be cancelled before it ships.
var trackingEdges = map[TrackingStatus]map[TrackingStatus]bool{
	TrackingOrderPlaced:    {TrackingProcessing: true, TrackingCancelled: true},
	TrackingProcessing:     {TrackingShipped: true, TrackingCancelled: true},
	TrackingShipped:        {TrackingOutForDelivery: true},
	TrackingOutForDelivery: {TrackingDelivered: true},
	TrackingDelivered:      {},
	TrackingCancelled:      {},
}

// TrackingCanTransition reports whether from -> to is a permitted tracking
// transition.
func TrackingCanTransition(from, to TrackingStatus) bool {
	return trackingEdges[from][to]
}

// DefaultTrackingDescription returns the buyer-facing text used for a
// tracking log entry when the caller supplies none.
func DefaultTrackingDescription(s TrackingStatus) string {
	switch s {
	case TrackingOrderPlaced:
		return "Order has been placed successfully"
	case TrackingProcessing:
		return "Your order is being processed and prepared for shipping."
	case TrackingShipped:
		return "Your order has been shipped and is on the way!"
	case TrackingOutForDelivery:
		return "Your order is out for delivery today!"
	case TrackingDelivered:
		return "Your order has been delivered. Thank you for shopping with us!"
	case TrackingCancelled:
		return "Your order has been cancelled."
	}
	return ""
}

// TrackingUpdate is one entry of the append-only tracking log. Entries are
// never rewritten or reordered.
type TrackingUpdate struct {
	Status      TrackingStatus `bson:"status" json:"status"`
	Timestamp   time.Time      `bson:"timestamp" json:"timestamp"`
	Description string         `bson:"description" json:"description"`
}

// DeliveryAddress is an immutable snapshot of where the order ships. It is
// copied at checkout, not a live reference to the buyer's profile.
type DeliveryAddress struct {
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name" json:"last_name"`
	Address   string `bson:"address" json:"address"`
	Address2  string `bson:"address2,omitempty" json:"address2,omitempty"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	ZipCode   string `bson:"zip_code" json:"zip_code"`
}

// String renders the address on one line, the way it is printed on labels.
func (a DeliveryAddress) String() string {
	parts := []string{a.FirstName + " " + a.LastName, a.Address}
	if a.Address2 != "" {
		parts = append(parts, a.Address2)
	}
	parts = append(parts, a.City+", "+a.State+" "+a.ZipCode)
	return strings.Join(parts, ", ")
}

// Order is one buyer checkout. Created atomically with its line items.
type Order struct {
	ID                utils.SixID      `bson:"_id,omitempty" json:"id,omitempty"`
	BuyerID           utils.SixID      `bson:"buyer_id" json:"buyer_id"`
	Status            OrderStatus      `bson:"status" json:"status"`
	TrackingStatus    TrackingStatus   `bson:"tracking_status" json:"tracking_status"`
	TrackingRef       string           `bson:"tracking_ref" json:"tracking_ref"`
	TrackingLog       []TrackingUpdate `bson:"tracking_log" json:"tracking_log"`
	DeliveryAddress   DeliveryAddress  `bson:"delivery_address" json:"delivery_address"`
	PaymentMethod     string           `bson:"payment_method" json:"payment_method"`
	TotalAmount       float64          `bson:"total_amount" json:"total_amount"`
	EstimatedDelivery time.Time        `bson:"estimated_delivery" json:"estimated_delivery"`
	CreatedAt         time.Time        `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time        `bson:"updated_at" json:"updated_at"`
}

// OrderLineItem records one listing within an order. UnitPrice is the
// listing price captured at checkout and survives later price changes.
// Immutable once created.
type OrderLineItem struct {
	ID        utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID   utils.SixID `bson:"order_id" json:"order_id"`
	ListingID utils.SixID `bson:"listing_id" json:"listing_id"`
	Quantity  int         `bson:"quantity" json:"quantity"`
	UnitPrice float64     `bson:"unit_price" json:"unit_price"`
}
