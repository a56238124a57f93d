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

	"github.com/karanxa1/trade-mart/internal/config"
	"github.com/karanxa1/trade-mart/internal/db"
	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// OrderView is an order hydrated with its line items.
type OrderView struct {
	Order models.Order           `json:"order"`
	Items []models.OrderLineItem `json:"items"`
}

// IOrderService defines the interface for checkout and fulfillment.
type IOrderService interface {
	Checkout(ctx context.Context, buyerID utils.SixID, addr models.DeliveryAddress, paymentMethod string) (*OrderView, error)
	UpdateTracking(ctx context.Context, orderID, actorID utils.SixID, next models.TrackingStatus, description string) (*models.Order, error)
	FindByID(ctx context.Context, orderID utils.SixID) (*OrderView, error)
	FindByTrackingRef(ctx context.Context, trackingRef string) (*OrderView, error)
	ListByBuyer(ctx context.Context, buyerID utils.SixID) ([]OrderView, error)
	ListBySellerListings(ctx context.Context, sellerID utils.SixID) ([]OrderView, error)
}

const (
	ordersCollection     = "orders"
	orderItemsCollection = "order_items"
)

type orderService struct {
	db       *mongo.Database
	cfg      *config.Config
	listings IListingService
	carts    ICartService
	users    IUserService
	notifier Notifier
}

// NewOrderService creates a new OrderService.
func NewOrderService(db *mongo.Database, cfg *config.Config, listings IListingService, carts ICartService, users IUserService, notifier Notifier) IOrderService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &orderService{db: db, cfg: cfg, listings: listings, carts: carts, users: users, notifier: notifier}
}

// Checkout converts the buyer's cart into an order.
//
// Stale cart entries (listing no longer available and approved) are dropped
// silently. The surviving entries are reserved, the order and its line items
// are created, and the cart is drained, all in one session transaction. A
// listing lost to a concurrent checkout is treated like a stale entry.
// Prices are re-read inside the transaction so a just-accepted offer bills
// at the negotiated price, not the one the cart page showed.
func (s *orderService) Checkout(ctx context.Context, buyerID utils.SixID, addr models.DeliveryAddress, paymentMethod string) (*OrderView, error) {
	if addr.FirstName == "" || addr.Address == "" || addr.City == "" {
		return nil, fmt.Errorf("%w: incomplete delivery address", ErrInvalidInput)
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}

	items, err := s.carts.ListForBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	var view *OrderView
	// A duplicate _id or tracking_ref aborts the server-side transaction,
	// so the retry re-runs the whole callback with freshly generated values
	// rather than re-issuing the insert on an aborted session.
	err = db.Try(func() error {
		return db.WithTransaction(ctx, s.db.Client(), func(sc mongo.SessionContext) error {
			now := time.Now().UTC()

			type lineCandidate struct {
				listingID utils.SixID
				qty       int
				unitPrice float64
			}
			var survivors []lineCandidate
			for _, item := range items {
				// CAS-reserve; stale entries and losers of a concurrent
				// race are dropped alike.
				if err := s.listings.Reserve(sc, item.Entry.ListingID); err != nil {
					if errors.Is(err, ErrNotAvailable) || errors.Is(err, ErrNotFound) {
						continue
					}
					return err
				}
				// Re-read the listing inside the transaction; an offer
				// accepted since the cart was hydrated has rewritten the
				// price, and the line item must capture the current one.
				listing, err := s.listings.FindByID(sc, item.Entry.ListingID)
				if err != nil {
					return err
				}
				survivors = append(survivors, lineCandidate{
					listingID: item.Entry.ListingID,
					qty:       item.Entry.Quantity,
					unitPrice: listing.Price,
				})
			}
			if len(survivors) == 0 {
				return ErrNoAvailableItems
			}

			total := 0.0
			for _, c := range survivors {
				total += float64(c.qty) * c.unitPrice
			}

			order := &models.Order{
				ID:             utils.NewSixID(),
				TrackingRef:    utils.NewTrackingRef(now),
				BuyerID:        buyerID,
				Status:         models.OrderPending,
				TrackingStatus: models.TrackingOrderPlaced,
				TrackingLog: []models.TrackingUpdate{{
					Status:      models.TrackingOrderPlaced,
					Timestamp:   now,
					Description: models.DefaultTrackingDescription(models.TrackingOrderPlaced),
				}},
				DeliveryAddress:   addr,
				PaymentMethod:     paymentMethod,
				TotalAmount:       total,
				EstimatedDelivery: now.AddDate(0, 0, s.cfg.EstimatedDeliveryDays),
				CreatedAt:         now,
				UpdatedAt:         now,
			}
			if _, err := s.db.Collection(ordersCollection).InsertOne(sc, order); err != nil {
				return fmt.Errorf("failed to insert order for buyer %s: %w", buyerID.String(), err)
			}

			lineItems := make([]models.OrderLineItem, 0, len(survivors))
			docs := make([]interface{}, 0, len(survivors))
			for _, c := range survivors {
				li := models.OrderLineItem{
					ID:        utils.NewSixID(),
					OrderID:   order.ID,
					ListingID: c.listingID,
					Quantity:  c.qty,
					UnitPrice: c.unitPrice,
				}
				lineItems = append(lineItems, li)
				docs = append(docs, li)
			}
			if _, err := s.db.Collection(orderItemsCollection).InsertMany(sc, docs); err != nil {
				return fmt.Errorf("failed to insert order items for order %s: %w", order.ID.String(), err)
			}

			// Drain the whole cart, dropped entries included.
			if _, err := s.db.Collection(cartsCollection).DeleteMany(sc, bson.M{"buyer_id": buyerID}); err != nil {
				return fmt.Errorf("failed to clear cart for buyer %s: %w", buyerID.String(), err)
			}

			view = &OrderView{Order: *order, Items: lineItems}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateTracking advances an order along the tracking state machine and
// appends one log entry. The actor must own at least one line item's listing
// or be an administrator.
func (s *orderService) UpdateTracking(ctx context.Context, orderID, actorID utils.SixID, next models.TrackingStatus, description string) (*models.Order, error) {
	view, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order := view.Order

	if err := s.authorizeActor(ctx, view, actorID); err != nil {
		return nil, err
	}
	if !models.TrackingCanTransition(order.TrackingStatus, next) {
		return nil, fmt.Errorf("tracking %s -> %s: %w", order.TrackingStatus, next, ErrInvalidTransition)
	}

	if description == "" {
		description = models.DefaultTrackingDescription(next)
	}
	now := time.Now().UTC()
	entry := models.TrackingUpdate{Status: next, Timestamp: now, Description: description}

	set := bson.M{"tracking_status": next, "updated_at": now}
	switch next {
	case models.TrackingDelivered:
		set["status"] = models.OrderCompleted
	case models.TrackingCancelled:
		set["status"] = models.OrderCancelled
	}

	err = db.WithTransaction(ctx, s.db.Client(), func(sc mongo.SessionContext) error {
		// CAS on the current tracking status; a concurrent update loses.
		result, err := s.db.Collection(ordersCollection).UpdateOne(sc,
			bson.M{"_id": orderID, "tracking_status": order.TrackingStatus},
			bson.M{"$set": set, "$push": bson.M{"tracking_log": entry}})
		if err != nil {
			return fmt.Errorf("db error updating tracking for order %s: %w", orderID.String(), err)
		}
		if result.MatchedCount == 0 {
			return fmt.Errorf("order %s tracking moved concurrently: %w", orderID.String(), ErrInvalidTransition)
		}

		// Terminal transitions settle the listings.
		switch next {
		case models.TrackingDelivered:
			for _, li := range view.Items {
				if err := s.listings.MarkSold(sc, li.ListingID); err != nil && !errors.Is(err, ErrNotAvailable) {
					return err
				}
			}
		case models.TrackingCancelled:
			for _, li := range view.Items {
				if err := s.listings.Release(sc, li.ListingID); err != nil && !errors.Is(err, ErrNotAvailable) {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyTracking(ctx, order.BuyerID, order.TrackingRef, next, description)

	updated, err := s.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &updated.Order, nil
}

// authorizeActor allows administrators and sellers owning a line item.
func (s *orderService) authorizeActor(ctx context.Context, view *OrderView, actorID utils.SixID) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.IsGovernment() {
		return nil
	}
	for _, li := range view.Items {
		listing, err := s.listings.FindByID(ctx, li.ListingID)
		if err != nil {
			continue
		}
		if listing.SellerID == actorID {
			return nil
		}
	}
	return fmt.Errorf("user %s may not update order %s: %w", actorID.String(), view.Order.ID.String(), ErrForbidden)
}

// notifyTracking emails the buyer about the transition. Best-effort.
func (s *orderService) notifyTracking(ctx context.Context, buyerID utils.SixID, trackingRef string, status models.TrackingStatus, description string) {
	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		log.Printf("WARN: could not load buyer %s for tracking notification: %v", buyerID.String(), err)
		return
	}
	if err := s.notifier.NotifyTrackingUpdate(ctx, buyer.Email, trackingRef, string(status), description); err != nil {
		log.Printf("WARN: failed to enqueue tracking notification for %s: %v", buyer.Email, err)
	}
}

// hydrate attaches line items to an order.
func (s *orderService) hydrate(ctx context.Context, order models.Order) (*OrderView, error) {
	cursor, err := s.db.Collection(orderItemsCollection).Find(ctx, bson.M{"order_id": order.ID})
	if err != nil {
		return nil, fmt.Errorf("db error loading items for order %s: %w", order.ID.String(), err)
	}
	defer cursor.Close(ctx)

	var items []models.OrderLineItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return &OrderView{Order: order, Items: items}, nil
}

// FindByID returns an order with its line items.
func (s *orderService) FindByID(ctx context.Context, orderID utils.SixID) (*OrderView, error) {
	var order models.Order
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order %s: %w", orderID.String(), ErrNotFound)
		}
		return nil, fmt.Errorf("error finding order %s: %w", orderID.String(), err)
	}
	return s.hydrate(ctx, order)
}

// FindByTrackingRef returns an order located by its tracking reference.
func (s *orderService) FindByTrackingRef(ctx context.Context, trackingRef string) (*OrderView, error) {
	if !utils.IsTrackingRef(trackingRef) {
		return nil, fmt.Errorf("%w: malformed tracking reference %q", ErrInvalidInput, trackingRef)
	}
	var order models.Order
	err := s.db.Collection(ordersCollection).FindOne(ctx, bson.M{"tracking_ref": trackingRef}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("tracking reference %s: %w", trackingRef, ErrNotFound)
		}
		return nil, fmt.Errorf("error finding order by tracking reference %s: %w", trackingRef, err)
	}
	return s.hydrate(ctx, order)
}

// ListByBuyer returns the buyer's orders, newest first.
func (s *orderService) ListByBuyer(ctx context.Context, buyerID utils.SixID) ([]OrderView, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(ordersCollection).Find(ctx, bson.M{"buyer_id": buyerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("db error listing orders for buyer %s: %w", buyerID.String(), err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err = cursor.All(ctx, &orders); err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		view, err := s.hydrate(ctx, order)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// ListBySellerListings returns orders containing at least one of the
// seller's listings. Line items carry no seller field, so this resolves the
// seller's listing IDs first.
func (s *orderService) ListBySellerListings(ctx context.Context, sellerID utils.SixID) ([]OrderView, error) {
	listings, err := s.listings.FindBySeller(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if len(listings) == 0 {
		return []OrderView{}, nil
	}
	listingIDs := make([]utils.SixID, 0, len(listings))
	for _, l := range listings {
		listingIDs = append(listingIDs, l.ID)
	}

	cursor, err := s.db.Collection(orderItemsCollection).Find(ctx, bson.M{"listing_id": bson.M{"$in": listingIDs}})
	if err != nil {
		return nil, fmt.Errorf("db error listing order items for seller %s: %w", sellerID.String(), err)
	}
	defer cursor.Close(ctx)

	var items []models.OrderLineItem
	if err = cursor.All(ctx, &items); err != nil {
		return nil, err
	}

	seen := map[utils.SixID]bool{}
	views := make([]OrderView, 0, len(items))
	for _, li := range items {
		if seen[li.OrderID] {
			continue
		}
		seen[li.OrderID] = true
		view, err := s.FindByID(ctx, li.OrderID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}
