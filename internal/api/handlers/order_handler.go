package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/services"
)

// OrderHandler handles REST requests for checkout and fulfillment.
type OrderHandler struct {
	orderService services.IOrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService services.IOrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

type checkoutRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name"`
	Address       string `json:"address" binding:"required"`
	Address2      string `json:"address2"`
	City          string `json:"city" binding:"required"`
	State         string `json:"state"`
	ZipCode       string `json:"zip_code"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

// Checkout handles POST /v1/checkout.
func (h *OrderHandler) Checkout(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	addr := models.DeliveryAddress{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		Address2:  req.Address2,
		City:      req.City,
		State:     req.State,
		ZipCode:   req.ZipCode,
	}
	view, err := h.orderService.Checkout(c.Request.Context(), buyerID, addr, req.PaymentMethod)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// GetByID handles GET /v1/order/:id.
func (h *OrderHandler) GetByID(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.orderService.FindByID(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Track handles GET /v1/track/:ref. Public: a tracking reference acts as a
// lookup capability.
func (h *OrderHandler) Track(c *gin.Context) {
	view, err := h.orderService.FindByTrackingRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tracking_ref":       view.Order.TrackingRef,
		"status":             view.Order.Status,
		"tracking_status":    view.Order.TrackingStatus,
		"tracking_log":       view.Order.TrackingLog,
		"estimated_delivery": view.Order.EstimatedDelivery,
	})
}

// ListMine handles GET /v1/orders (the buyer's own orders).
func (h *OrderHandler) ListMine(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	views, err := h.orderService.ListByBuyer(c.Request.Context(), buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

// SellerOrders handles GET /v1/seller/orders.
func (h *OrderHandler) SellerOrders(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	views, err := h.orderService.ListBySellerListings(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": views})
}

type trackingUpdateRequest struct {
	Status      string `json:"status" binding:"required"`
	Description string `json:"description"`
}

// UpdateTracking handles POST /v1/order/:id/tracking.
func (h *OrderHandler) UpdateTracking(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req trackingUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orderService.UpdateTracking(c.Request.Context(), orderID, actorID,
		models.TrackingStatus(req.Status), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
