package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karanxa1/trade-mart/internal/services"
)

// CartHandler handles REST requests for the buyer's cart.
type CartHandler struct {
	cartService services.ICartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cartService services.ICartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartAddRequest struct {
	Quantity int `json:"quantity"`
}

// Add handles POST /v1/cart/:listing_id.
func (h *CartHandler) Add(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "listing_id")
	if !ok {
		return
	}

	req := cartAddRequest{Quantity: 1}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	entry, err := h.cartService.Add(c.Request.Context(), buyerID, listingID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateQuantity handles PUT /v1/cart/:listing_id.
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "listing_id")
	if !ok {
		return
	}

	var req cartAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cartService.UpdateQuantity(c.Request.Context(), buyerID, listingID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Remove handles DELETE /v1/cart/:listing_id.
func (h *CartHandler) Remove(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "listing_id")
	if !ok {
		return
	}

	if err := h.cartService.Remove(c.Request.Context(), buyerID, listingID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Clear handles DELETE /v1/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.cartService.Clear(c.Request.Context(), buyerID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// List handles GET /v1/cart.
func (h *CartHandler) List(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	items, err := h.cartService.ListForBuyer(c.Request.Context(), buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
