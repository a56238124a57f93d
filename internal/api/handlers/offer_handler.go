package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karanxa1/trade-mart/internal/services"
)

// OfferHandler handles REST requests for offer negotiation.
type OfferHandler struct {
	offerService services.IOfferService
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offerService services.IOfferService) *OfferHandler {
	return &OfferHandler{offerService: offerService}
}

type submitOfferRequest struct {
	Price float64 `json:"price" binding:"required"`
}

// Submit handles POST /v1/listing/:id/offer.
func (h *OfferHandler) Submit(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req submitOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.offerService.Submit(c.Request.Context(), buyerID, listingID, req.Price)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, offer)
}

type respondOfferRequest struct {
	Action string `json:"action" binding:"required"`
}

// Respond handles POST /v1/offer/:id/respond.
func (h *OfferHandler) Respond(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	offerID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req respondOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.offerService.Respond(c.Request.Context(), offerID, sellerID, services.OfferAction(req.Action))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

// ListMine handles GET /v1/offers (the buyer's own offers).
func (h *OfferHandler) ListMine(c *gin.Context) {
	buyerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	offers, err := h.offerService.ListByBuyer(c.Request.Context(), buyerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}

// SellerInbox handles GET /v1/seller/offers.
func (h *OfferHandler) SellerInbox(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	offers, err := h.offerService.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	pending, err := h.offerService.PendingCountForSeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers, "pending_count": pending})
}

// ListByListing handles GET /v1/listing/:id/offers.
func (h *OfferHandler) ListByListing(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	offers, err := h.offerService.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers})
}
