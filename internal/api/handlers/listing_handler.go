package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/karanxa1/trade-mart/internal/services"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// ListingHandler handles REST requests for listings.
type ListingHandler struct {
	listingService services.IListingService
}

// NewListingHandler creates a new ListingHandler.
func NewListingHandler(listingService services.IListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

type createListingRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Negotiable  bool    `json:"negotiable"`
	CategoryID  string  `json:"category_id"`
	ConditionID string  `json:"condition_id"`
	Image       string  `json:"image"`
}

// Create handles POST /v1/listing.
func (h *ListingHandler) Create(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.listingService.Create(c.Request.Context(), sellerID, services.ListingInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Negotiable:  req.Negotiable,
		CategoryID:  req.CategoryID,
		ConditionID: req.ConditionID,
		Image:       req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, listing)
}

// GetByID handles GET /v1/listing/:id.
func (h *ListingHandler) GetByID(c *gin.Context) {
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	listing, err := h.listingService.FindByID(c.Request.Context(), listingID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Search handles GET /v1/listing/search.
func (h *ListingHandler) Search(c *gin.Context) {
	filter := services.ListingFilter{
		Query:       c.Query("q"),
		CategoryID:  c.Query("category"),
		ConditionID: c.Query("condition"),
		SortBy:      c.Query("sort"),
	}

	if sellerStr := c.Query("seller"); sellerStr != "" {
		sellerID, err := utils.ParseSixID(sellerStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller"})
			return
		}
		filter.SellerID = &sellerID
	}
	if minStr := c.Query("min_price"); minStr != "" {
		if v, err := strconv.ParseFloat(minStr, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if maxStr := c.Query("max_price"); maxStr != "" {
		if v, err := strconv.ParseFloat(maxStr, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if v, err := strconv.Atoi(limitStr); err == nil {
			filter.Limit = v
		}
	}

	listings, err := h.listingService.Search(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// MyListings handles GET /v1/seller/listings.
func (h *ListingHandler) MyListings(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listings, err := h.listingService.FindBySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}
