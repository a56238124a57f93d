package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/karanxa1/trade-mart/internal/services"
)

// AdminHandler handles REST requests for the moderation authority.
type AdminHandler struct {
	adminService services.IAdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.IAdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// PendingListings handles GET /v1/admin/listings/pending.
func (h *AdminHandler) PendingListings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	listings, err := h.adminService.PendingListings(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// ApproveListing handles POST /v1/admin/listing/:id/approve.
func (h *AdminHandler) ApproveListing(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.ApproveListing(c.Request.Context(), listingID, adminID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RejectListing handles POST /v1/admin/listing/:id/reject.
func (h *AdminHandler) RejectListing(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.adminService.RejectListing(c.Request.Context(), listingID, adminID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteListing handles DELETE /v1/admin/listing/:id.
func (h *AdminHandler) DeleteListing(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	listingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if err := h.adminService.DeleteListing(c.Request.Context(), listingID, adminID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SuspendSeller handles POST /v1/admin/seller/:id/suspend.
func (h *AdminHandler) SuspendSeller(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	sellerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.adminService.SuspendSeller(c.Request.Context(), sellerID, adminID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UnsuspendSeller handles POST /v1/admin/seller/:id/unsuspend.
func (h *AdminHandler) UnsuspendSeller(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	sellerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.UnsuspendSeller(c.Request.Context(), sellerID, adminID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PendingVerifications handles GET /v1/admin/verifications/pending.
func (h *AdminHandler) PendingVerifications(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	requests, err := h.adminService.PendingVerifications(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// ApproveVerification handles POST /v1/admin/verification/:id/approve.
func (h *AdminHandler) ApproveVerification(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	verificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.adminService.ApproveVerification(c.Request.Context(), verificationID, adminID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RejectVerification handles POST /v1/admin/verification/:id/reject.
func (h *AdminHandler) RejectVerification(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	verificationID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.adminService.RejectVerification(c.Request.Context(), verificationID, adminID, req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SellerStanding handles GET /v1/admin/seller/:id/standing.
func (h *AdminHandler) SellerStanding(c *gin.Context) {
	sellerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	standing, err := h.adminService.SellerStanding(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, standing)
}
