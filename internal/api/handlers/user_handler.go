package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karanxa1/trade-mart/internal/services"
)

// UserHandler handles REST requests for the user directory, reviews and
// verification requests.
type UserHandler struct {
	userService   services.IUserService
	reviewService services.IReviewService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.IUserService, reviewService services.IReviewService) *UserHandler {
	return &UserHandler{userService: userService, reviewService: reviewService}
}

// GetByID handles GET /v1/user/:id.
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.FindByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteAccount handles DELETE /v1/user/me.
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	if err := h.userService.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type verificationRequestBody struct {
	DocumentRef string `json:"document_ref"`
}

// SubmitVerification handles POST /v1/seller/verification.
func (h *UserHandler) SubmitVerification(c *gin.Context) {
	sellerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	var req verificationRequestBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	request, err := h.userService.SubmitVerificationRequest(c.Request.Context(), sellerID, req.DocumentRef)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// CreateReview handles POST /v1/seller/:id/review.
func (h *UserHandler) CreateReview(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	sellerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	review, err := h.reviewService.Create(c.Request.Context(), reviewerID, sellerID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// SellerReviews handles GET /v1/seller/:id/reviews.
func (h *UserHandler) SellerReviews(c *gin.Context) {
	sellerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	reviews, err := h.reviewService.ListBySeller(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := h.reviewService.SellerStats(c.Request.Context(), sellerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "stats": stats})
}
