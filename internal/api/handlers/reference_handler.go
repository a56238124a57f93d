package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karanxa1/trade-mart/internal/services"
)

// ReferenceHandler serves the category/condition reference collections.
type ReferenceHandler struct {
	referenceService services.IReferenceService
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(referenceService services.IReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService}
}

// Categories handles GET /v1/categories.
func (h *ReferenceHandler) Categories(c *gin.Context) {
	categories, err := h.referenceService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Conditions handles GET /v1/conditions.
func (h *ReferenceHandler) Conditions(c *gin.Context) {
	conditions, err := h.referenceService.Conditions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conditions": conditions})
}
