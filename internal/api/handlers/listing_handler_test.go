package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/karanxa1/trade-mart/internal/api/handlers"
	"github.com/karanxa1/trade-mart/internal/api/middleware"
	"github.com/karanxa1/trade-mart/internal/models"
	"github.com/karanxa1/trade-mart/internal/services"
	"github.com/karanxa1/trade-mart/internal/utils"
)

// fakeAuth injects an authenticated user the way AuthMiddleware would.
func fakeAuth(userID utils.SixID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID.String())
		c.Next()
	}
}

func TestListingHandler_GetByID_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockListingSvc := new(MockListingService)
	handler := handlers.NewListingHandler(mockListingSvc)

	r := gin.New()
	r.GET("/v1/listing/:id", handler.GetByID)

	listingID := utils.NewSixID()
	expected := &models.Product{
		ID:           listingID,
		Name:         "Test Item",
		Price:        42,
		Availability: models.AvailabilityAvailable,
		Moderation:   models.ModerationApproved,
	}
	mockListingSvc.On("FindByID", mock.Anything, listingID).Return(expected, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listing/"+listingID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody models.Product
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	assert.Equal(t, expected.ID, respBody.ID)
	assert.Equal(t, expected.Name, respBody.Name)
	mockListingSvc.AssertExpectations(t)
}

func TestListingHandler_GetByID_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockListingSvc := new(MockListingService)
	handler := handlers.NewListingHandler(mockListingSvc)

	r := gin.New()
	r.GET("/v1/listing/:id", handler.GetByID)

	listingID := utils.NewSixID()
	mockListingSvc.On("FindByID", mock.Anything, listingID).Return(nil, services.ErrNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listing/"+listingID.String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockListingSvc.AssertExpectations(t)
}

func TestListingHandler_GetByID_BadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockListingSvc := new(MockListingService)
	handler := handlers.NewListingHandler(mockListingSvc)

	r := gin.New()
	r.GET("/v1/listing/:id", handler.GetByID)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listing/!!!invalid!!!", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockListingSvc.AssertNotCalled(t, "FindByID")
}

func TestListingHandler_Search_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockListingSvc := new(MockListingService)
	handler := handlers.NewListingHandler(mockListingSvc)

	r := gin.New()
	r.GET("/v1/listing/search", handler.Search)

	expected := []models.Product{
		{ID: utils.NewSixID(), Name: "Mountain Bike"},
		{ID: utils.NewSixID(), Name: "Road Bike"},
	}
	mockListingSvc.On("Search", mock.Anything, mock.MatchedBy(func(f services.ListingFilter) bool {
		return f.Query == "bike" && f.Limit == 10
	})).Return(expected, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/v1/listing/search?q=bike&limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var respBody map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &respBody)
	assert.NoError(t, err)
	data, ok := respBody["listings"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 2)
	mockListingSvc.AssertExpectations(t)
}

func TestListingHandler_Create_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockListingSvc := new(MockListingService)
	handler := handlers.NewListingHandler(mockListingSvc)

	sellerID := utils.NewSixID()
	r := gin.New()
	r.POST("/v1/listing", fakeAuth(sellerID), handler.Create)

	created := &models.Product{
		ID:       utils.NewSixID(),
		SellerID: sellerID,
		Name:     "Canoe",
		Price:    250,
	}
	mockListingSvc.On("Create", mock.Anything, sellerID, mock.MatchedBy(func(in services.ListingInput) bool {
		return in.Name == "Canoe" && in.Price == 250 && in.Negotiable
	})).Return(created, nil)

	body := `{"name":"Canoe","price":250,"negotiable":true}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockListingSvc.AssertExpectations(t)
}

func TestListingHandler_Create_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockListingSvc := new(MockListingService)
	handler := handlers.NewListingHandler(mockListingSvc)

	r := gin.New()
	r.POST("/v1/listing", handler.Create)

	body := `{"name":"Canoe","price":250}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockListingSvc.AssertNotCalled(t, "Create")
}

func TestListingHandler_Create_MissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockListingSvc := new(MockListingService)
	handler := handlers.NewListingHandler(mockListingSvc)

	r := gin.New()
	r.POST("/v1/listing", fakeAuth(utils.NewSixID()), handler.Create)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/v1/listing", strings.NewReader(`{"price":10}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockListingSvc.AssertNotCalled(t, "Create")
}
