package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/karanxa1/trade-mart/internal/api/handlers"
	"github.com/karanxa1/trade-mart/internal/api/middleware"
	"github.com/karanxa1/trade-mart/internal/config"
	"github.com/karanxa1/trade-mart/internal/services"
)

// SetupRouter configures and returns the main Gin engine. notifier may be
// nil when no background worker is running.
func SetupRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, notifier services.Notifier) *gin.Engine {
	userService := services.NewUserService(db, cfg)
	listingService := services.NewListingService(db)
	cartService := services.NewCartService(db, listingService)
	offerService := services.NewOfferService(db, listingService, userService, notifier)
	orderService := services.NewOrderService(db, cfg, listingService, cartService, userService, notifier)
	reviewService := services.NewReviewService(db, userService)
	referenceService := services.NewReferenceService(db, rdb, cfg.ReferenceCacheTTL)
	adminService := services.NewAdminService(db, listingService, userService, reviewService)

	r := gin.Default()

	rateLimiter := middleware.NewRateLimiterMiddleware(cfg)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewAuthHandler(cfg, userService)
	listingHandler := handlers.NewListingHandler(listingService)
	cartHandler := handlers.NewCartHandler(cartService)
	offerHandler := handlers.NewOfferHandler(offerService)
	orderHandler := handlers.NewOrderHandler(orderService)
	userHandler := handlers.NewUserHandler(userService, reviewService)
	referenceHandler := handlers.NewReferenceHandler(referenceService)
	adminHandler := handlers.NewAdminHandler(adminService)

	v1 := r.Group("/v1")
	{
		// Public routes
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/listing/search", listingHandler.Search)
		v1.GET("/listing/:id", listingHandler.GetByID)
		v1.GET("/user/:id", userHandler.GetByID)
		v1.GET("/seller/:id/reviews", userHandler.SellerReviews)
		v1.GET("/categories", referenceHandler.Categories)
		v1.GET("/conditions", referenceHandler.Conditions)
		v1.GET("/track/:ref", orderHandler.Track)

		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		// Authenticated routes
		authRequired := v1.Group("/")
		authRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret))
		{
			authRequired.POST("/listing", listingHandler.Create)
			authRequired.GET("/seller/listings", listingHandler.MyListings)

			authRequired.GET("/cart", cartHandler.List)
			authRequired.DELETE("/cart", cartHandler.Clear)
			authRequired.POST("/cart/:listing_id", cartHandler.Add)
			authRequired.PUT("/cart/:listing_id", cartHandler.UpdateQuantity)
			authRequired.DELETE("/cart/:listing_id", cartHandler.Remove)

			authRequired.POST("/listing/:id/offer", offerHandler.Submit)
			authRequired.GET("/listing/:id/offers", offerHandler.ListByListing)
			authRequired.POST("/offer/:id/respond", offerHandler.Respond)
			authRequired.GET("/offers", offerHandler.ListMine)
			authRequired.GET("/seller/offers", offerHandler.SellerInbox)

			authRequired.POST("/checkout", orderHandler.Checkout)
			authRequired.GET("/orders", orderHandler.ListMine)
			authRequired.GET("/order/:id", orderHandler.GetByID)
			authRequired.POST("/order/:id/tracking", orderHandler.UpdateTracking)
			authRequired.GET("/seller/orders", orderHandler.SellerOrders)

			authRequired.DELETE("/user/me", userHandler.DeleteAccount)
			authRequired.POST("/seller/:id/review", userHandler.CreateReview)
			authRequired.POST("/seller/verification", userHandler.SubmitVerification)
		}

		// Admin routes
		adminRequired := v1.Group("/admin")
		adminRequired.Use(middleware.AuthMiddleware(cfg.JwtSecret), middleware.AdminMiddleware())
		{
			adminRequired.GET("/listings/pending", adminHandler.PendingListings)
			adminRequired.POST("/listing/:id/approve", adminHandler.ApproveListing)
			adminRequired.POST("/listing/:id/reject", adminHandler.RejectListing)
			adminRequired.DELETE("/listing/:id", adminHandler.DeleteListing)

			adminRequired.POST("/seller/:id/suspend", adminHandler.SuspendSeller)
			adminRequired.POST("/seller/:id/unsuspend", adminHandler.UnsuspendSeller)
			adminRequired.GET("/seller/:id/standing", adminHandler.SellerStanding)

			adminRequired.GET("/verifications/pending", adminHandler.PendingVerifications)
			adminRequired.POST("/verification/:id/approve", adminHandler.ApproveVerification)
			adminRequired.POST("/verification/:id/reject", adminHandler.RejectVerification)
		}
	}

	return r
}
