package http

import (
	"github.com/gin-gonic/gin"
	"github.com/roomstyler/backend/config"
	"github.com/roomstyler/backend/internal/infrastructure/ratelimit"
)

// SetupRouter creates and configures the Gin router. The caller owns limiter
// and closes it when the server stops.
func SetupRouter(cfg *config.Config, handler *Handler, limiter *ratelimit.IPLimiter) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(limiter))
	router.Use(BodyLimitMiddleware(cfg.Server.MaxBodyBytes))

	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)

	// Design and shopping endpoints
	router.POST("/shopping-search", handler.ShoppingSearch)
	router.POST("/search-furniture", handler.SearchFurniture)
	router.POST("/generate-room-design", handler.GenerateRoomDesign)
	router.POST("/test-serp", handler.TestSerp)

	// Gallery endpoints
	gallery := router.Group("/api/gallery")
	{
		gallery.POST("/upload", handler.UploadGalleryImage)
		gallery.GET("", handler.ListGalleryImages)
		gallery.DELETE("/:id", handler.DeleteGalleryImage)
		gallery.GET("/:id/shopping-list.xlsx", handler.DownloadShoppingList)
	}

	return router
}
