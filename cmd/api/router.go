package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bookreview-backend/internal/shared/middleware"
	"bookreview-backend/pkg/cache"
	"bookreview-backend/pkg/container"
)

const (
	searchRPS        = 5
	searchBurst      = 10
	searchLimiterTTL = 10 * time.Minute
)

func SetupRouter(ctx context.Context, c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	admin := []gin.HandlerFunc{
		middleware.AuthMiddleware(c.JWTManager),
		middleware.RequireAdmin(),
	}

	limiter := middleware.NewIPRateLimiter(searchRPS, searchBurst, searchLimiterTTL)
	go limiter.Cleanup(ctx, time.Minute)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupAuthorRoutes(v1, c, admin)
		setupBookRoutes(v1, c, admin)
		setupReviewRoutes(v1, c, admin)
		setupSaleRoutes(v1, c, admin)
		setupReportRoutes(v1, c)
		setupSearchRoutes(v1, c, limiter)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/token", issueTokenHandler(c))
	}
}

// ========================================
// AUTHOR ROUTES
// ========================================
func setupAuthorRoutes(v1 *gin.RouterGroup, c *container.Container, admin []gin.HandlerFunc) {
	authors := v1.Group("/authors")
	{
		authors.GET("", c.AuthorHandler.ListAuthors)
		authors.GET("/:id", c.AuthorHandler.GetAuthor)

		protected := authors.Group("", admin...)
		protected.POST("", c.AuthorHandler.CreateAuthor)
		protected.PUT("/:id", c.AuthorHandler.UpdateAuthor)
		protected.DELETE("/:id", c.AuthorHandler.DeleteAuthor)
		protected.POST("/:id/image", c.AuthorHandler.UploadImage)
	}
}

// ========================================
// BOOK ROUTES
// ========================================
func setupBookRoutes(v1 *gin.RouterGroup, c *container.Container, admin []gin.HandlerFunc) {
	books := v1.Group("/books")
	{
		books.GET("", c.BookHandler.ListBooks)
		books.GET("/:id", c.BookHandler.GetBook)
		books.GET("/:id/avg", c.ReportHandler.BookAverageScore)
		books.GET("/:id/reviews", c.ReviewHandler.GetBookReviews)
		books.GET("/:id/sales", c.SaleHandler.GetBookSales)

		protected := books.Group("", admin...)
		protected.POST("", c.BookHandler.CreateBook)
		protected.PUT("/:id", c.BookHandler.UpdateBook)
		protected.DELETE("/:id", c.BookHandler.DeleteBook)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(v1 *gin.RouterGroup, c *container.Container, admin []gin.HandlerFunc) {
	reviews := v1.Group("/reviews")
	{
		reviews.GET("/:id", c.ReviewHandler.GetReview)

		protected := reviews.Group("", admin...)
		protected.POST("", c.ReviewHandler.CreateReview)
		protected.PUT("/:id", c.ReviewHandler.UpdateReview)
		protected.DELETE("/:id", c.ReviewHandler.DeleteReview)
	}
}

// ========================================
// SALE ROUTES
// ========================================
func setupSaleRoutes(v1 *gin.RouterGroup, c *container.Container, admin []gin.HandlerFunc) {
	sales := v1.Group("/sales")
	{
		sales.GET("/:id", c.SaleHandler.GetSale)

		protected := sales.Group("", admin...)
		protected.POST("", c.SaleHandler.CreateSale)
		protected.PUT("/:id", c.SaleHandler.UpdateSale)
		protected.DELETE("/:id", c.SaleHandler.DeleteSale)
	}
}

// ========================================
// REPORT ROUTES
// ========================================
func setupReportRoutes(v1 *gin.RouterGroup, c *container.Container) {
	reports := v1.Group("/reports")
	{
		reports.GET("/authors-summary", c.ReportHandler.AuthorsSummary)
		reports.GET("/top-rated", c.ReportHandler.TopRated)
		reports.GET("/top-selling", c.ReportHandler.TopSelling)
		reports.GET("/top-selling/export", c.ReportHandler.ExportTopSelling)
	}
}

// ========================================
// SEARCH ROUTES
// ========================================
func setupSearchRoutes(v1 *gin.RouterGroup, c *container.Container, limiter *middleware.IPRateLimiter) {
	search := v1.Group("/search", middleware.RateLimit(limiter))
	{
		search.GET("/books", c.ReportHandler.SearchBooks)
		search.GET("/index", c.ReportHandler.IndexSearch)
	}
}

// ========================================
// HEALTH
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := "ok"
		if err := appCtx.DB.Ping(ctx); err != nil {
			dbStatus = "error: " + err.Error()
			health["status"] = "degraded"
		}

		// Check cache, a broken cache only costs latency
		cacheStatus := appCtx.Config.Cache.Backend
		if p, ok := appCtx.Cache.(cache.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				cacheStatus = "error: " + err.Error()
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"cache":    cacheStatus,
			"search":   appCtx.Config.Search.Backend,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
