package http

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/shopina/shopina-backend/internal/http/handlers"
	httpMW "github.com/shopina/shopina-backend/internal/http/middleware"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler  *httpH.HealthHandler
	AuthHandler    *httpH.AuthHandler
	UserHandler    *httpH.UserHandler
	CatalogHandler *httpH.CatalogHandler
	CartHandler    *httpH.CartHandler
	OrderHandler   *httpH.OrderHandler
	PaymentHandler *httpH.PaymentHandler
	ReviewHandler  *httpH.ReviewHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	r.GET("/healthz", cfg.HealthHandler.HealthCheck)

	api := r.Group("/api")

	// Public
	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/refresh", cfg.AuthHandler.Refresh)
	}
	api.GET("/categories", cfg.CatalogHandler.ListCategories)
	api.GET("/products", cfg.CatalogHandler.ListProducts)
	api.GET("/products/top", cfg.CatalogHandler.TopProducts)
	api.GET("/products/:id", cfg.CatalogHandler.GetProduct)
	api.GET("/products/:id/reviews", cfg.ReviewHandler.ListForProduct)
	api.POST("/payments/webhook", cfg.PaymentHandler.Webhook)

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		protected.POST("/auth/logout", cfg.AuthHandler.Logout)
		protected.POST("/auth/2fa/start", cfg.AuthHandler.StartTwoFactor)
		protected.POST("/auth/2fa/verify", cfg.AuthHandler.VerifyTwoFactor)

		protected.GET("/me", cfg.UserHandler.GetMe)

		protected.POST("/categories", cfg.CatalogHandler.CreateCategory)
		protected.POST("/products", cfg.CatalogHandler.CreateProduct)
		protected.PUT("/products/:id", cfg.CatalogHandler.UpdateProduct)
		protected.POST("/products/:id/reviews", cfg.ReviewHandler.Upsert)

		protected.GET("/cart", cfg.CartHandler.GetCart)
		protected.POST("/cart/items", cfg.CartHandler.AddItem)
		protected.PUT("/cart/items/:id", cfg.CartHandler.UpdateItem)
		protected.DELETE("/cart/items/:id", cfg.CartHandler.RemoveItem)
		protected.DELETE("/cart", cfg.CartHandler.ClearCart)

		protected.GET("/orders", cfg.OrderHandler.List)
		protected.POST("/orders", cfg.OrderHandler.Checkout)
		protected.GET("/orders/:id", cfg.OrderHandler.Get)
		protected.POST("/orders/:id/cancel", cfg.OrderHandler.Cancel)
		protected.POST("/orders/import", cfg.OrderHandler.Import)
		protected.GET("/orders/imports", cfg.OrderHandler.ListImportRuns)

		protected.POST("/payments/intent", cfg.PaymentHandler.CreateIntent)
	}

	return r
}
