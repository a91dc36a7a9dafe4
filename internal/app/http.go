package app

import (
	"github.com/gin-gonic/gin"

	"github.com/shopina/shopina-backend/internal/http"
	httpH "github.com/shopina/shopina-backend/internal/http/handlers"
	httpMW "github.com/shopina/shopina-backend/internal/http/middleware"
	"github.com/shopina/shopina-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	User    *httpH.UserHandler
	Catalog *httpH.CatalogHandler
	Cart    *httpH.CartHandler
	Order   *httpH.OrderHandler
	Payment *httpH.PaymentHandler
	Review  *httpH.ReviewHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services, repos Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Auth:    httpH.NewAuthHandler(services.Auth, services.TwoFactor),
		User:    httpH.NewUserHandler(repos.User),
		Catalog: httpH.NewCatalogHandler(services.Catalog),
		Cart:    httpH.NewCartHandler(services.Cart),
		Order:   httpH.NewOrderHandler(services.Order, services.Import),
		Payment: httpH.NewPaymentHandler(services.Payment),
		Review:  httpH.NewReviewHandler(services.Review),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireRouter(log *logger.Logger, handlers Handlers, middleware Middleware) *gin.Engine {
	return http.NewRouter(http.RouterConfig{
		Log:            log,
		AuthMiddleware: middleware.Auth,
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		UserHandler:    handlers.User,
		CatalogHandler: handlers.Catalog,
		CartHandler:    handlers.Cart,
		OrderHandler:   handlers.Order,
		PaymentHandler: handlers.Payment,
		ReviewHandler:  handlers.Review,
	})
}
