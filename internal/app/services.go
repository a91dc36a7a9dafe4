package app

import (
	"gorm.io/gorm"

	"github.com/shopina/shopina-backend/internal/platform/logger"
	"github.com/shopina/shopina-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	TwoFactor    services.TwoFactorService
	Notification services.NotificationService
	Catalog      services.CatalogService
	Cart         services.CartService
	Order        services.OrderService
	Import       services.ImportService
	Payment      services.PaymentService
	Review       services.ReviewService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, clients Clients) Services {
	log.Info("Wiring services...")

	notification := services.NewNotificationService(log, clients.Mailer, repos.User)
	catalog := services.NewCatalogService(db, log, repos.Category, repos.Product, clients.Cache)
	cart := services.NewCartService(db, log, repos.Cart, repos.Product)

	return Services{
		Auth: services.NewAuthService(db, log, services.AuthConfig{
			JWTSecret:  cfg.JWTSecretKey,
			AccessTTL:  cfg.AccessTokenTTL,
			RefreshTTL: cfg.RefreshTokenTTL,
		}, repos.User, repos.UserToken),
		TwoFactor: services.NewTwoFactorService(db, log, services.TwoFactorConfig{
			Secret: cfg.TwoFactorSecret,
			TTL:    cfg.TwoFactorTTL,
			Env:    cfg.Env,
		}, repos.User, repos.TwoFactor, notification),
		Notification: notification,
		Catalog:      catalog,
		Cart:         cart,
		Order:        services.NewOrderService(db, log, repos.Order, repos.Cart, repos.Product, cart, notification),
		Import:       services.NewImportService(db, log, repos.User, repos.Product, repos.Order, repos.ImportRun),
		Payment: services.NewPaymentService(db, log, services.PaymentConfig{
			WebhookSecret: cfg.WebhookSecret,
			Currency:      cfg.Currency,
		}, clients.Stripe, repos.Payment, repos.WebhookEvent, repos.Order),
		Review: services.NewReviewService(db, log, repos.Review, repos.Product, catalog),
	}
}
