package app

import (
	"gorm.io/gorm"

	cartrepo "github.com/shopina/shopina-backend/internal/data/repos/cart"
	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	orderrepo "github.com/shopina/shopina-backend/internal/data/repos/order"
	paymentrepo "github.com/shopina/shopina-backend/internal/data/repos/payment"
	reviewrepo "github.com/shopina/shopina-backend/internal/data/repos/review"
	userrepo "github.com/shopina/shopina-backend/internal/data/repos/user"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	UserToken userrepo.UserTokenRepo
	TwoFactor userrepo.TwoFactorRepo

	Category catalogrepo.CategoryRepo
	Product  catalogrepo.ProductRepo

	Cart cartrepo.CartRepo

	Order     orderrepo.OrderRepo
	ImportRun orderrepo.ImportRunRepo

	Payment      paymentrepo.PaymentRepo
	WebhookEvent paymentrepo.WebhookEventRepo

	Review reviewrepo.ReviewRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		UserToken: userrepo.NewUserTokenRepo(db, log),
		TwoFactor: userrepo.NewTwoFactorRepo(db, log),

		Category: catalogrepo.NewCategoryRepo(db, log),
		Product:  catalogrepo.NewProductRepo(db, log),

		Cart: cartrepo.NewCartRepo(db, log),

		Order:     orderrepo.NewOrderRepo(db, log),
		ImportRun: orderrepo.NewImportRunRepo(db, log),

		Payment:      paymentrepo.NewPaymentRepo(db, log),
		WebhookEvent: paymentrepo.NewWebhookEventRepo(db, log),

		Review: reviewrepo.NewReviewRepo(db, log),
	}
}
