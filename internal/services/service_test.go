package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	cartrepo "github.com/shopina/shopina-backend/internal/data/repos/cart"
	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	orderrepo "github.com/shopina/shopina-backend/internal/data/repos/order"
	paymentrepo "github.com/shopina/shopina-backend/internal/data/repos/payment"
	reviewrepo "github.com/shopina/shopina-backend/internal/data/repos/review"
	"github.com/shopina/shopina-backend/internal/data/repos/testutil"
	userrepo "github.com/shopina/shopina-backend/internal/data/repos/user"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
)

// testEnv wires every service against a throwaway sqlite database so
// transactional behavior is exercised end to end.
type testEnv struct {
	db *gorm.DB

	userRepo      userrepo.UserRepo
	tokenRepo     userrepo.UserTokenRepo
	twoFactorRepo userrepo.TwoFactorRepo
	categoryRepo  catalogrepo.CategoryRepo
	productRepo   catalogrepo.ProductRepo
	cartRepo      cartrepo.CartRepo
	orderRepo     orderrepo.OrderRepo
	importRunRepo orderrepo.ImportRunRepo
	paymentRepo   paymentrepo.PaymentRepo
	webhookRepo   paymentrepo.WebhookEventRepo
	reviewRepo    reviewrepo.ReviewRepo

	notifier NotificationService
	catalog  CatalogService
	cart     CartService
	order    OrderService
	importer ImportService
	review   ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SQLiteDB(t)
	log := testutil.Logger(t)

	env := &testEnv{
		db:            db,
		userRepo:      userrepo.NewUserRepo(db, log),
		tokenRepo:     userrepo.NewUserTokenRepo(db, log),
		twoFactorRepo: userrepo.NewTwoFactorRepo(db, log),
		categoryRepo:  catalogrepo.NewCategoryRepo(db, log),
		productRepo:   catalogrepo.NewProductRepo(db, log),
		cartRepo:      cartrepo.NewCartRepo(db, log),
		orderRepo:     orderrepo.NewOrderRepo(db, log),
		importRunRepo: orderrepo.NewImportRunRepo(db, log),
		paymentRepo:   paymentrepo.NewPaymentRepo(db, log),
		webhookRepo:   paymentrepo.NewWebhookEventRepo(db, log),
		reviewRepo:    reviewrepo.NewReviewRepo(db, log),
	}

	env.notifier = NewNotificationService(log, nil, env.userRepo)
	env.catalog = NewCatalogService(db, log, env.categoryRepo, env.productRepo, nil)
	env.cart = NewCartService(db, log, env.cartRepo, env.productRepo)
	env.order = NewOrderService(db, log, env.orderRepo, env.cartRepo, env.productRepo, env.cart, env.notifier)
	env.importer = NewImportService(db, log, env.userRepo, env.productRepo, env.orderRepo, env.importRunRepo)
	env.review = NewReviewService(db, log, env.reviewRepo, env.productRepo, env.catalog)

	return env
}

func (e *testEnv) newAuth(t *testing.T) AuthService {
	t.Helper()
	return NewAuthService(e.db, testutil.Logger(t), AuthConfig{
		JWTSecret:  "test-secret",
		AccessTTL:  time.Hour,
		RefreshTTL: 24 * time.Hour,
	}, e.userRepo, e.tokenRepo)
}

func (e *testEnv) newTwoFactor(t *testing.T, env string) TwoFactorService {
	t.Helper()
	return NewTwoFactorService(e.db, testutil.Logger(t), TwoFactorConfig{
		Secret: "otp-secret",
		TTL:    10 * time.Minute,
		Env:    env,
	}, e.userRepo, e.twoFactorRepo, e.notifier)
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %q, got nil", code)
	}
	if !apierr.IsCode(err, code) {
		t.Fatalf("expected error code %q, got %v", code, err)
	}
}
