package db

import (
	types "github.com/shopina/shopina-backend/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// Identity + auth
		&types.User{},
		&types.UserToken{},
		&types.TwoFactorCode{},

		// Catalog
		&types.Category{},
		&types.Product{},

		// Cart aggregate
		&types.Cart{},
		&types.CartItem{},

		// Orders + bulk import
		&types.Order{},
		&types.OrderItem{},
		&types.ImportRun{},

		// Payments
		&types.Payment{},
		&types.WebhookEvent{},

		// Reviews
		&types.Review{},
	)
}
