package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type CartRepo interface {
	// GetOrCreateByUserID enforces the one-cart-per-user invariant.
	GetOrCreateByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Cart, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Cart, error)
	GetItemByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.CartItem, error)
	GetItemByProduct(ctx context.Context, tx *gorm.DB, cartID, productID uuid.UUID) (*types.CartItem, error)
	CreateItem(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error)
	UpdateItemQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error
	DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error
	DeleteItemsByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	repoLog := baseLog.With("repo", "CartRepo")
	return &cartRepo{db: db, log: repoLog}
}

func (cr *cartRepo) GetOrCreateByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	existing, err := cr.getByUserID(ctx, transaction, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	created := &types.Cart{ID: uuid.New(), UserID: userID}
	if err := transaction.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (cr *cartRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Cart, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return cr.getByUserID(ctx, transaction, userID)
}

func (cr *cartRepo) getByUserID(ctx context.Context, transaction *gorm.DB, userID uuid.UUID) (*types.Cart, error) {
	var result types.Cart
	err := transaction.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *cartRepo) GetItemByID(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) (*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.CartItem
	err := transaction.WithContext(ctx).
		Preload("Product").
		Where("id = ?", itemID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *cartRepo) GetItemByProduct(ctx context.Context, tx *gorm.DB, cartID, productID uuid.UUID) (*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	var result types.CartItem
	err := transaction.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *cartRepo) CreateItem(ctx context.Context, tx *gorm.DB, item *types.CartItem) (*types.CartItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (cr *cartRepo) UpdateItemQuantity(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, quantity int) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CartItem{}).
		Where("id = ?", itemID).
		Update("quantity", quantity).Error
}

func (cr *cartRepo) DeleteItem(ctx context.Context, tx *gorm.DB, itemID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", itemID).
		Delete(&types.CartItem{}).Error
}

func (cr *cartRepo) DeleteItemsByCartID(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&types.CartItem{}).Error
}
