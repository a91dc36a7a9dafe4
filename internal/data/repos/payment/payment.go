package payment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type PaymentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, payment *types.Payment) (*types.Payment, error)
	GetByIntent(ctx context.Context, tx *gorm.DB, paymentIntent string) (*types.Payment, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, paymentIntent, status string) error
}

type paymentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPaymentRepo(db *gorm.DB, baseLog *logger.Logger) PaymentRepo {
	repoLog := baseLog.With("repo", "PaymentRepo")
	return &paymentRepo{db: db, log: repoLog}
}

func (pr *paymentRepo) Create(ctx context.Context, tx *gorm.DB, payment *types.Payment) (*types.Payment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if err := transaction.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (pr *paymentRepo) GetByIntent(ctx context.Context, tx *gorm.DB, paymentIntent string) (*types.Payment, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var result types.Payment
	err := transaction.WithContext(ctx).
		Where("payment_intent = ?", paymentIntent).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *paymentRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, paymentIntent, status string) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Payment{}).
		Where("payment_intent = ?", paymentIntent).
		Update("status", status).Error
}
