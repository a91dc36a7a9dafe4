package payment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type WebhookEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, event *types.WebhookEvent) (*types.WebhookEvent, error)
	GetByEventID(ctx context.Context, tx *gorm.DB, eventID string) (*types.WebhookEvent, error)
	MarkProcessed(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type webhookEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewWebhookEventRepo(db *gorm.DB, baseLog *logger.Logger) WebhookEventRepo {
	repoLog := baseLog.With("repo", "WebhookEventRepo")
	return &webhookEventRepo{db: db, log: repoLog}
}

func (wr *webhookEventRepo) Create(ctx context.Context, tx *gorm.DB, event *types.WebhookEvent) (*types.WebhookEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	if err := transaction.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

func (wr *webhookEventRepo) GetByEventID(ctx context.Context, tx *gorm.DB, eventID string) (*types.WebhookEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	var result types.WebhookEvent
	err := transaction.WithContext(ctx).
		Where("event_id = ?", eventID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (wr *webhookEventRepo) MarkProcessed(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = wr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.WebhookEvent{}).
		Where("id = ?", id).
		Update("processed", true).Error
}
