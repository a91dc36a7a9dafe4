package order

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type ImportRunRepo interface {
	Create(ctx context.Context, tx *gorm.DB, run *types.ImportRun) (*types.ImportRun, error)
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ImportRun, error)
}

type importRunRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewImportRunRepo(db *gorm.DB, baseLog *logger.Logger) ImportRunRepo {
	repoLog := baseLog.With("repo", "ImportRunRepo")
	return &importRunRepo{db: db, log: repoLog}
}

func (ir *importRunRepo) Create(ctx context.Context, tx *gorm.DB, run *types.ImportRun) (*types.ImportRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if err := transaction.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

func (ir *importRunRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ImportRun, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.ImportRun
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
