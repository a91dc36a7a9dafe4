package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type RatingAggregate struct {
	Average float64
	Count   int
}

type ReviewRepo interface {
	Create(ctx context.Context, tx *gorm.DB, review *types.Review) (*types.Review, error)
	Update(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, rating float64, comment string) error
	GetByProductAndUser(ctx context.Context, tx *gorm.DB, productID, userID uuid.UUID) (*types.Review, error)
	ListByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.Review, error)
	AggregateForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (RatingAggregate, error)
}

type reviewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReviewRepo(db *gorm.DB, baseLog *logger.Logger) ReviewRepo {
	repoLog := baseLog.With("repo", "ReviewRepo")
	return &reviewRepo{db: db, log: repoLog}
}

func (rr *reviewRepo) Create(ctx context.Context, tx *gorm.DB, review *types.Review) (*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if err := transaction.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (rr *reviewRepo) Update(ctx context.Context, tx *gorm.DB, reviewID uuid.UUID, rating float64, comment string) error {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.Review{}).
		Where("id = ?", reviewID).
		Updates(map[string]any{
			"rating":  rating,
			"comment": comment,
		}).Error
}

func (rr *reviewRepo) GetByProductAndUser(ctx context.Context, tx *gorm.DB, productID, userID uuid.UUID) (*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var result types.Review
	err := transaction.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *reviewRepo) ListByProductID(ctx context.Context, tx *gorm.DB, productID uuid.UUID) ([]*types.Review, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Review
	if err := transaction.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *reviewRepo) AggregateForProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID) (RatingAggregate, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var row struct {
		Average float64
		Count   int64
	}
	if err := transaction.WithContext(ctx).
		Model(&types.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Scan(&row).Error; err != nil {
		return RatingAggregate{}, err
	}
	return RatingAggregate{Average: row.Average, Count: int(row.Count)}, nil
}
