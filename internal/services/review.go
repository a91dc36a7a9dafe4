package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	reviewrepo "github.com/shopina/shopina-backend/internal/data/repos/review"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type ReviewService interface {
	// Upsert creates or replaces the caller's review for the product and
	// recomputes the product rating aggregate in the same transaction.
	Upsert(ctx context.Context, userID, productID uuid.UUID, rating float64, comment string) (*types.Review, error)
	ListForProduct(ctx context.Context, productID uuid.UUID) ([]*types.Review, error)
}

type reviewService struct {
	db          *gorm.DB
	log         *logger.Logger
	reviewRepo  reviewrepo.ReviewRepo
	productRepo catalogrepo.ProductRepo
	catalogSvc  CatalogService
}

func NewReviewService(
	db *gorm.DB,
	baseLog *logger.Logger,
	reviewRepo reviewrepo.ReviewRepo,
	productRepo catalogrepo.ProductRepo,
	catalogSvc CatalogService,
) ReviewService {
	svcLog := baseLog.With("service", "ReviewService")
	return &reviewService{db: db, log: svcLog, reviewRepo: reviewRepo, productRepo: productRepo, catalogSvc: catalogSvc}
}

func (s *reviewService) Upsert(ctx context.Context, userID, productID uuid.UUID, rating float64, comment string) (*types.Review, error) {
	if rating < 0 || rating > 5 {
		return nil, apierr.Validation("rating must be between 0 and 5")
	}
	comment = strings.TrimSpace(comment)

	var saved *types.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil || !product.IsActive {
			return apierr.NotFound("product not found")
		}

		existing, err := s.reviewRepo.GetByProductAndUser(ctx, tx, productID, userID)
		if err != nil {
			return err
		}
		if existing != nil {
			if err := s.reviewRepo.Update(ctx, tx, existing.ID, rating, comment); err != nil {
				return err
			}
			existing.Rating = rating
			existing.Comment = comment
			saved = existing
		} else {
			saved, err = s.reviewRepo.Create(ctx, tx, &types.Review{
				ID:        uuid.New(),
				ProductID: productID,
				UserID:    userID,
				Rating:    rating,
				Comment:   comment,
			})
			if err != nil {
				return err
			}
		}

		agg, err := s.reviewRepo.AggregateForProduct(ctx, tx, productID)
		if err != nil {
			return err
		}
		return s.productRepo.UpdateRating(ctx, tx, productID, agg.Average, agg.Count)
	})
	if err != nil {
		return nil, err
	}

	s.catalogSvc.InvalidateTopProducts(ctx)
	return saved, nil
}

func (s *reviewService) ListForProduct(ctx context.Context, productID uuid.UUID) ([]*types.Review, error) {
	product, err := s.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apierr.NotFound("product not found")
	}
	return s.reviewRepo.ListByProductID(ctx, nil, productID)
}
