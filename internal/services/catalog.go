package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/logger"
	"github.com/shopina/shopina-backend/internal/platform/redis"
)

const (
	topProductsCacheKey = "catalog:top_products"
	topProductsCacheTTL = 5 * time.Minute
	topProductsLimit    = 10
)

type ProductInput struct {
	Name        string          `json:"name"`
	Slug        string          `json:"slug"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
	IsActive    *bool           `json:"is_active"`
}

type CatalogService interface {
	Categories(ctx context.Context) ([]*types.Category, error)
	CreateCategory(ctx context.Context, name string) (*types.Category, error)

	Products(ctx context.Context, q catalogrepo.ProductSearch) ([]*types.Product, error)
	ProductByID(ctx context.Context, productID uuid.UUID) (*types.Product, error)
	ProductBySlug(ctx context.Context, slug string) (*types.Product, error)
	TopProducts(ctx context.Context) ([]*types.Product, error)

	CreateProduct(ctx context.Context, in ProductInput) (*types.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, in ProductInput) (*types.Product, error)

	// InvalidateTopProducts drops the cached ranking; review writes call it
	// after changing product ratings.
	InvalidateTopProducts(ctx context.Context)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	categoryRepo catalogrepo.CategoryRepo
	productRepo  catalogrepo.ProductRepo
	cache        *redis.Cache
}

func NewCatalogService(
	db *gorm.DB,
	baseLog *logger.Logger,
	categoryRepo catalogrepo.CategoryRepo,
	productRepo catalogrepo.ProductRepo,
	cache *redis.Cache,
) CatalogService {
	svcLog := baseLog.With("service", "CatalogService")
	return &catalogService{db: db, log: svcLog, categoryRepo: categoryRepo, productRepo: productRepo, cache: cache}
}

func (s *catalogService) Categories(ctx context.Context) ([]*types.Category, error) {
	return s.categoryRepo.List(ctx, nil)
}

func (s *catalogService) CreateCategory(ctx context.Context, name string) (*types.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apierr.Validation("category name is required")
	}
	existing, err := s.categoryRepo.GetByName(ctx, nil, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apierr.Duplicate("category %s already exists", name)
	}
	return s.categoryRepo.Create(ctx, nil, &types.Category{ID: uuid.New(), Name: name})
}

func (s *catalogService) Products(ctx context.Context, q catalogrepo.ProductSearch) ([]*types.Product, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 50
	}
	return s.productRepo.Search(ctx, nil, q)
}

func (s *catalogService) ProductByID(ctx context.Context, productID uuid.UUID) (*types.Product, error) {
	product, err := s.productRepo.GetByID(ctx, nil, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apierr.NotFound("product not found")
	}
	return product, nil
}

func (s *catalogService) ProductBySlug(ctx context.Context, slug string) (*types.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, apierr.NotFound("product not found")
	}
	return product, nil
}

func (s *catalogService) TopProducts(ctx context.Context) ([]*types.Product, error) {
	var cached []*types.Product
	if s.cache.GetJSON(ctx, topProductsCacheKey, &cached) {
		return cached, nil
	}
	products, err := s.productRepo.TopRated(ctx, nil, topProductsLimit)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, topProductsCacheKey, products, topProductsCacheTTL)
	return products, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, in ProductInput) (*types.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.Validation("product name is required")
	}
	if in.Price.IsNegative() {
		return nil, apierr.Validation("price cannot be negative")
	}
	if in.Stock < 0 {
		return nil, apierr.Validation("stock cannot be negative")
	}

	var created *types.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slug, err := s.uniqueSlug(ctx, tx, in.Slug, name)
		if err != nil {
			return err
		}
		categoryID, err := s.resolveCategory(ctx, tx, in.Category)
		if err != nil {
			return err
		}

		product := &types.Product{
			ID:          uuid.New(),
			Name:        name,
			Slug:        slug,
			CategoryID:  categoryID,
			Description: strings.TrimSpace(in.Description),
			Price:       in.Price,
			ImageURL:    strings.TrimSpace(in.ImageURL),
			Stock:       in.Stock,
			IsActive:    true,
		}
		if in.IsActive != nil {
			product.IsActive = *in.IsActive
		}
		created, err = s.productRepo.Create(ctx, tx, product)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, productID uuid.UUID, in ProductInput) (*types.Product, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return apierr.NotFound("product not found")
		}

		fields := map[string]any{}
		if name := strings.TrimSpace(in.Name); name != "" && name != product.Name {
			fields["name"] = name
		}
		if slug := strings.TrimSpace(in.Slug); slug != "" && slug != product.Slug {
			unique, err := s.uniqueSlug(ctx, tx, slug, "")
			if err != nil {
				return err
			}
			fields["slug"] = unique
		}
		if c := strings.TrimSpace(in.Category); c != "" {
			categoryID, err := s.resolveCategory(ctx, tx, c)
			if err != nil {
				return err
			}
			fields["category_id"] = categoryID
		}
		if d := strings.TrimSpace(in.Description); d != "" {
			fields["description"] = d
		}
		if !in.Price.IsZero() {
			if in.Price.IsNegative() {
				return apierr.Validation("price cannot be negative")
			}
			fields["price"] = in.Price
		}
		if img := strings.TrimSpace(in.ImageURL); img != "" {
			fields["image_url"] = img
		}
		if in.IsActive != nil {
			fields["is_active"] = *in.IsActive
		}

		return s.productRepo.Update(ctx, tx, productID, fields)
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateTopProducts(ctx)
	return s.productRepo.GetByID(ctx, nil, productID)
}

func (s *catalogService) InvalidateTopProducts(ctx context.Context) {
	s.cache.Delete(ctx, topProductsCacheKey)
}

// uniqueSlug slugifies the requested slug (or the name when blank) and
// appends a numeric suffix until it is free.
func (s *catalogService) uniqueSlug(ctx context.Context, tx *gorm.DB, requested, name string) (string, error) {
	base := types.SlugifyProduct(requested)
	if base == "" {
		base = types.SlugifyProduct(name)
	}
	if base == "" {
		return "", apierr.Validation("could not derive a slug")
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := s.productRepo.SlugExists(ctx, tx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *catalogService) resolveCategory(ctx context.Context, tx *gorm.DB, name string) (*uuid.UUID, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	category, err := s.categoryRepo.GetByName(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, apierr.NotFound("category %s not found", name)
	}
	id := category.ID
	return &id, nil
}
