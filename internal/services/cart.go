package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartrepo "github.com/shopina/shopina-backend/internal/data/repos/cart"
	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

const (
	minLineQuantity = 1
	maxLineQuantity = 10000
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*types.Cart, error)
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*types.Cart, error)
	UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*types.Cart, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*types.Cart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error

	// ValidateForCheckout re-checks every line against live product state and
	// returns the loaded cart. It never mutates anything.
	ValidateForCheckout(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Cart, error)
}

type cartService struct {
	db          *gorm.DB
	log         *logger.Logger
	cartRepo    cartrepo.CartRepo
	productRepo catalogrepo.ProductRepo
}

func NewCartService(db *gorm.DB, baseLog *logger.Logger, cartRepo cartrepo.CartRepo, productRepo catalogrepo.ProductRepo) CartService {
	svcLog := baseLog.With("service", "CartService")
	return &cartService{db: db, log: svcLog, cartRepo: cartRepo, productRepo: productRepo}
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*types.Cart, error) {
	return s.cartRepo.GetOrCreateByUserID(ctx, nil, userID)
}

func (s *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*types.Cart, error) {
	if quantity < minLineQuantity || quantity > maxLineQuantity {
		return nil, apierr.Validation("quantity must be between %d and %d", minLineQuantity, maxLineQuantity)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.GetByID(ctx, tx, productID)
		if err != nil {
			return err
		}
		if product == nil || !product.IsActive {
			return apierr.NotFound("product not found")
		}

		cart, err := s.cartRepo.GetOrCreateByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}

		existing, err := s.cartRepo.GetItemByProduct(ctx, tx, cart.ID, product.ID)
		if err != nil {
			return err
		}

		newQuantity := quantity
		if existing != nil {
			newQuantity += existing.Quantity
		}
		if newQuantity > maxLineQuantity {
			return apierr.Validation("quantity must be between %d and %d", minLineQuantity, maxLineQuantity)
		}
		if newQuantity > product.Stock {
			return apierr.InsufficientStock("Insufficient stock for %s", product.Name)
		}

		if existing != nil {
			return s.cartRepo.UpdateItemQuantity(ctx, tx, existing.ID, newQuantity)
		}
		_, err = s.cartRepo.CreateItem(ctx, tx, &types.CartItem{
			ID:         uuid.New(),
			CartID:     cart.ID,
			ProductID:  product.ID,
			Quantity:   newQuantity,
			PriceAtAdd: product.Price,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUserID(ctx, nil, userID)
}

func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*types.Cart, error) {
	if quantity < minLineQuantity || quantity > maxLineQuantity {
		return nil, apierr.Validation("quantity must be between %d and %d", minLineQuantity, maxLineQuantity)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.ownedItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		product, err := s.productRepo.GetByID(ctx, tx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.IsActive {
			return apierr.NotFound("product not found")
		}
		if quantity > product.Stock {
			return apierr.InsufficientStock("Insufficient stock for %s", product.Name)
		}
		return s.cartRepo.UpdateItemQuantity(ctx, tx, item.ID, quantity)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUserID(ctx, nil, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*types.Cart, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.ownedItem(ctx, tx, userID, itemID)
		if err != nil {
			return err
		}
		return s.cartRepo.DeleteItem(ctx, tx, item.ID)
	})
	if err != nil {
		return nil, err
	}
	return s.cartRepo.GetByUserID(ctx, nil, userID)
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartRepo.GetByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return nil
		}
		return s.cartRepo.DeleteItemsByCartID(ctx, tx, cart.ID)
	})
}

func (s *cartService) ValidateForCheckout(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Cart, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, apierr.BusinessLogic("cart is empty")
	}
	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := s.productRepo.GetByID(ctx, tx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, apierr.BusinessLogic("product %s is no longer available", item.ProductID)
		}
		if item.Quantity > product.Stock {
			return nil, apierr.InsufficientStock("Insufficient stock for %s", product.Name)
		}
	}
	return cart, nil
}

// ownedItem loads a cart item and rejects items that belong to another
// user's cart.
func (s *cartService) ownedItem(ctx context.Context, tx *gorm.DB, userID, itemID uuid.UUID) (*types.CartItem, error) {
	item, err := s.cartRepo.GetItemByID(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apierr.NotFound("cart item not found")
	}
	cart, err := s.cartRepo.GetByUserID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.ID != item.CartID {
		return nil, apierr.NotFound("cart item not found")
	}
	return item, nil
}
