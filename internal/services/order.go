package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	cartrepo "github.com/shopina/shopina-backend/internal/data/repos/cart"
	catalogrepo "github.com/shopina/shopina-backend/internal/data/repos/catalog"
	orderrepo "github.com/shopina/shopina-backend/internal/data/repos/order"
	types "github.com/shopina/shopina-backend/internal/domain"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/logger"
)

type OrderService interface {
	// CreateFromCart turns the user's cart into a pending order in one
	// transaction. Any stock shortfall rolls back the order, its items and
	// every decrement already applied.
	CreateFromCart(ctx context.Context, userID uuid.UUID) (*types.Order, error)
	Cancel(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error)
	Get(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*types.Order, error)
}

type orderService struct {
	db          *gorm.DB
	log         *logger.Logger
	orderRepo   orderrepo.OrderRepo
	cartRepo    cartrepo.CartRepo
	productRepo catalogrepo.ProductRepo
	cartSvc     CartService
	notifier    NotificationService
}

func NewOrderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	orderRepo orderrepo.OrderRepo,
	cartRepo cartrepo.CartRepo,
	productRepo catalogrepo.ProductRepo,
	cartSvc CartService,
	notifier NotificationService,
) OrderService {
	svcLog := baseLog.With("service", "OrderService")
	return &orderService{
		db:          db,
		log:         svcLog,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		cartSvc:     cartSvc,
		notifier:    notifier,
	}
}

func (s *orderService) CreateFromCart(ctx context.Context, userID uuid.UUID) (*types.Order, error) {
	var created *types.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := s.cartSvc.ValidateForCheckout(ctx, tx, userID)
		if err != nil {
			return err
		}

		order := &types.Order{
			ID:     uuid.New(),
			UserID: userID,
			Status: types.OrderStatusPending,
			Total:  cart.TotalPrice(),
		}
		if _, err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return err
		}

		items := make([]*types.OrderItem, 0, len(cart.Items))
		for i := range cart.Items {
			line := &cart.Items[i]

			ok, err := s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				name := line.ProductID.String()
				if line.Product != nil {
					name = line.Product.Name
				}
				return apierr.InsufficientStock("Insufficient stock for %s", name)
			}

			productID := line.ProductID
			item := &types.OrderItem{
				ID:        uuid.New(),
				OrderID:   order.ID,
				ProductID: &productID,
				Price:     line.PriceAtAdd,
				Quantity:  line.Quantity,
			}
			if line.Product != nil {
				item.ProductName = line.Product.Name
			}
			items = append(items, item)
		}
		if _, err := s.orderRepo.CreateItems(ctx, tx, items); err != nil {
			return err
		}

		if err := s.cartRepo.DeleteItemsByCartID(ctx, tx, cart.ID); err != nil {
			return err
		}

		order.Items = make([]types.OrderItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, *it)
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order created", "order_id", created.ID, "user_id", userID, "total", created.Total)
	if err := s.notifier.SendOrderConfirmation(ctx, userID, created); err != nil {
		s.log.Warn("Order confirmation email failed", "order_id", created.ID, "error", err)
	}
	return created, nil
}

func (s *orderService) Cancel(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error) {
	var cancelled *types.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByIDForUser(ctx, tx, orderID, userID)
		if err != nil {
			return err
		}
		if order == nil {
			return apierr.NotFound("order not found")
		}
		if order.Status != types.OrderStatusPending {
			return apierr.InvalidOrderState("order in state %s cannot be cancelled", order.Status)
		}

		for i := range order.Items {
			item := &order.Items[i]
			if item.ProductID == nil {
				continue
			}
			if err := s.productRepo.IncrementStock(ctx, tx, *item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, types.OrderStatusCancelled); err != nil {
			return err
		}
		order.Status = types.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order cancelled", "order_id", cancelled.ID, "user_id", userID)
	return cancelled, nil
}

func (s *orderService) Get(ctx context.Context, userID, orderID uuid.UUID) (*types.Order, error) {
	order, err := s.orderRepo.GetByIDForUser(ctx, nil, orderID, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apierr.NotFound("order not found")
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, userID uuid.UUID) ([]*types.Order, error) {
	return s.orderRepo.ListByUserID(ctx, nil, userID)
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*types.Order, error) {
	var updated *types.Order

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.GetByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return apierr.NotFound("order not found")
		}
		if !types.CanTransitionOrder(order.Status, status) {
			return apierr.InvalidOrderState("cannot transition order from %s to %s", order.Status, status)
		}
		if err := s.orderRepo.UpdateStatus(ctx, tx, order.ID, status); err != nil {
			return err
		}
		order.Status = status
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
