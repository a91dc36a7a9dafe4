package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/shopina/shopina-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Username:  email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
		Plan:      types.PlanFree,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Category {
	tb.Helper()
	c := &types.Category{
		ID:   uuid.New(),
		Name: name,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, price string, stock int) *types.Product {
	tb.Helper()
	p := &types.Product{
		ID:       uuid.New(),
		Name:     name,
		Slug:     types.SlugifyProduct(name) + "-" + uuid.NewString()[:8],
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedCart(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Cart {
	tb.Helper()
	c := &types.Cart{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed cart: %v", err)
	}
	return c
}

func SeedCartItem(tb testing.TB, ctx context.Context, tx *gorm.DB, cartID uuid.UUID, product *types.Product, qty int) *types.CartItem {
	tb.Helper()
	ci := &types.CartItem{
		ID:         uuid.New(),
		CartID:     cartID,
		ProductID:  product.ID,
		Quantity:   qty,
		PriceAtAdd: product.Price,
	}
	if err := tx.WithContext(ctx).Create(ci).Error; err != nil {
		tb.Fatalf("seed cart item: %v", err)
	}
	return ci
}

func SeedOrder(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, status string, total string) *types.Order {
	tb.Helper()
	o := &types.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: status,
		Total:  decimal.RequireFromString(total),
	}
	if err := tx.WithContext(ctx).Omit("Items").Create(o).Error; err != nil {
		tb.Fatalf("seed order: %v", err)
	}
	return o
}
