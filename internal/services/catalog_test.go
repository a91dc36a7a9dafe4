package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shopina/shopina-backend/internal/data/repos/testutil"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
)

func TestCreateProductSlugsAreUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.catalog.CreateProduct(ctx, ProductInput{
		Name:  "Desk Lamp",
		Price: decimal.RequireFromString("25.00"),
		Stock: 10,
	})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Slug != "desk-lamp" {
		t.Fatalf("expected slug desk-lamp, got %q", first.Slug)
	}

	second, err := env.catalog.CreateProduct(ctx, ProductInput{
		Name:  "Desk Lamp",
		Price: decimal.RequireFromString("30.00"),
		Stock: 5,
	})
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if second.Slug != "desk-lamp-2" {
		t.Fatalf("expected suffixed slug, got %q", second.Slug)
	}
}

func TestCreateProductValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.catalog.CreateProduct(ctx, ProductInput{Price: decimal.Zero})
	wantCode(t, err, apierr.CodeValidation)

	_, err = env.catalog.CreateProduct(ctx, ProductInput{
		Name:  "Bad Price",
		Price: decimal.RequireFromString("-1.00"),
	})
	wantCode(t, err, apierr.CodeValidation)

	_, err = env.catalog.CreateProduct(ctx, ProductInput{
		Name:     "Orphan",
		Price:    decimal.RequireFromString("1.00"),
		Category: "No Such Category",
	})
	wantCode(t, err, apierr.CodeNotFound)
}

func TestCategoryCreateAndDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	if _, err := env.catalog.CreateCategory(ctx, "Lighting"); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := env.catalog.CreateCategory(ctx, "Lighting")
	wantCode(t, err, apierr.CodeDuplicate)

	categories, err := env.catalog.Categories(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("expected one category, got %d", len(categories))
	}
}

func TestProductLookupHidesInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, ctx, env.db, "Old Lamp", "25.00", 10)

	if _, err := env.catalog.ProductByID(ctx, product.ID); err != nil {
		t.Fatalf("active lookup: %v", err)
	}
	if _, err := env.catalog.ProductBySlug(ctx, product.Slug); err != nil {
		t.Fatalf("slug lookup: %v", err)
	}

	inactive := false
	if _, err := env.catalog.UpdateProduct(ctx, product.ID, ProductInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := env.catalog.ProductByID(ctx, product.ID)
	wantCode(t, err, apierr.CodeNotFound)
	_, err = env.catalog.ProductBySlug(ctx, product.Slug)
	wantCode(t, err, apierr.CodeNotFound)
}

func TestUpdateProductPartialFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "25.00", 10)

	updated, err := env.catalog.UpdateProduct(ctx, product.ID, ProductInput{
		Price: decimal.RequireFromString("19.99"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := updated.Price.StringFixed(2); got != "19.99" {
		t.Errorf("expected price 19.99, got %s", got)
	}
	if updated.Name != "Desk Lamp" {
		t.Errorf("expected name untouched, got %q", updated.Name)
	}
	if updated.Stock != 10 {
		t.Errorf("expected stock untouched, got %d", updated.Stock)
	}
}

func TestTopProductsRanksByRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "ranker@example.com")
	low := testutil.SeedProduct(t, ctx, env.db, "Low Lamp", "10.00", 10)
	high := testutil.SeedProduct(t, ctx, env.db, "High Lamp", "10.00", 10)

	if _, err := env.review.Upsert(ctx, user.ID, low.ID, 2, ""); err != nil {
		t.Fatalf("low review: %v", err)
	}
	if _, err := env.review.Upsert(ctx, user.ID, high.ID, 5, ""); err != nil {
		t.Fatalf("high review: %v", err)
	}

	top, err := env.catalog.TopProducts(ctx)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) < 2 {
		t.Fatalf("expected at least two ranked products, got %d", len(top))
	}
	if top[0].ID != high.ID {
		t.Fatalf("expected highest rated first, got %s", top[0].Name)
	}
}
