package services

import (
	"context"
	"testing"

	"github.com/shopina/shopina-backend/internal/data/repos/testutil"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
)

func TestReviewUpsertAggregatesRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := testutil.SeedUser(t, ctx, env.db, "alice@example.com")
	bob := testutil.SeedUser(t, ctx, env.db, "bob@example.com")
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "25.00", 10)

	if _, err := env.review.Upsert(ctx, alice.ID, product.ID, 4, "solid"); err != nil {
		t.Fatalf("alice review: %v", err)
	}
	if _, err := env.review.Upsert(ctx, bob.ID, product.ID, 2, "meh"); err != nil {
		t.Fatalf("bob review: %v", err)
	}

	fresh, err := env.productRepo.GetByID(ctx, nil, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.ReviewCount != 2 {
		t.Errorf("expected 2 reviews, got %d", fresh.ReviewCount)
	}
	if fresh.Rating != 3 {
		t.Errorf("expected average rating 3, got %v", fresh.Rating)
	}
}

func TestReviewUpsertReplacesExisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "rereview@example.com")
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "25.00", 10)

	if _, err := env.review.Upsert(ctx, user.ID, product.ID, 1, "broken on arrival"); err != nil {
		t.Fatalf("first: %v", err)
	}
	updated, err := env.review.Upsert(ctx, user.ID, product.ID, 5, "replacement works great")
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if updated.Rating != 5 {
		t.Errorf("expected rating 5, got %v", updated.Rating)
	}

	reviews, err := env.review.ListForProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(reviews) != 1 {
		t.Fatalf("expected one review per user, got %d", len(reviews))
	}

	fresh, err := env.productRepo.GetByID(ctx, nil, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Rating != 5 || fresh.ReviewCount != 1 {
		t.Errorf("expected aggregate 5/1, got %v/%d", fresh.Rating, fresh.ReviewCount)
	}
}

func TestReviewUpsertValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "badreview@example.com")
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "25.00", 10)

	for _, rating := range []float64{-1, 5.5} {
		_, err := env.review.Upsert(ctx, user.ID, product.ID, rating, "")
		wantCode(t, err, apierr.CodeValidation)
	}

	if err := env.db.Model(product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	_, err := env.review.Upsert(ctx, user.ID, product.ID, 3, "")
	wantCode(t, err, apierr.CodeNotFound)
}
