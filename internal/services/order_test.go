package services

import (
	"context"
	"testing"

	types "github.com/shopina/shopina-backend/internal/domain"

	"github.com/shopina/shopina-backend/internal/data/repos/testutil"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
)

func TestCheckoutCreatesOrderAndReconcilesStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "checkout@example.com")
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "10.00", 5)

	if _, err := env.cart.AddToCart(ctx, user.ID, product.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	order, err := env.order.CreateFromCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.Status != types.OrderStatusPending {
		t.Fatalf("expected pending order, got %s", order.Status)
	}
	if got := order.Total.StringFixed(2); got != "20.00" {
		t.Fatalf("expected total 20.00, got %s", got)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Fatalf("unexpected order items: %+v", order.Items)
	}
	if order.Items[0].ProductName != "Desk Lamp" {
		t.Fatalf("expected product name snapshot, got %q", order.Items[0].ProductName)
	}

	fresh, err := env.productRepo.GetByID(ctx, nil, product.ID)
	if err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if fresh.Stock != 3 {
		t.Fatalf("expected stock 3 after checkout, got %d", fresh.Stock)
	}

	cart, err := env.cart.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected cart cleared after checkout, got %d items", len(cart.Items))
	}
}

func TestCheckoutInsufficientStockRollsBackEverything(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "rollback@example.com")
	plenty := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "10.00", 50)
	scarce := testutil.SeedProduct(t, ctx, env.db, "Rare Vase", "40.00", 3)

	if _, err := env.cart.AddToCart(ctx, user.ID, plenty.ID, 2); err != nil {
		t.Fatalf("add plenty: %v", err)
	}
	if _, err := env.cart.AddToCart(ctx, user.ID, scarce.ID, 3); err != nil {
		t.Fatalf("add scarce: %v", err)
	}
	// Stock drops underneath the cart between add and checkout.
	if err := env.db.Model(scarce).Update("stock", 1).Error; err != nil {
		t.Fatalf("deplete: %v", err)
	}

	_, err := env.order.CreateFromCart(ctx, user.ID)
	wantCode(t, err, apierr.CodeInsufficientStock)

	freshPlenty, err := env.productRepo.GetByID(ctx, nil, plenty.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if freshPlenty.Stock != 50 {
		t.Fatalf("expected decrement rolled back, stock %d", freshPlenty.Stock)
	}

	orders, err := env.order.List(ctx, user.ID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 0 {
		t.Fatalf("expected no orders after rollback, got %d", len(orders))
	}

	cart, err := env.cart.GetCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Fatalf("expected cart intact after rollback, got %d items", len(cart.Items))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "empty@example.com")

	// No cart at all, then a cart with every item removed: both are business
	// failures, not malformed requests.
	_, err := env.order.CreateFromCart(ctx, user.ID)
	wantCode(t, err, apierr.CodeBusinessLogic)

	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "10.00", 5)
	cart, err := env.cart.AddToCart(ctx, user.ID, product.ID, 1)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := env.cart.RemoveItem(ctx, user.ID, cart.Items[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	_, err = env.order.CreateFromCart(ctx, user.ID)
	wantCode(t, err, apierr.CodeBusinessLogic)
}

func TestCheckoutUnavailableProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "gone@example.com")
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "10.00", 5)

	if _, err := env.cart.AddToCart(ctx, user.ID, product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	// Product deactivated between add and checkout.
	if err := env.db.Model(product).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	_, err := env.order.CreateFromCart(ctx, user.ID)
	wantCode(t, err, apierr.CodeBusinessLogic)
}

func TestCancelRestoresStockAndIsPendingOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "cancel@example.com")
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "10.00", 5)

	if _, err := env.cart.AddToCart(ctx, user.ID, product.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	order, err := env.order.CreateFromCart(ctx, user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	cancelled, err := env.order.Cancel(ctx, user.ID, order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if cancelled.Status != types.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}

	fresh, err := env.productRepo.GetByID(ctx, nil, product.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Stock != 5 {
		t.Fatalf("expected stock restored to 5, got %d", fresh.Stock)
	}

	// Terminal now: a second cancel must be rejected.
	_, err = env.order.Cancel(ctx, user.ID, order.ID)
	wantCode(t, err, apierr.CodeInvalidOrderState)
}

func TestCancelIsOwnerScoped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, env.db, "owner2@example.com")
	stranger := testutil.SeedUser(t, ctx, env.db, "stranger@example.com")
	product := testutil.SeedProduct(t, ctx, env.db, "Desk Lamp", "10.00", 5)

	if _, err := env.cart.AddToCart(ctx, owner.ID, product.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	order, err := env.order.CreateFromCart(ctx, owner.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	_, err = env.order.Cancel(ctx, stranger.ID, order.ID)
	wantCode(t, err, apierr.CodeNotFound)
	_, err = env.order.Get(ctx, stranger.ID, order.ID)
	wantCode(t, err, apierr.CodeNotFound)
}

func TestUpdateStatusHonorsMachine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "machine@example.com")
	order := testutil.SeedOrder(t, ctx, env.db, user.ID, types.OrderStatusPending, "10.00")

	updated, err := env.order.UpdateStatus(ctx, order.ID, types.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("pending->processing: %v", err)
	}
	if updated.Status != types.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}

	_, err = env.order.UpdateStatus(ctx, order.ID, types.OrderStatusPending)
	wantCode(t, err, apierr.CodeInvalidOrderState)

	if _, err := env.order.UpdateStatus(ctx, order.ID, types.OrderStatusCompleted); err != nil {
		t.Fatalf("processing->completed: %v", err)
	}
	_, err = env.order.UpdateStatus(ctx, order.ID, types.OrderStatusCancelled)
	wantCode(t, err, apierr.CodeInvalidOrderState)
}
