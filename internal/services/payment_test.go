package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	types "github.com/shopina/shopina-backend/internal/domain"

	"github.com/shopina/shopina-backend/internal/data/repos/testutil"
	"github.com/shopina/shopina-backend/internal/payments"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
)

type fakeProvider struct {
	requests []payments.IntentRequest
}

func (f *fakeProvider) CreateIntent(_ context.Context, req payments.IntentRequest) (payments.Intent, error) {
	f.requests = append(f.requests, req)
	id := fmt.Sprintf("pi_fake_%d", len(f.requests))
	return payments.Intent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (e *testEnv) newPayment(t *testing.T, provider payments.Provider) PaymentService {
	t.Helper()
	return NewPaymentService(e.db, testutil.Logger(t), PaymentConfig{
		WebhookSecret: "whsec_test",
		Currency:      "usd",
	}, provider, e.paymentRepo, e.webhookRepo, e.orderRepo)
}

func succeededPayload(eventID, intentID string) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"type":"payment_intent.succeeded","data":{"object":{"id":%q}}}`,
		eventID, intentID,
	))
}

func TestCreateIntentChargesOrderTotalInCents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "payer@example.com")
	order := testutil.SeedOrder(t, ctx, env.db, user.ID, types.OrderStatusPending, "42.50")

	provider := &fakeProvider{}
	svc := env.newPayment(t, provider)

	intent, err := svc.CreateIntent(ctx, user.ID, order.ID)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if intent.AmountCents != 4250 {
		t.Errorf("expected 4250 cents, got %d", intent.AmountCents)
	}
	if intent.Currency != "usd" {
		t.Errorf("expected usd, got %s", intent.Currency)
	}
	if len(provider.requests) != 1 || provider.requests[0].OrderID != order.ID.String() {
		t.Fatalf("provider not called for order: %+v", provider.requests)
	}

	payment, err := env.paymentRepo.GetByIntent(ctx, nil, intent.PaymentIntent)
	if err != nil {
		t.Fatalf("lookup payment: %v", err)
	}
	if payment == nil || payment.Status != types.PaymentStatusCreated {
		t.Fatalf("expected created payment row, got %+v", payment)
	}
}

func TestCreateIntentGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, env.db, "intentowner@example.com")
	stranger := testutil.SeedUser(t, ctx, env.db, "intentother@example.com")
	pending := testutil.SeedOrder(t, ctx, env.db, owner.ID, types.OrderStatusPending, "10.00")
	completed := testutil.SeedOrder(t, ctx, env.db, owner.ID, types.OrderStatusCompleted, "10.00")

	svc := env.newPayment(t, &fakeProvider{})

	_, err := svc.CreateIntent(ctx, stranger.ID, pending.ID)
	wantCode(t, err, apierr.CodeNotFound)

	_, err = svc.CreateIntent(ctx, owner.ID, completed.ID)
	wantCode(t, err, apierr.CodeInvalidOrderState)

	unconfigured := env.newPayment(t, nil)
	_, err = unconfigured.CreateIntent(ctx, owner.ID, pending.ID)
	wantCode(t, err, apierr.CodeBusinessLogic)
}

func TestWebhookSucceededCompletesOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "webhook@example.com")
	order := testutil.SeedOrder(t, ctx, env.db, user.ID, types.OrderStatusPending, "10.00")

	svc := env.newPayment(t, &fakeProvider{})
	intent, err := svc.CreateIntent(ctx, user.ID, order.ID)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	payload := succeededPayload("evt_1", intent.PaymentIntent)
	sig := payments.SignPayload(payload, "whsec_test", time.Now())
	if err := svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	payment, err := env.paymentRepo.GetByIntent(ctx, nil, intent.PaymentIntent)
	if err != nil {
		t.Fatalf("lookup payment: %v", err)
	}
	if payment.Status != types.PaymentStatusSucceeded {
		t.Errorf("expected payment succeeded, got %s", payment.Status)
	}

	fresh, err := env.orderRepo.GetByID(ctx, nil, order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if fresh.Status != types.OrderStatusCompleted {
		t.Errorf("expected order completed, got %s", fresh.Status)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "badsig@example.com")
	order := testutil.SeedOrder(t, ctx, env.db, user.ID, types.OrderStatusPending, "10.00")

	svc := env.newPayment(t, &fakeProvider{})
	intent, err := svc.CreateIntent(ctx, user.ID, order.ID)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	payload := succeededPayload("evt_bad", intent.PaymentIntent)

	err = svc.HandleWebhook(ctx, payload, payments.SignPayload(payload, "wrong-secret", time.Now()))
	wantCode(t, err, apierr.CodeValidation)

	// Stale deliveries are rejected even with the right secret.
	err = svc.HandleWebhook(ctx, payload, payments.SignPayload(payload, "whsec_test", time.Now().Add(-time.Hour)))
	wantCode(t, err, apierr.CodeValidation)

	fresh, err := env.orderRepo.GetByID(ctx, nil, order.ID)
	if err != nil {
		t.Fatalf("reload order: %v", err)
	}
	if fresh.Status != types.OrderStatusPending {
		t.Errorf("expected order untouched, got %s", fresh.Status)
	}
}

func TestWebhookDuplicateEventProcessedOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "dup@example.com")
	order := testutil.SeedOrder(t, ctx, env.db, user.ID, types.OrderStatusPending, "10.00")

	svc := env.newPayment(t, &fakeProvider{})
	intent, err := svc.CreateIntent(ctx, user.ID, order.ID)
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}

	payload := succeededPayload("evt_once", intent.PaymentIntent)
	sig := payments.SignPayload(payload, "whsec_test", time.Now())
	if err := svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("first delivery: %v", err)
	}

	// The order is completed now, so a reprocessed event would trip the
	// status machine. Acknowledging the duplicate must not.
	if err := svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("redelivery: %v", err)
	}

	event, err := env.webhookRepo.GetByEventID(ctx, nil, "evt_once")
	if err != nil {
		t.Fatalf("lookup event: %v", err)
	}
	if event == nil || !event.Processed {
		t.Fatalf("expected processed event record, got %+v", event)
	}
}

func TestWebhookIgnoresUnhandledEventTypes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	svc := env.newPayment(t, &fakeProvider{})

	payload := []byte(`{"id":"evt_other","type":"charge.refunded","data":{"object":{"id":"pi_none"}}}`)
	sig := payments.SignPayload(payload, "whsec_test", time.Now())
	if err := svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("expected unhandled type acknowledged, got %v", err)
	}

	err := svc.HandleWebhook(ctx, []byte(`{"nope":`), payments.SignPayload([]byte(`{"nope":`), "whsec_test", time.Now()))
	wantCode(t, err, apierr.CodeValidation)
}
