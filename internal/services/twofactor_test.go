package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopina/shopina-backend/internal/data/repos/testutil"
	"github.com/shopina/shopina-backend/internal/platform/apierr"
)

func TestTwoFactorStartAndVerify(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "otp@example.com")
	svc := env.newTwoFactor(t, "development")

	started, err := svc.Start(ctx, user.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(started.DebugCode) != 6 {
		t.Fatalf("expected a 6-digit debug code outside production, got %q", started.DebugCode)
	}
	if !started.ExpiresAt.After(time.Now()) {
		t.Fatal("expected expiry in the future")
	}

	if err := svc.Verify(ctx, user.ID, started.DebugCode); err != nil {
		t.Fatalf("verify: %v", err)
	}

	// A verified code is consumed.
	err = svc.Verify(ctx, user.ID, started.DebugCode)
	wantCode(t, err, apierr.CodeBusinessLogic)
}

func TestTwoFactorWrongCodeThenLockout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "lockout@example.com")
	svc := env.newTwoFactor(t, "development")

	started, err := svc.Start(ctx, user.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	for i := 0; i < 5; i++ {
		err := svc.Verify(ctx, user.ID, "000000")
		wantCode(t, err, apierr.CodeValidation)
	}

	// Even the correct code is rejected after five failures.
	err = svc.Verify(ctx, user.ID, started.DebugCode)
	wantCode(t, err, apierr.CodeBusinessLogic)
}

func TestTwoFactorReissueInvalidatesPriorCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "reissue@example.com")
	svc := env.newTwoFactor(t, "development")

	first, err := svc.Start(ctx, user.ID)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	second, err := svc.Start(ctx, user.ID)
	if err != nil {
		t.Fatalf("second start: %v", err)
	}

	if first.DebugCode != second.DebugCode {
		err = svc.Verify(ctx, user.ID, first.DebugCode)
		wantCode(t, err, apierr.CodeValidation)
	}
	if err := svc.Verify(ctx, user.ID, second.DebugCode); err != nil {
		t.Fatalf("verify latest: %v", err)
	}
}

func TestTwoFactorExpiredCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "expired@example.com")
	svc := env.newTwoFactor(t, "development").(*twoFactorService)

	issuedAt := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issuedAt }
	started, err := svc.Start(ctx, user.ID)
	if err != nil {
		t.Fatalf("start: %v", err)
	}

	svc.now = time.Now
	err = svc.Verify(ctx, user.ID, started.DebugCode)
	wantCode(t, err, apierr.CodeBusinessLogic)
}

func TestTwoFactorRequiresCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, env.db, "blank@example.com")
	svc := env.newTwoFactor(t, "development")

	err := svc.Verify(ctx, user.ID, "")
	wantCode(t, err, apierr.CodeValidation)

	// No Start yet, so any code is unverifiable.
	err = svc.Verify(ctx, user.ID, "123456")
	wantCode(t, err, apierr.CodeBusinessLogic)
}
