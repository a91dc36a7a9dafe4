package services

import (
	"context"
	"testing"

	"github.com/shopina/shopina-backend/internal/platform/apierr"
	"github.com/shopina/shopina-backend/internal/platform/ctxutil"
)

func registerTestUser(t *testing.T, svc AuthService) *AuthResult {
	t.Helper()
	result, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "shopkeeper@example.com",
		Username: "shopkeeper",
		Password: "hunter2hunter2",
		ShopName: "The Lamp Post",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return result
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newAuth(t)
	ctx := context.Background()

	registered := registerTestUser(t, svc)
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Fatal("expected token pair on registration")
	}
	if registered.User.Email != "shopkeeper@example.com" {
		t.Fatalf("unexpected email %q", registered.User.Email)
	}

	byEmail, err := svc.Login(ctx, "shopkeeper@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login by email: %v", err)
	}
	byUsername, err := svc.Login(ctx, "shopkeeper", "hunter2hunter2")
	if err != nil {
		t.Fatalf("login by username: %v", err)
	}
	if byEmail.User.ID != byUsername.User.ID {
		t.Fatal("expected both identifiers to resolve the same user")
	}

	_, err = svc.Login(ctx, "shopkeeper", "wrong-password")
	wantCode(t, err, apierr.CodeUnauthorized)
	_, err = svc.Login(ctx, "nobody@example.com", "hunter2hunter2")
	wantCode(t, err, apierr.CodeUnauthorized)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newAuth(t)
	ctx := context.Background()

	registerTestUser(t, svc)

	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "shopkeeper@example.com",
		Username: "someone-else",
		Password: "password123",
	})
	wantCode(t, err, apierr.CodeDuplicate)

	_, err = svc.Register(ctx, RegisterRequest{
		Email:    "other@example.com",
		Username: "shopkeeper",
		Password: "password123",
	})
	wantCode(t, err, apierr.CodeDuplicate)

	_, err = svc.Register(ctx, RegisterRequest{Email: "x@example.com"})
	wantCode(t, err, apierr.CodeValidation)
}

func TestRefreshRotatesTokenPair(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newAuth(t)
	ctx := context.Background()

	registered := registerTestUser(t, svc)

	refreshed, err := svc.Refresh(ctx, registered.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Fatal("expected a new refresh token")
	}

	// The old pair is dead after rotation.
	_, err = svc.Refresh(ctx, registered.RefreshToken)
	wantCode(t, err, apierr.CodeUnauthorized)
	_, err = svc.SetContextFromToken(ctx, registered.AccessToken)
	wantCode(t, err, apierr.CodeUnauthorized)

	if _, err := svc.SetContextFromToken(ctx, refreshed.AccessToken); err != nil {
		t.Fatalf("new access token rejected: %v", err)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newAuth(t)
	ctx := context.Background()

	registered := registerTestUser(t, svc)

	authed, err := svc.SetContextFromToken(ctx, registered.AccessToken)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.UserID != registered.User.ID {
		t.Fatalf("expected request data for user, got %+v", rd)
	}

	if err := svc.Logout(ctx, registered.AccessToken); err != nil {
		t.Fatalf("logout: %v", err)
	}
	_, err = svc.SetContextFromToken(ctx, registered.AccessToken)
	wantCode(t, err, apierr.CodeUnauthorized)

	// Logout is idempotent.
	if err := svc.Logout(ctx, registered.AccessToken); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestSetContextFromTokenRejectsGarbage(t *testing.T) {
	env := newTestEnv(t)
	svc := env.newAuth(t)
	ctx := context.Background()

	_, err := svc.SetContextFromToken(ctx, "")
	wantCode(t, err, apierr.CodeUnauthorized)
	_, err = svc.SetContextFromToken(ctx, "not-a-jwt")
	wantCode(t, err, apierr.CodeUnauthorized)
}
