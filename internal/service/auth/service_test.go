package auth

import (
	"context"
	"strings"
	"testing"

	"github.com/KingOfTheAce2/BEAR-AI-sub007/internal/config"
	authmodel "github.com/KingOfTheAce2/BEAR-AI-sub007/internal/model/auth"
)

func devConfig() config.AuthConfig {
	return config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "admin123",
		Environment:   "development",
	}
}

func TestLoginMintsTokenWithExpectedShape(t *testing.T) {
	svc := NewService(devConfig())

	result, err := svc.Login(context.Background(), authmodel.Credentials{Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("expected login success, got %v", err)
	}
	if !result.Success {
		t.Fatal("expected success flag set")
	}
	if !strings.HasPrefix(result.Token, "local_") {
		t.Fatalf("expected local_ prefix, got %q", result.Token)
	}
	if parts := strings.Split(result.Token, "_"); len(parts) != 3 {
		t.Fatalf("expected local_<clientId>_<ts>, got %q", result.Token)
	}
	if !strings.HasPrefix(result.RefreshToken, "refresh_") {
		t.Fatalf("expected refresh_ prefix, got %q", result.RefreshToken)
	}
	if result.ExpiresIn != 3600000 {
		t.Fatalf("expected expiresIn 3600000, got %d", result.ExpiresIn)
	}
}

func TestLoginRejectsWrongCredentials(t *testing.T) {
	svc := NewService(devConfig())

	cases := []authmodel.Credentials{
		{Username: "admin", Password: "wrong"},
		{Username: "someone", Password: "admin123"},
		{},
	}
	for _, creds := range cases {
		if _, err := svc.Login(context.Background(), creds); err != ErrInvalidCredentials {
			t.Fatalf("creds %+v: expected ErrInvalidCredentials, got %v", creds, err)
		}
	}
}

func TestLoginDisabledInProductionWithDefaultPassword(t *testing.T) {
	svc := NewService(config.AuthConfig{
		AdminUsername: "admin",
		AdminPassword: "admin123",
		Environment:   "production",
	})

	_, err := svc.Login(context.Background(), authmodel.Credentials{Username: "admin", Password: "admin123"})
	if err != ErrDemoLoginDisabled {
		t.Fatalf("expected ErrDemoLoginDisabled, got %v", err)
	}
}

func TestValidateKnownAndUnknownTokens(t *testing.T) {
	svc := NewService(devConfig())
	result, _ := svc.Login(context.Background(), authmodel.Credentials{Username: "admin", Password: "admin123"})

	if !svc.Validate(context.Background(), result.Token) {
		t.Fatal("expected the minted token to validate")
	}
	if svc.Validate(context.Background(), "local_unknown_1") {
		t.Fatal("expected an unknown token to fail validation")
	}
	if svc.Validate(context.Background(), "") {
		t.Fatal("expected the empty token to fail validation")
	}
}

func TestRefreshRotatesAndRevokesOldGrant(t *testing.T) {
	svc := NewService(devConfig())
	ctx := context.Background()
	first, _ := svc.Login(ctx, authmodel.Credentials{Username: "admin", Password: "admin123"})

	second, err := svc.Refresh(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("expected refresh success, got %v", err)
	}
	if second.Token == first.Token {
		t.Fatal("expected a different token after refresh")
	}
	if svc.Validate(ctx, first.Token) {
		t.Fatal("expected the old token revoked")
	}
	if !svc.Validate(ctx, second.Token) {
		t.Fatal("expected the new token valid")
	}

	// The consumed refresh token cannot be replayed.
	if _, err := svc.Refresh(ctx, first.RefreshToken); err != ErrSessionNotFound {
		t.Fatalf("expected ErrSessionNotFound for a replayed refresh token, got %v", err)
	}
}

func TestRevokeIsIdempotent(t *testing.T) {
	svc := NewService(devConfig())
	ctx := context.Background()
	result, _ := svc.Login(ctx, authmodel.Credentials{Username: "admin", Password: "admin123"})

	if !svc.Revoke(ctx, result.Token) {
		t.Fatal("expected first revoke to succeed")
	}
	if svc.Revoke(ctx, result.Token) {
		t.Fatal("expected second revoke to report false")
	}
	if svc.Validate(ctx, result.Token) {
		t.Fatal("expected the revoked token to fail validation")
	}
}
