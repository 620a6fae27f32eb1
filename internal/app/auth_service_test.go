package app

import (
	"context"
	"testing"
	"time"

	"admissions/internal/common"
	"admissions/internal/domain/user"
	"admissions/internal/security"
)

func newAuthService(store *fakeStore) *AuthService {
	jwtProvider := security.NewJWTProvider("secret", "admissions-test")
	return NewAuthService(store, jwtProvider, nil, time.Minute, time.Hour)
}

func TestAuthServiceSignUp(t *testing.T) {
	store := newFakeStore()
	service := newAuthService(store)

	pair, account, err := service.SignUp(context.Background(), "siti", "password123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if account.Role != user.RoleViewer {
		t.Fatalf("self-registration must yield a viewer, got %s", account.Role)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	stored, err := store.refreshTokens.GetByToken(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("expected refresh token stored, got %v", err)
	}
	if stored.UserID != account.ID {
		t.Fatalf("expected token for user %d, got %d", account.ID, stored.UserID)
	}

	if _, _, err := service.SignUp(context.Background(), "siti", "password456"); !common.Is(err, common.CodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
	if _, _, err := service.SignUp(context.Background(), "andi", "short"); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for short password, got %v", err)
	}
}

func TestAuthServiceSignIn(t *testing.T) {
	store := newFakeStore()
	service := newAuthService(store)

	_, account, err := service.SignUp(context.Background(), "siti", "password123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	pair, signedIn, err := service.SignIn(context.Background(), "siti", "password123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if signedIn.ID != account.ID || pair.AccessToken == "" {
		t.Fatal("expected tokens for the registered account")
	}

	if _, _, err := service.SignIn(context.Background(), "siti", "wrongpass"); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for bad password, got %v", err)
	}
	if _, _, err := service.SignIn(context.Background(), "ghost", "password123"); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown user, got %v", err)
	}

	if err := store.users.Deactivate(context.Background(), account.ID); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, _, err := service.SignIn(context.Background(), "siti", "password123"); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for inactive account, got %v", err)
	}
}

func TestAuthServiceRefresh_RotatesToken(t *testing.T) {
	store := newFakeStore()
	service := newAuthService(store)

	pair, _, err := service.SignUp(context.Background(), "siti", "password123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	next, _, err := service.Refresh(context.Background(), pair.RefreshToken)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if next.RefreshToken == pair.RefreshToken {
		t.Fatal("expected a fresh refresh token")
	}

	// The old token is revoked by the rotation.
	if _, _, err := service.Refresh(context.Background(), pair.RefreshToken); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for rotated token, got %v", err)
	}
	if _, _, err := service.Refresh(context.Background(), "nonsense"); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for unknown token, got %v", err)
	}
}

func TestAuthServiceRefresh_Expired(t *testing.T) {
	store := newFakeStore()
	service := newAuthService(store)

	pair, _, err := service.SignUp(context.Background(), "siti", "password123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	stored := store.refreshTokens.items[pair.RefreshToken]
	stored.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	store.refreshTokens.items[pair.RefreshToken] = stored

	if _, _, err := service.Refresh(context.Background(), pair.RefreshToken); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized for expired token, got %v", err)
	}
}

func TestAuthServiceLogout(t *testing.T) {
	store := newFakeStore()
	service := newAuthService(store)

	pair, _, err := service.SignUp(context.Background(), "siti", "password123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if _, _, err := service.Refresh(context.Background(), pair.RefreshToken); !common.Is(err, common.CodeUnauthorized) {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestAuthServiceLogout_Idempotent(t *testing.T) {
	store := newFakeStore()
	service := newAuthService(store)

	pair, _, err := service.SignUp(context.Background(), "siti", "password123")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := service.Logout(context.Background(), pair.RefreshToken); err != nil {
		t.Fatalf("expected repeat logout to succeed, got %v", err)
	}
	if err := service.Logout(context.Background(), "no-such-token"); err != nil {
		t.Fatalf("expected logout with unknown token to succeed, got %v", err)
	}
}
