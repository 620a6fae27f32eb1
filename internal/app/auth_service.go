package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"admissions/internal/common"
	"admissions/internal/domain/auth"
	"admissions/internal/domain/user"
	"admissions/internal/security"
)

type AuthService struct {
	store       Store
	jwtProvider *security.JWTProvider
	logger      Logger
	accessTTL   time.Duration
	refreshTTL  time.Duration
}

func NewAuthService(store Store, jwtProvider *security.JWTProvider, logger Logger, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		store:       store,
		jwtProvider: jwtProvider,
		logger:      logger,
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
	}
}

// SignUp self-registers a viewer account. Staff with higher roles are created
// by admins through the user service.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (*auth.TokenPair, *user.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil, common.NewValidationError("invalid user", map[string]string{"username": "username is required"})
	}
	if len(password) < minPasswordLength {
		return nil, nil, common.NewValidationError("invalid user", map[string]string{"password": "password must be at least 8 characters long"})
	}
	existing, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, nil, err
	}
	if existing != nil {
		return nil, nil, common.NewError(common.CodeConflict, "username already exists", nil)
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	account, err := s.store.Users().Create(ctx, user.User{
		Username:     username,
		PasswordHash: hash,
		Role:         user.RoleViewer,
		IsActive:     true,
	})
	if err != nil {
		return nil, nil, err
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	s.logInfo(fmt.Sprintf("user registered user_id=%d", account.ID))
	return pair, account, nil
}

func (s *AuthService) SignIn(ctx context.Context, username, password string) (*auth.TokenPair, *user.User, error) {
	account, err := s.store.Users().GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil, common.NewError(common.CodeUnauthorized, "invalid username or password", nil)
		}
		return nil, nil, err
	}
	if !account.IsActive {
		return nil, nil, common.NewError(common.CodeForbidden, "user is not active", nil)
	}
	if !security.CheckPassword(account.PasswordHash, password) {
		s.logInfo(fmt.Sprintf("sign in failed user_id=%d", account.ID))
		return nil, nil, common.NewError(common.CodeUnauthorized, "invalid username or password", nil)
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	s.logInfo(fmt.Sprintf("user signed in user_id=%d", account.ID))
	return pair, account, nil
}

// Refresh rotates the presented refresh token: the old token is revoked and a
// fresh pair is issued.
func (s *AuthService) Refresh(ctx context.Context, token string) (*auth.TokenPair, *user.User, error) {
	stored, err := s.store.RefreshTokens().GetByToken(ctx, token)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil, common.NewError(common.CodeUnauthorized, "invalid refresh token", nil)
		}
		return nil, nil, err
	}
	if stored.RevokedAt != nil {
		return nil, nil, common.NewError(common.CodeUnauthorized, "refresh token revoked", nil)
	}
	if stored.ExpiresAt.Before(time.Now().UTC()) {
		return nil, nil, common.NewError(common.CodeUnauthorized, "refresh token expired", nil)
	}
	account, err := s.store.Users().GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, nil, err
	}
	if !account.IsActive {
		return nil, nil, common.NewError(common.CodeForbidden, "user is not active", nil)
	}
	if err := s.store.RefreshTokens().Revoke(ctx, token, time.Now().UTC()); err != nil {
		return nil, nil, err
	}
	pair, err := s.issueTokens(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return pair, account, nil
}

// Logout is idempotent: revoking a token that is unknown or already revoked
// still reports success, so a client retrying logout never sees an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	err := s.store.RefreshTokens().Revoke(ctx, token, time.Now().UTC())
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return err
	}
	s.logInfo("user logged out")
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, account *user.User) (*auth.TokenPair, error) {
	accessToken, expiresAt, err := s.jwtProvider.Generate(account.ID, string(account.Role), s.accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate access token", err)
	}
	refreshValue, err := generateRefreshToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	refresh := auth.RefreshToken{
		UserID:    account.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().UTC().Add(s.refreshTTL),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.RefreshTokens().Store(ctx, refresh); err != nil {
		return nil, err
	}
	return &auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshValue, ExpiresAt: expiresAt}, nil
}

func generateRefreshToken() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", b), nil
}

func (s *AuthService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}
