package app

import (
	"context"
	"fmt"
	"strings"

	"admissions/internal/common"
	"admissions/internal/domain/user"
	"admissions/internal/security"
)

const minPasswordLength = 8

type UserService struct {
	store  Store
	logger Logger
}

func NewUserService(store Store, logger Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) Create(ctx context.Context, actor *user.User, username, password string, role user.Role) (*user.User, error) {
	if actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only admins can create users", nil)
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.NewValidationError("invalid user", map[string]string{"username": "username is required"})
	}
	if len(password) < minPasswordLength {
		return nil, common.NewValidationError("invalid user", map[string]string{"password": "password must be at least 8 characters long"})
	}
	normalized, err := normalizeRoleValue(role)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.Users().GetByUsername(ctx, username)
	if err != nil && !common.Is(err, common.CodeNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, common.NewError(common.CodeConflict, "username already exists", nil)
	}
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	created, err := s.store.Users().Create(ctx, user.User{
		Username:     username,
		PasswordHash: hash,
		Role:         normalized,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("user created id=%d role=%s by user_id=%d", created.ID, created.Role, actor.ID))
	return created, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*user.User, error) {
	return s.store.Users().GetByID(ctx, id)
}

func (s *UserService) List(ctx context.Context, page, pageSize int) (*common.Page[user.User], error) {
	offset, fetch, size, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Users().List(ctx, offset, fetch)
	if err != nil {
		return nil, err
	}
	result := common.NewPage(items, page, size)
	return &result, nil
}

func (s *UserService) UpdateRole(ctx context.Context, actor *user.User, targetID int64, newRole user.Role) (*user.User, error) {
	if targetID == actor.ID {
		return nil, common.NewValidationError("invalid role change", map[string]string{"user_id": "you cannot change your own role"})
	}
	if actor.Role != user.RoleAdmin {
		return nil, common.NewError(common.CodeForbidden, "only admins can change user roles", nil)
	}
	normalized, err := normalizeRoleValue(newRole)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Users().GetByID(ctx, targetID); err != nil {
		return nil, err
	}
	updated, err := s.store.Users().UpdateRole(ctx, targetID, normalized)
	if err != nil {
		return nil, err
	}
	s.logInfo(fmt.Sprintf("user role changed id=%d role=%s by user_id=%d", targetID, normalized, actor.ID))
	return updated, nil
}

func (s *UserService) Deactivate(ctx context.Context, actor *user.User, targetID int64) error {
	if _, err := s.store.Users().GetByID(ctx, targetID); err != nil {
		return err
	}
	if targetID == actor.ID {
		return common.NewValidationError("invalid deactivation", map[string]string{"user_id": "you cannot deactivate yourself"})
	}
	if actor.Role != user.RoleAdmin {
		return common.NewError(common.CodeForbidden, "only admins can deactivate users", nil)
	}
	if err := s.store.Users().Deactivate(ctx, targetID); err != nil {
		return err
	}
	s.logInfo(fmt.Sprintf("user deactivated id=%d by user_id=%d", targetID, actor.ID))
	return nil
}

func normalizeRoleValue(role user.Role) (user.Role, error) {
	normalized := user.Role(strings.ToLower(strings.TrimSpace(string(role))))
	switch normalized {
	case user.RoleAdmin, user.RoleEditor, user.RoleViewer:
		return normalized, nil
	default:
		return "", common.NewValidationError("invalid role", map[string]string{"role": "role must be admin, editor, or viewer"})
	}
}

func (s *UserService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}
