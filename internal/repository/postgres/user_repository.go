package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admissions/internal/common"
	"admissions/internal/domain/user"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, account user.User) (*user.User, error) {
	account.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `INSERT INTO users (username, password_hash, role, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		account.Username, account.PasswordHash, account.Role, account.IsActive, account.CreatedAt).Scan(&account.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "username already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create user", err)
	}
	return &account, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, is_active, created_at FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, username, password_hash, role, is_active, created_at FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *UserRepository) UpdateRole(ctx context.Context, id int64, role user.Role) (*user.User, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET role = $1 WHERE id = $2`, role, id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update user role", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return r.GetByID(ctx, id)
}

func (r *UserRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to deactivate user", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, username, password_hash, role, is_active, created_at FROM users ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	defer rows.Close()
	var items []user.User
	for rows.Next() {
		var account user.User
		if err := rows.Scan(&account.ID, &account.Username, &account.PasswordHash, &account.Role, &account.IsActive, &account.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan user", err)
		}
		items = append(items, account)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list users", err)
	}
	return items, nil
}

func scanUser(row *sql.Row) (*user.User, error) {
	var account user.User
	if err := row.Scan(&account.ID, &account.Username, &account.PasswordHash, &account.Role, &account.IsActive, &account.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	return &account, nil
}
