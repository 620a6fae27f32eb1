package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admissions/internal/common"
	"admissions/internal/domain/comment"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, c comment.Comment) (*comment.Comment, error) {
	c.CreatedAt = time.Now().UTC()
	err := r.db.QueryRowContext(ctx, `INSERT INTO comments (applicant_id, user_id, text, created_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		c.ApplicantID, c.UserID, c.Text, c.CreatedAt).Scan(&c.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create comment", err)
	}
	return &c, nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*comment.Comment, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, applicant_id, user_id, text, created_at FROM comments WHERE id = $1`, id)
	var c comment.Comment
	if err := row.Scan(&c.ID, &c.ApplicantID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "comment not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load comment", err)
	}
	return &c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete comment", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "comment not found", nil)
	}
	return nil
}

func (r *CommentRepository) ListByApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]comment.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, applicant_id, user_id, text, created_at FROM comments
		WHERE applicant_id = $1 ORDER BY created_at ASC, id ASC LIMIT $2 OFFSET $3`, applicantID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list comments", err)
	}
	defer rows.Close()
	var items []comment.Comment
	for rows.Next() {
		var c comment.Comment
		if err := rows.Scan(&c.ID, &c.ApplicantID, &c.UserID, &c.Text, &c.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan comment", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list comments", err)
	}
	return items, nil
}

func (r *CommentRepository) CountByApplicant(ctx context.Context, applicantID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE applicant_id = $1`, applicantID).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count comments", err)
	}
	return count, nil
}
