package app

import (
	"context"
	"strings"

	"admissions/internal/common"
	"admissions/internal/domain/comment"
	"admissions/internal/domain/user"
)

type CommentService struct {
	store Store
}

func NewCommentService(store Store) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) Create(ctx context.Context, actor *user.User, applicantID int64, text string) (*comment.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, common.NewValidationError("invalid comment", map[string]string{"text": "text is required"})
	}
	if _, err := s.store.Applicants().GetByID(ctx, applicantID); err != nil {
		return nil, err
	}
	if _, err := s.store.Users().GetByID(ctx, actor.ID); err != nil {
		return nil, err
	}
	return s.store.Comments().Create(ctx, comment.Comment{
		ApplicantID: applicantID,
		UserID:      actor.ID,
		Text:        text,
	})
}

func (s *CommentService) Get(ctx context.Context, id int64) (*comment.Comment, error) {
	return s.store.Comments().GetByID(ctx, id)
}

// Delete is permitted for the comment's author and for admins.
func (s *CommentService) Delete(ctx context.Context, actor *user.User, id int64) error {
	existing, err := s.store.Comments().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID != actor.ID && actor.Role != user.RoleAdmin {
		return common.NewError(common.CodeForbidden, "only the comment author or admins can delete this comment", nil)
	}
	return s.store.Comments().Delete(ctx, id)
}

func (s *CommentService) ListByApplicant(ctx context.Context, applicantID int64, page, pageSize int) (*common.Page[comment.Comment], error) {
	offset, fetch, size, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Applicants().GetByID(ctx, applicantID); err != nil {
		return nil, err
	}
	items, err := s.store.Comments().ListByApplicant(ctx, applicantID, offset, fetch)
	if err != nil {
		return nil, err
	}
	result := common.NewPage(items, page, size)
	return &result, nil
}
