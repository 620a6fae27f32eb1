package comment

import (
	"context"
	"time"
)

type Comment struct {
	ID          int64     `json:"id"`
	ApplicantID int64     `json:"applicant_id"`
	UserID      int64     `json:"user_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, c Comment) (*Comment, error)
	GetByID(ctx context.Context, id int64) (*Comment, error)
	Delete(ctx context.Context, id int64) error
	ListByApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]Comment, error)
	CountByApplicant(ctx context.Context, applicantID int64) (int, error)
}
