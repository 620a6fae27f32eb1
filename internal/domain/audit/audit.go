package audit

import (
	"context"
	"time"
)

type ChangeType string

const (
	ChangeStatus        ChangeType = "status"
	ChangeComment       ChangeType = "comment"
	ChangeSpecialty     ChangeType = "specialty"
	ChangeExam          ChangeType = "exam"
	ChangeApplicantData ChangeType = "applicant_data"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entry is append-only: entries are never updated or deleted once written.
type Entry struct {
	ID              int64          `json:"id"`
	ApplicantID     int64          `json:"applicant_id"`
	ChangedByUserID int64          `json:"changed_by_user_id"`
	ChangeType      ChangeType     `json:"change_type"`
	Action          Action         `json:"action"`
	BeforeData      map[string]any `json:"before_data,omitempty"`
	AfterData       map[string]any `json:"after_data,omitempty"`
	ChangedAt       time.Time      `json:"changed_at"`
}

type Repository interface {
	Create(ctx context.Context, e Entry) (*Entry, error)
	GetByID(ctx context.Context, id int64) (*Entry, error)
	ListByApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]Entry, error)
}
