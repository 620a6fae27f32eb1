package app

import (
	"context"

	"admissions/internal/common"
	"admissions/internal/domain/audit"
)

type AuditLogService struct {
	store Store
}

func NewAuditLogService(store Store) *AuditLogService {
	return &AuditLogService{store: store}
}

func (s *AuditLogService) Get(ctx context.Context, id int64) (*audit.Entry, error) {
	return s.store.AuditLogs().GetByID(ctx, id)
}

// ListByApplicant returns the applicant's audit trail, most recent first.
func (s *AuditLogService) ListByApplicant(ctx context.Context, applicantID int64, page, pageSize int) (*common.Page[audit.Entry], error) {
	offset, fetch, size, err := pageWindow(page, pageSize)
	if err != nil {
		return nil, err
	}
	items, err := s.store.AuditLogs().ListByApplicant(ctx, applicantID, offset, fetch)
	if err != nil {
		return nil, err
	}
	result := common.NewPage(items, page, size)
	return &result, nil
}
