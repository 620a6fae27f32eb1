package app

import (
	"context"

	"admissions/internal/domain/audit"
)

// recordChange appends an audit entry inside the caller's transaction. Both
// the applicant and the acting user must exist at the time of the write; the
// check is done here rather than left to the store. A failed audit write
// fails the enclosing transaction, rolling the documented mutation back.
func recordChange(ctx context.Context, st Store, applicantID, actorID int64, changeType audit.ChangeType, action audit.Action, before, after map[string]any) error {
	if _, err := st.Applicants().GetByID(ctx, applicantID); err != nil {
		return err
	}
	if _, err := st.Users().GetByID(ctx, actorID); err != nil {
		return err
	}
	_, err := st.AuditLogs().Create(ctx, audit.Entry{
		ApplicantID:     applicantID,
		ChangedByUserID: actorID,
		ChangeType:      changeType,
		Action:          action,
		BeforeData:      before,
		AfterData:       after,
	})
	return err
}
