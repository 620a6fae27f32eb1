package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"admissions/internal/common"
	"admissions/internal/domain/audit"
)

type AuditLogRepository struct {
	db DBTX
}

func NewAuditLogRepository(db DBTX) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, e audit.Entry) (*audit.Entry, error) {
	before, err := marshalChangeData(e.BeforeData)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode audit before data", err)
	}
	after, err := marshalChangeData(e.AfterData)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode audit after data", err)
	}
	e.ChangedAt = time.Now().UTC()
	err = r.db.QueryRowContext(ctx, `INSERT INTO audit_log (applicant_id, user_id, change_type, action, before_data, after_data, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		e.ApplicantID, e.ChangedByUserID, string(e.ChangeType), string(e.Action), before, after, e.ChangedAt).Scan(&e.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create audit entry", err)
	}
	return &e, nil
}

func (r *AuditLogRepository) GetByID(ctx context.Context, id int64) (*audit.Entry, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, applicant_id, user_id, change_type, action, before_data, after_data, changed_at
		FROM audit_log WHERE id = $1`, id)
	entry, err := scanAuditEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "audit entry not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load audit entry", err)
	}
	return entry, nil
}

func (r *AuditLogRepository) ListByApplicant(ctx context.Context, applicantID int64, offset, limit int) ([]audit.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, applicant_id, user_id, change_type, action, before_data, after_data, changed_at
		FROM audit_log WHERE applicant_id = $1 ORDER BY changed_at DESC, id DESC LIMIT $2 OFFSET $3`,
		applicantID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list audit entries", err)
	}
	defer rows.Close()
	var items []audit.Entry
	for rows.Next() {
		entry, err := scanAuditEntry(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan audit entry", err)
		}
		items = append(items, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list audit entries", err)
	}
	return items, nil
}

func scanAuditEntry(row rowScanner) (*audit.Entry, error) {
	var (
		e          audit.Entry
		changeType string
		action     string
		before     []byte
		after      []byte
	)
	err := row.Scan(&e.ID, &e.ApplicantID, &e.ChangedByUserID, &changeType, &action, &before, &after, &e.ChangedAt)
	if err != nil {
		return nil, err
	}
	e.ChangeType = audit.ChangeType(changeType)
	e.Action = audit.Action(action)
	if e.BeforeData, err = unmarshalChangeData(before); err != nil {
		return nil, err
	}
	if e.AfterData, err = unmarshalChangeData(after); err != nil {
		return nil, err
	}
	return &e, nil
}

func marshalChangeData(data map[string]any) (any, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	// jsonb parameters go over the wire as text, not bytea.
	return string(raw), nil
}

func unmarshalChangeData(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
