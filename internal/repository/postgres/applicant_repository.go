package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"admissions/internal/common"
	"admissions/internal/domain/applicant"
)

const applicantColumns = `id, first_name, COALESCE(last_name, ''), COALESCE(middle_name, ''),
	COALESCE(phone_number, ''), COALESCE(email, ''), COALESCE(national_id, ''), COALESCE(passport_number, ''),
	COALESCE(citizenship, ''), birth_date, COALESCE(gender, ''), registration_date, COALESCE(intake_period, ''),
	status, created_at, updated_at`

type ApplicantRepository struct {
	db DBTX
}

func NewApplicantRepository(db DBTX) *ApplicantRepository {
	return &ApplicantRepository{db: db}
}

func (r *ApplicantRepository) Create(ctx context.Context, a applicant.Applicant) (*applicant.Applicant, error) {
	now := time.Now().UTC()
	a.RegistrationDate = now
	a.CreatedAt = now
	a.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, `INSERT INTO applicants (first_name, last_name, middle_name, phone_number, email,
		national_id, passport_number, citizenship, birth_date, gender, registration_date, intake_period, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15) RETURNING id`,
		a.FirstName, nullString(a.LastName), nullString(a.MiddleName), nullString(a.PhoneNumber), nullString(a.Email),
		nullString(a.NationalID), nullString(a.PassportNumber), nullString(a.Citizenship), nullTime(a.BirthDate),
		nullString(a.Gender), a.RegistrationDate, nullString(a.IntakePeriod), a.Status, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "applicant with provided national ID or passport already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create applicant", err)
	}
	return &a, nil
}

func (r *ApplicantRepository) GetByID(ctx context.Context, id int64) (*applicant.Applicant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id)
	return scanApplicantRow(row)
}

func (r *ApplicantRepository) Update(ctx context.Context, a applicant.Applicant) (*applicant.Applicant, error) {
	a.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx, `UPDATE applicants SET first_name = $1, last_name = $2, middle_name = $3,
		phone_number = $4, email = $5, national_id = $6, passport_number = $7, citizenship = $8, birth_date = $9,
		gender = $10, intake_period = $11, status = $12, updated_at = $13 WHERE id = $14`,
		a.FirstName, nullString(a.LastName), nullString(a.MiddleName), nullString(a.PhoneNumber), nullString(a.Email),
		nullString(a.NationalID), nullString(a.PassportNumber), nullString(a.Citizenship), nullTime(a.BirthDate),
		nullString(a.Gender), nullString(a.IntakePeriod), a.Status, a.UpdatedAt, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "applicant with provided national ID or passport already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update applicant", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "applicant not found", nil)
	}
	return r.GetByID(ctx, a.ID)
}

func (r *ApplicantRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applicants WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete applicant", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "applicant not found", nil)
	}
	return nil
}

func (r *ApplicantRepository) List(ctx context.Context, offset, limit int) ([]applicant.Applicant, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+applicantColumns+` FROM applicants ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applicants", err)
	}
	defer rows.Close()
	var items []applicant.Applicant
	for rows.Next() {
		item, err := scanApplicant(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan applicant", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list applicants", err)
	}
	return items, nil
}

func (r *ApplicantRepository) FindByIdentity(ctx context.Context, nationalID, passportNumber string) (*applicant.Applicant, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+applicantColumns+` FROM applicants
		WHERE (national_id = $1 AND $1 <> '') OR (passport_number = $2 AND $2 <> '') LIMIT 1`, nationalID, passportNumber)
	return scanApplicantRow(row)
}

func (r *ApplicantRepository) AddSpecialty(ctx context.Context, link applicant.SpecialtyLink) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO applicant_specialties (applicant_id, specialty_id, priority) VALUES ($1, $2, $3)`,
		link.ApplicantID, link.SpecialtyID, nullInt(link.Priority))
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewError(common.CodeConflict, "applicant is already linked to this specialty", err)
		}
		return common.NewError(common.CodeInternal, "failed to link specialty", err)
	}
	return nil
}

func (r *ApplicantRepository) RemoveSpecialty(ctx context.Context, applicantID, specialtyID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applicant_specialties WHERE applicant_id = $1 AND specialty_id = $2`, applicantID, specialtyID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to unlink specialty", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "specialty link not found", nil)
	}
	return nil
}

func (r *ApplicantRepository) CountSpecialties(ctx context.Context, applicantID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicant_specialties WHERE applicant_id = $1`, applicantID).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count specialty links", err)
	}
	return count, nil
}

func (r *ApplicantRepository) ListSpecialties(ctx context.Context, applicantID int64) ([]applicant.SpecialtyLink, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT applicant_id, specialty_id, priority FROM applicant_specialties WHERE applicant_id = $1 ORDER BY specialty_id`, applicantID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list specialty links", err)
	}
	defer rows.Close()
	var items []applicant.SpecialtyLink
	for rows.Next() {
		var link applicant.SpecialtyLink
		var priority sql.NullInt64
		if err := rows.Scan(&link.ApplicantID, &link.SpecialtyID, &priority); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan specialty link", err)
		}
		link.Priority = intPtr(priority)
		items = append(items, link)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list specialty links", err)
	}
	return items, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplicant(row rowScanner) (*applicant.Applicant, error) {
	var a applicant.Applicant
	var birthDate sql.NullTime
	if err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.MiddleName, &a.PhoneNumber, &a.Email,
		&a.NationalID, &a.PassportNumber, &a.Citizenship, &birthDate, &a.Gender, &a.RegistrationDate,
		&a.IntakePeriod, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		value := birthDate.Time
		a.BirthDate = &value
	}
	return &a, nil
}

func scanApplicantRow(row *sql.Row) (*applicant.Applicant, error) {
	a, err := scanApplicant(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "applicant not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load applicant", err)
	}
	return a, nil
}
