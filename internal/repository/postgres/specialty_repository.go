package postgres

import (
	"context"
	"database/sql"
	"errors"

	"admissions/internal/common"
	"admissions/internal/domain/specialty"
)

type SpecialtyRepository struct {
	db DBTX
}

func NewSpecialtyRepository(db DBTX) *SpecialtyRepository {
	return &SpecialtyRepository{db: db}
}

func (r *SpecialtyRepository) Create(ctx context.Context, s specialty.Specialty) (*specialty.Specialty, error) {
	err := r.db.QueryRowContext(ctx, `INSERT INTO specialties (name, code, faculty, degree_level)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		s.Name, s.Code, nullString(s.Faculty), nullString(s.DegreeLevel)).Scan(&s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "specialty with this name or code already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create specialty", err)
	}
	return &s, nil
}

func (r *SpecialtyRepository) GetByID(ctx context.Context, id int64) (*specialty.Specialty, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, code, COALESCE(faculty, ''), COALESCE(degree_level, '') FROM specialties WHERE id = $1`, id)
	return scanSpecialty(row)
}

func (r *SpecialtyRepository) Update(ctx context.Context, s specialty.Specialty) (*specialty.Specialty, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE specialties SET name = $1, code = $2, faculty = $3, degree_level = $4 WHERE id = $5`,
		s.Name, s.Code, nullString(s.Faculty), nullString(s.DegreeLevel), s.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "specialty with this name or code already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update specialty", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "specialty not found", nil)
	}
	return r.GetByID(ctx, s.ID)
}

func (r *SpecialtyRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM specialties WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete specialty", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "specialty not found", nil)
	}
	return nil
}

func (r *SpecialtyRepository) List(ctx context.Context, offset, limit int) ([]specialty.Specialty, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, code, COALESCE(faculty, ''), COALESCE(degree_level, '') FROM specialties ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list specialties", err)
	}
	defer rows.Close()
	var items []specialty.Specialty
	for rows.Next() {
		var s specialty.Specialty
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.Faculty, &s.DegreeLevel); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan specialty", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list specialties", err)
	}
	return items, nil
}

func (r *SpecialtyRepository) FindByNameOrCode(ctx context.Context, name, code string) (*specialty.Specialty, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, code, COALESCE(faculty, ''), COALESCE(degree_level, '') FROM specialties WHERE name = $1 OR code = $2 LIMIT 1`, name, code)
	return scanSpecialty(row)
}

func (r *SpecialtyRepository) AddExam(ctx context.Context, link specialty.ExamLink) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO specialty_exams (specialty_id, exam_id, required_score) VALUES ($1, $2, $3)`,
		link.SpecialtyID, link.ExamID, nullInt(link.RequiredScore))
	if err != nil {
		if isUniqueViolation(err) {
			return common.NewError(common.CodeConflict, "specialty is already linked to this exam", err)
		}
		return common.NewError(common.CodeInternal, "failed to link exam", err)
	}
	return nil
}

func (r *SpecialtyRepository) RemoveExam(ctx context.Context, specialtyID, examID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM specialty_exams WHERE specialty_id = $1 AND exam_id = $2`, specialtyID, examID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to unlink exam", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "exam link not found", nil)
	}
	return nil
}

func (r *SpecialtyRepository) CountApplicantLinks(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM applicant_specialties WHERE specialty_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count applicant links", err)
	}
	return count, nil
}

func (r *SpecialtyRepository) CountExamLinks(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM specialty_exams WHERE specialty_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count exam links", err)
	}
	return count, nil
}

func scanSpecialty(row *sql.Row) (*specialty.Specialty, error) {
	var s specialty.Specialty
	if err := row.Scan(&s.ID, &s.Name, &s.Code, &s.Faculty, &s.DegreeLevel); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "specialty not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load specialty", err)
	}
	return &s, nil
}
