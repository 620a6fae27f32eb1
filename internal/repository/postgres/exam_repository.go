package postgres

import (
	"context"
	"database/sql"
	"errors"

	"admissions/internal/common"
	"admissions/internal/domain/exam"
)

type ExamRepository struct {
	db DBTX
}

func NewExamRepository(db DBTX) *ExamRepository {
	return &ExamRepository{db: db}
}

func (r *ExamRepository) Create(ctx context.Context, e exam.Exam) (*exam.Exam, error) {
	err := r.db.QueryRowContext(ctx, `INSERT INTO exams (name, type, min_score) VALUES ($1, $2, $3) RETURNING id`,
		e.Name, e.Type, nullInt(e.MinScore)).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "exam with this name and type already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create exam", err)
	}
	return &e, nil
}

func (r *ExamRepository) GetByID(ctx context.Context, id int64) (*exam.Exam, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, type, min_score FROM exams WHERE id = $1`, id)
	return scanExam(row)
}

func (r *ExamRepository) Update(ctx context.Context, e exam.Exam) (*exam.Exam, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE exams SET name = $1, type = $2, min_score = $3 WHERE id = $4`,
		e.Name, e.Type, nullInt(e.MinScore), e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "exam with this name and type already exists", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to update exam", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "exam not found", nil)
	}
	return r.GetByID(ctx, e.ID)
}

func (r *ExamRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM exams WHERE id = $1`, id)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete exam", err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return common.NewError(common.CodeNotFound, "exam not found", nil)
	}
	return nil
}

func (r *ExamRepository) List(ctx context.Context, offset, limit int) ([]exam.Exam, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, type, min_score FROM exams ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list exams", err)
	}
	defer rows.Close()
	var items []exam.Exam
	for rows.Next() {
		var e exam.Exam
		var minScore sql.NullInt64
		if err := rows.Scan(&e.ID, &e.Name, &e.Type, &minScore); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan exam", err)
		}
		e.MinScore = intPtr(minScore)
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list exams", err)
	}
	return items, nil
}

func (r *ExamRepository) FindByNameAndType(ctx context.Context, name string, examType exam.Type) (*exam.Exam, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, type, min_score FROM exams WHERE name = $1 AND type = $2 LIMIT 1`, name, examType)
	return scanExam(row)
}

func (r *ExamRepository) CountSpecialtyLinks(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM specialty_exams WHERE exam_id = $1`, id).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count specialty links", err)
	}
	return count, nil
}

func scanExam(row *sql.Row) (*exam.Exam, error) {
	var e exam.Exam
	var minScore sql.NullInt64
	if err := row.Scan(&e.ID, &e.Name, &e.Type, &minScore); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "exam not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load exam", err)
	}
	e.MinScore = intPtr(minScore)
	return &e, nil
}
